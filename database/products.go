package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/aliprando/vetrina/helper"
	"github.com/aliprando/vetrina/model"
	loadSql "github.com/aliprando/vetrina/sql"
)

// ProductsDBHandlerFunctions defines the interface for Products database operations.
type ProductsDBHandlerFunctions interface {
	InsertProduct(product *model.Product) error
	UpdateProductEmbedding(product *model.Product) error
	DeleteProduct(id int) error
	SelectProduct(id int) (*model.Product, error)
	SelectProductsBySimilarity(ctx context.Context, embedding []float32, limit int, threshold float64, minPrice float64, maxPrice float64, category string, requireStock bool) ([]*model.Product, error)
}

// ProductsDBHandler handles product-related database operations
type ProductsDBHandler struct {
	db *helper.Database
}

// NewProductsDBHandler creates a new products database handler.
// It initializes the database connection and loads product-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewProductsDBHandler(db *helper.Database, embeddingDim int, force bool) (*ProductsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	productsDbHandler := &ProductsDBHandler{
		db: db,
	}

	err := loadSql.LoadProductsSql(productsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load products sql", err)
	}

	err = productsDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ProductsDBHandler")

	return productsDbHandler, nil
}

// CreateTable creates the 'products' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary extensions and indexes.
func (h *ProductsDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_products($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing products table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table products")

	return nil
}

// InsertProduct inserts a new product. An existing product with the same id
// is overwritten, feed ingestion runs repeatedly over the same catalog.
func (h *ProductsDBHandler) InsertProduct(product *model.Product) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_product($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`,
		product.ID,
		product.Title,
		product.Brand,
		product.Availability,
		product.Price,
		product.OnlineRecommendedRetailPrice,
		product.OnlineStrikePrice,
		product.Category,
		product.BreadcrumbAll,
		product.Description,
		product.Gtin,
		product.Mpn,
		product.Size,
		product.Color,
		product.Link,
		product.ImageLink,
		product.ProductSpecification,
		product.EnergyEfficiencyClass,
		product.ShippingCosts,
		product.TotalAvailability,
		product.DeliveryTimeIndicator,
		product.MarketingText,
		product.ImageLinkAdditional,
		pq.Array(product.Embedding),
	)

	err := scanProduct(row, product)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// UpdateProductEmbedding updates the embedding of a product
func (h *ProductsDBHandler) UpdateProductEmbedding(product *model.Product) error {
	embeddingVector := pgvector.NewVector(product.Embedding)
	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_product_embedding($1, $2)`,
		product.ID,
		embeddingVector,
	)

	err := scanProduct(row, product)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeleteProduct deletes a product by ID
func (h *ProductsDBHandler) DeleteProduct(id int) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_product($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectProduct retrieves a product by ID
func (h *ProductsDBHandler) SelectProduct(id int) (*model.Product, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_product($1)`,
		id,
	)

	product := &model.Product{}
	err := scanProduct(row, product)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return product, nil
}

// SelectProductsBySimilarity performs filtered vector similarity search.
// Category filtering is skipped when category is empty. The returned
// products carry their similarity but never their embedding.
func (h *ProductsDBHandler) SelectProductsBySimilarity(
	ctx context.Context,
	embedding []float32,
	limit int,
	threshold float64,
	minPrice float64,
	maxPrice float64,
	category string,
	requireStock bool,
) ([]*model.Product, error) {
	embeddingVector := pgvector.NewVector(embedding)

	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_products_by_similarity($1, $2, $3, $4, $5, $6, $7)`,
		embeddingVector,
		limit,
		threshold,
		minPrice,
		maxPrice,
		category,
		requireStock,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.Product
	for rows.Next() {
		product := &model.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Title,
			&product.Brand,
			&product.Availability,
			&product.Price,
			&product.OnlineRecommendedRetailPrice,
			&product.OnlineStrikePrice,
			&product.Category,
			&product.BreadcrumbAll,
			&product.Description,
			&product.Gtin,
			&product.Mpn,
			&product.Size,
			&product.Color,
			&product.Link,
			&product.ImageLink,
			&product.ProductSpecification,
			&product.EnergyEfficiencyClass,
			&product.ShippingCosts,
			&product.TotalAvailability,
			&product.DeliveryTimeIndicator,
			&product.MarketingText,
			&product.ImageLinkAdditional,
			&product.CreatedAt,
			&product.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		results = append(results, product)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

// rowScanner covers sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, product *model.Product) error {
	return row.Scan(
		&product.ID,
		&product.Title,
		&product.Brand,
		&product.Availability,
		&product.Price,
		&product.OnlineRecommendedRetailPrice,
		&product.OnlineStrikePrice,
		&product.Category,
		&product.BreadcrumbAll,
		&product.Description,
		&product.Gtin,
		&product.Mpn,
		&product.Size,
		&product.Color,
		&product.Link,
		&product.ImageLink,
		&product.ProductSpecification,
		&product.EnergyEfficiencyClass,
		&product.ShippingCosts,
		&product.TotalAvailability,
		&product.DeliveryTimeIndicator,
		&product.MarketingText,
		&product.ImageLinkAdditional,
		pq.Array(&product.Embedding),
		&product.CreatedAt,
	)
}
