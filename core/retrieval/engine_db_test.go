package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliprando/vetrina/model"
)

func dbProduct(id int, title string, category string, price float64, embedding []float32) *model.Product {
	return &model.Product{
		ID:                id,
		Title:             title,
		Brand:             "TestBrand",
		Price:             price,
		Category:          category,
		Description:       "Description for " + title,
		Link:              "https://www.mediaworld.it/it/product/_test-123456.html",
		ImageLink:         "https://assets.mmsrg.com/isr/166325/c1/-/ASSET_MMS_123/fee_786_587_png",
		MarketingText:     "Marketing text for " + title,
		TotalAvailability: 3,
		Embedding:         embedding,
	}
}

func TestEngineSearchAgainstDatabase(t *testing.T) {
	products := initProductsHandler(t)
	engine := NewEngine(products, engineTestLogger())

	ctx := context.Background()
	config := model.DefaultSearchConfig()

	// Cosine similarity against [1, 0, 0]: exact 1.0, diagonal ~0.707,
	// near-orthogonal below both thresholds
	inserted := []*model.Product{
		dbProduct(101, "Exact match phone", "Telefonia", 500, []float32{1, 0, 0}),
		dbProduct(102, "Close match phone", "Telefonia", 700, []float32{1, 1, 0}),
		dbProduct(103, "Different category match", "Computer", 900, []float32{1, 0.1, 0}),
		dbProduct(104, "Unrelated product", "Telefonia", 300, []float32{0, 1, 0}),
	}
	for _, p := range inserted {
		require.NoError(t, products.InsertProduct(p))
	}

	query := []float32{1, 0, 0}

	t.Run("Primary pass returns matching category products", func(t *testing.T) {
		q := &model.SearchQuery{Query: "smartphone", Category: "Telefonia"}
		outcome, err := engine.Search(ctx, query, q, &config)
		assert.NoError(t, err, "Expected Search to not return an error")
		require.False(t, outcome.Empty(), "Expected a found outcome")
		assert.False(t, outcome.Relaxed)
		assert.Equal(t, "Exact match phone", outcome.Products[0].Title, "Expected the best match first")
		for _, p := range outcome.Products {
			assert.Equal(t, "Telefonia", p.Category, "Expected only the filtered category")
		}
	})

	t.Run("Unknown category falls back across all categories", func(t *testing.T) {
		q := &model.SearchQuery{Query: "smartphone", Category: "Categoria Inesistente"}
		outcome, err := engine.Search(ctx, query, q, &config)
		assert.NoError(t, err, "Expected Search to not return an error")
		require.False(t, outcome.Empty(), "Expected the relaxed pass to match")
		assert.True(t, outcome.Relaxed, "Expected relaxed results after an empty primary pass")
	})

	t.Run("Nothing similar gives the empty outcome", func(t *testing.T) {
		q := &model.SearchQuery{Query: "qualcosa di diverso"}
		outcome, err := engine.Search(ctx, []float32{0, 0, 1}, q, &config)
		assert.NoError(t, err, "Expected no matches to not be an error")
		assert.True(t, outcome.Empty(), "Expected the empty outcome")
	})

	t.Run("Price window filters results", func(t *testing.T) {
		max := 600.0
		q := &model.SearchQuery{Query: "smartphone", MaxPrice: &max}
		outcome, err := engine.Search(ctx, query, q, &config)
		assert.NoError(t, err)
		require.False(t, outcome.Empty())
		for _, p := range outcome.Products {
			assert.LessOrEqual(t, p.Price, 600.0, "Expected only products inside the window")
		}
	})
}
