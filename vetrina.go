package vetrina

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aliprando/vetrina/core/cache"
	"github.com/aliprando/vetrina/core/pipeline"
	"github.com/aliprando/vetrina/core/retrieval"
	"github.com/aliprando/vetrina/database"
	"github.com/aliprando/vetrina/helper"
	"github.com/aliprando/vetrina/model"
	loadSql "github.com/aliprando/vetrina/sql"
)

// Vetrina is the product retrieval core: catalog ingestion with embeddings
// and filtered similarity search with ranking and shaping.
type Vetrina struct {
	DB       *helper.Database
	Products *database.ProductsDBHandler
	Pipeline *pipeline.Pipeline // Embedding and reranking pipeline
	Engine   *retrieval.Engine  // Retrieval engine
	cache    *cache.EmbeddingCache
	// Logging
	log *slog.Logger
}

// NewVetrina creates a new Vetrina instance with all handlers initialized
func NewVetrina(config *helper.DatabaseConfiguration, embeddingDim int) (*Vetrina, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("vetrina", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	products, err := database.NewProductsDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create products handler", err)
	}

	engine := retrieval.NewEngine(products, logger)

	return &Vetrina{
		DB:       db,
		Products: products,
		Engine:   engine,
		log:      logger,
	}, nil
}

// Close closes the database connection and the embedding cache
func (v *Vetrina) Close() error {
	if v.cache != nil {
		if err := v.cache.Close(); err != nil {
			v.log.Warn(fmt.Sprintf("error closing embedding cache: %v", err))
		}
	}
	if v.DB != nil && v.DB.Instance != nil {
		return v.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the embedding pipeline
func (v *Vetrina) SetPipeline(pipeline *pipeline.Pipeline) {
	v.Pipeline = pipeline
}

// UseDefaultPipeline sets up the default embedding pipeline using the
// all-MiniLM-L6-v2 model (384 dimensions)
func (v *Vetrina) UseDefaultPipeline() error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	v.Pipeline = pipeline.NewPipeline(embedder)
	return nil
}

// SetEmbeddingCache attaches a Redis-backed embedding cache. Query and
// product texts hit the cache before the embedding provider.
func (v *Vetrina) SetEmbeddingCache(cache *cache.EmbeddingCache) {
	v.cache = cache
}

// SetReranker attaches a cross-encoder reranker to the pipeline and engine
func (v *Vetrina) SetReranker(reranker pipeline.RerankFunc) error {
	if v.Pipeline == nil {
		return helper.NewError("set reranker", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}
	v.Pipeline.SetReranker(reranker)
	v.Engine.SetReranker(reranker)
	return nil
}

// SetScorer replaces the engine's ranking strategy
func (v *Vetrina) SetScorer(scorer retrieval.Scorer) {
	v.Engine.SetScorer(scorer)
}

// embed runs text through the pipeline, consulting the cache when set
func (v *Vetrina) embed(ctx context.Context, text string) ([]float32, error) {
	if v.Pipeline == nil || v.Pipeline.Embedder == nil {
		return nil, fmt.Errorf("pipeline with embedder not set, use SetPipeline() first")
	}

	embedder := v.Pipeline.Embedder
	if v.cache != nil {
		embedder = v.cache.Wrap(embedder)
	}

	return embedder(ctx, pipeline.NormalizeEmbeddingText(text))
}

// IngestProduct embeds the product's descriptive text and upserts the row.
// Products failing validation are stored anyway, search filters them out,
// but they are logged so broken feed rows stay visible.
func (v *Vetrina) IngestProduct(ctx context.Context, product *model.Product) error {
	embedding, err := v.embed(ctx, product.EmbeddingText())
	if err != nil {
		return helper.NewError("embed product", err)
	}
	product.Embedding = embedding

	if err := v.Products.InsertProduct(product); err != nil {
		return helper.NewError("insert product", err)
	}

	if !product.Valid() {
		v.log.Warn(fmt.Sprintf("Ingested malformed product %d, it will not be searchable", product.ID))
	}

	return nil
}

// IngestProducts ingests a batch of products. The progress callback, when
// not nil, is called after every product. The first failure aborts the batch
// and reports how many products made it in.
func (v *Vetrina) IngestProducts(ctx context.Context, products []*model.Product, progress func(done int, total int)) (int, error) {
	for i, product := range products {
		if err := v.IngestProduct(ctx, product); err != nil {
			return i, helper.NewError(fmt.Sprintf("ingest product %d", product.ID), err)
		}
		if progress != nil {
			progress(i+1, len(products))
		}
	}

	v.log.Info(fmt.Sprintf("Ingested %d products", len(products)))

	return len(products), nil
}

// Search runs a structured query through the full retrieval pipeline. A
// blank query is the empty outcome without touching the embedder or the
// database. Provider and database failures are errors.
func (v *Vetrina) Search(ctx context.Context, query *model.SearchQuery, config *model.SearchConfig) (*model.SearchOutcome, error) {
	if query == nil || query.Blank() {
		return model.EmptyOutcome(), nil
	}

	embedding, err := v.embed(ctx, query.EmbeddingText())
	if err != nil {
		return nil, helper.NewError("embed query", err)
	}

	return v.Engine.Search(ctx, embedding, query, config)
}
