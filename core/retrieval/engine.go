package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/aliprando/vetrina/core/pipeline"
	"github.com/aliprando/vetrina/helper"
	"github.com/aliprando/vetrina/model"
)

// ProductSearcher is the slice of the products handler the engine depends on
type ProductSearcher interface {
	SelectProductsBySimilarity(ctx context.Context, embedding []float32, limit int, threshold float64, minPrice float64, maxPrice float64, category string, requireStock bool) ([]*model.Product, error)
}

// Engine runs the retrieval pipeline: filtered similarity search with a
// relaxed fallback pass, ranking, optional reranking and result shaping.
type Engine struct {
	products ProductSearcher
	scorer   Scorer
	reranker pipeline.RerankFunc
	log      *slog.Logger
}

// NewEngine creates a new retrieval engine ranking by similarity only
func NewEngine(products ProductSearcher, logger *slog.Logger) *Engine {
	return &Engine{
		products: products,
		scorer:   SimilarityScorer{},
		log:      logger,
	}
}

// SetScorer replaces the ranking strategy
func (e *Engine) SetScorer(scorer Scorer) {
	e.scorer = scorer
}

// SetReranker sets the cross-encoder reranking function
func (e *Engine) SetReranker(reranker pipeline.RerankFunc) {
	e.reranker = reranker
}

// Search retrieves products for an already embedded query.
// The primary pass applies the full filter set. When it matches nothing, a
// relaxed pass lowers the similarity threshold and drops the category
// filter, the price window is never relaxed. An impossible price window or
// two empty passes give the empty outcome, infrastructure failures are
// errors.
func (e *Engine) Search(ctx context.Context, embedding []float32, query *model.SearchQuery, config *model.SearchConfig) (*model.SearchOutcome, error) {
	searchID := uuid.New()

	if config == nil {
		defaults := model.DefaultSearchConfig()
		config = &defaults
	}

	minPrice := query.MinPrice
	maxPrice := config.DefaultMaxPrice
	if query.MaxPrice != nil {
		maxPrice = *query.MaxPrice
	}
	if maxPrice <= 0 || maxPrice < minPrice {
		e.log.Info(fmt.Sprintf("Search %v: impossible price window [%v, %v]", searchID, minPrice, maxPrice))
		return model.EmptyOutcome(), nil
	}

	category := string(model.NormalizeCategory(query.Category))

	candidates, err := e.searchPass(ctx, embedding, config.PrimaryThreshold, minPrice, maxPrice, category, config, model.RetrievalPassPrimary)
	if err != nil {
		return nil, helper.NewError("primary similarity search", err)
	}

	relaxed := false
	if len(candidates) == 0 {
		candidates, err = e.searchPass(ctx, embedding, config.RelaxedThreshold, minPrice, maxPrice, "", config, model.RetrievalPassRelaxed)
		if err != nil {
			return nil, helper.NewError("relaxed similarity search", err)
		}
		relaxed = true
	}

	if len(candidates) == 0 {
		e.log.Info(fmt.Sprintf("Search %v: no products matched", searchID))
		return model.EmptyOutcome(), nil
	}

	e.scorer.Rank(candidates)

	if config.RerankEnabled && e.reranker != nil {
		candidates = e.rerank(ctx, searchID, query.Query, candidates, config)
	}

	results := Shape(candidates, query.TechnicalSpecificationsNeeded, config.ResultLimit)

	e.log.Info(fmt.Sprintf("Search %v: returning %d products (relaxed: %v)", searchID, len(results), relaxed))

	return model.FoundOutcome(results, relaxed), nil
}

// searchPass runs one similarity query and keeps only well-formed products
func (e *Engine) searchPass(
	ctx context.Context,
	embedding []float32,
	threshold float64,
	minPrice float64,
	maxPrice float64,
	category string,
	config *model.SearchConfig,
	pass model.RetrievalPass,
) ([]*model.Candidate, error) {
	products, err := e.products.SelectProductsBySimilarity(ctx, embedding, config.CandidateLimit, threshold, minPrice, maxPrice, category, config.RequireStock)
	if err != nil {
		return nil, err
	}

	candidates := make([]*model.Candidate, 0, len(products))
	for _, product := range products {
		if !product.Valid() {
			continue
		}
		similarity := 0.0
		if product.Similarity != nil {
			similarity = *product.Similarity
		}
		product.Pass = pass
		candidates = append(candidates, &model.Candidate{
			Product:    product,
			Similarity: similarity,
			Pass:       pass,
		})
	}

	return candidates, nil
}

// rerank scores every candidate with the cross-encoder and keeps the best
// RerankLimit of them, ordered by relevance. The reranker is advisory: any
// failure, an empty response or all scores below the cutoff keep the ranked
// order.
func (e *Engine) rerank(ctx context.Context, searchID uuid.UUID, query string, candidates []*model.Candidate, config *model.SearchConfig) []*model.Candidate {
	documents := make([]pipeline.RerankDocument, 0, len(candidates))
	for _, c := range candidates {
		documents = append(documents, pipeline.RerankDocument{
			Title:       c.Product.Title,
			Brand:       c.Product.Brand,
			Category:    c.Product.Category,
			Description: c.Product.MarketingText,
		})
	}

	scores, err := e.reranker(ctx, query, documents, config.RerankLimit)
	if err != nil {
		e.log.Warn(fmt.Sprintf("Search %v: rerank failed, keeping ranked order: %v", searchID, err))
		return candidates
	}
	if len(scores) == 0 {
		e.log.Warn(fmt.Sprintf("Search %v: rerank returned no scores, keeping ranked order", searchID))
		return candidates
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	reranked := make([]*model.Candidate, 0, config.RerankLimit)
	for _, score := range scores {
		if len(reranked) == config.RerankLimit {
			break
		}
		if score.Index < 0 || score.Index >= len(candidates) {
			continue
		}
		if score.Score <= config.MinRerankScore {
			continue
		}
		candidate := candidates[score.Index]
		candidate.RerankScore = score.Score
		reranked = append(reranked, candidate)
	}

	if len(reranked) == 0 {
		e.log.Warn(fmt.Sprintf("Search %v: all rerank scores below %v, keeping ranked order", searchID, config.MinRerankScore))
		return candidates
	}

	return reranked
}
