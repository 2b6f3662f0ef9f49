package retrieval

import (
	"math"
	"sort"

	"github.com/aliprando/vetrina/model"
)

// Scorer assigns a score to every candidate and orders them best first.
// Ties break on the product ID so rankings are stable across runs.
type Scorer interface {
	Rank(candidates []*model.Candidate)
}

// SimilarityScorer ranks candidates purely by vector similarity
type SimilarityScorer struct{}

func (SimilarityScorer) Rank(candidates []*model.Candidate) {
	for _, c := range candidates {
		c.Score = c.Similarity
	}
	sortByScore(candidates)
}

// BlendScorer ranks candidates by a weighted blend of similarity and the
// logarithm of the price. The price term keeps a shelf of near-identical
// matches from collapsing onto the cheapest variants.
type BlendScorer struct {
	SimilarityWeight float64
	PriceWeight      float64
}

// NewBlendScorer creates a blend scorer from the search configuration
func NewBlendScorer(config *model.SearchConfig) *BlendScorer {
	return &BlendScorer{
		SimilarityWeight: config.SimilarityWeight,
		PriceWeight:      config.PriceWeight,
	}
}

func (s *BlendScorer) Rank(candidates []*model.Candidate) {
	for _, c := range candidates {
		price := c.Product.Price
		if price < 1 {
			price = 1
		}
		c.Score = s.SimilarityWeight*c.Similarity + s.PriceWeight*math.Log(price)
	}
	sortByScore(candidates)
}

func sortByScore(candidates []*model.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Product.ID < candidates[j].Product.ID
	})
}
