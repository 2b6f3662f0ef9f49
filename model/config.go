package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SearchConfig parameterizes the retrieval pipeline. The observed catalog
// deployments differ only in these numbers, so they are configuration, not
// code variants.
type SearchConfig struct {
	// Similarity search parameters
	PrimaryThreshold float64 `json:"primary_threshold" yaml:"primary_threshold"`
	RelaxedThreshold float64 `json:"relaxed_threshold" yaml:"relaxed_threshold"`
	CandidateLimit   int     `json:"candidate_limit" yaml:"candidate_limit"`
	RequireStock     bool    `json:"require_stock" yaml:"require_stock"`
	// DefaultMaxPrice caps the price window when the query leaves it open
	DefaultMaxPrice float64 `json:"default_max_price" yaml:"default_max_price"`

	// Scoring parameters
	BlendScoring     bool    `json:"blend_scoring" yaml:"blend_scoring"`
	SimilarityWeight float64 `json:"similarity_weight" yaml:"similarity_weight"`
	PriceWeight      float64 `json:"price_weight" yaml:"price_weight"`

	// Re-ranking parameters
	RerankEnabled  bool    `json:"rerank_enabled" yaml:"rerank_enabled"`
	RerankLimit    int     `json:"rerank_limit" yaml:"rerank_limit"`
	MinRerankScore float64 `json:"min_rerank_score" yaml:"min_rerank_score"`

	// Shaping parameters
	ResultLimit int `json:"result_limit" yaml:"result_limit"`
}

// DefaultSearchConfig returns the configuration observed in production
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		PrimaryThreshold: 0.4,
		RelaxedThreshold: 0.35,
		CandidateLimit:   10,
		RequireStock:     true,
		DefaultMaxPrice:  4500,
		BlendScoring:     false,
		SimilarityWeight: 0.7,
		PriceWeight:      0.3,
		RerankEnabled:    false,
		RerankLimit:      6,
		MinRerankScore:   0.05,
		ResultLimit:      4,
	}
}

// LoadSearchConfig reads a YAML file and overlays it on the defaults
func LoadSearchConfig(path string) (*SearchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading search config: %w", err)
	}

	config := DefaultSearchConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing search config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration for values the pipeline cannot work with
func (c *SearchConfig) Validate() error {
	if c.PrimaryThreshold < 0 || c.PrimaryThreshold > 1 || c.RelaxedThreshold < 0 || c.RelaxedThreshold > 1 {
		return fmt.Errorf("similarity thresholds must be within [0, 1], got %.2f and %.2f", c.PrimaryThreshold, c.RelaxedThreshold)
	}
	if c.PrimaryThreshold < c.RelaxedThreshold {
		return fmt.Errorf("primary threshold %.2f must not be below relaxed threshold %.2f", c.PrimaryThreshold, c.RelaxedThreshold)
	}
	if c.CandidateLimit <= 0 {
		return fmt.Errorf("candidate limit must be positive, got %d", c.CandidateLimit)
	}
	if c.ResultLimit <= 0 {
		return fmt.Errorf("result limit must be positive, got %d", c.ResultLimit)
	}
	if c.RerankLimit <= 0 {
		return fmt.Errorf("rerank limit must be positive, got %d", c.RerankLimit)
	}
	return nil
}
