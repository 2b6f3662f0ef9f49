package model

import "strings"

// SearchQuery represents one structured product search, constructed per user
// turn by the chat/orchestration layer and consumed once.
type SearchQuery struct {
	Query                         string   `json:"query"`
	ProductName                   string   `json:"product_name,omitempty"`
	MinPrice                      float64  `json:"min_price,omitempty"`
	MaxPrice                      *float64 `json:"max_price,omitempty"`
	Category                      Category `json:"category,omitempty"`
	TechnicalSpecificationsNeeded bool     `json:"technical_specifications_needed"`
	TechnicalSpecifications       string   `json:"technical_specifications,omitempty"`
}

// Blank reports whether the query has no usable text
func (q *SearchQuery) Blank() bool {
	return strings.TrimSpace(q.Query) == ""
}

// EmbeddingText returns the query text to embed, with the named product and
// requested specifications appended on separate lines. The embedder
// normalizes the newlines to spaces.
func (q *SearchQuery) EmbeddingText() string {
	parts := []string{strings.TrimSpace(q.Query)}
	if q.ProductName != "" {
		parts = append(parts, "Specifically the product is "+q.ProductName)
	}
	if q.TechnicalSpecifications != "" {
		parts = append(parts, "Required specifications: "+q.TechnicalSpecifications)
	}
	return strings.Join(parts, "\n")
}
