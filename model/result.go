package model

// OutcomeStatus distinguishes "products found" from "nothing matched".
// Failures are ordinary error returns, never an outcome.
type OutcomeStatus string

const (
	OutcomeFound OutcomeStatus = "found"
	OutcomeEmpty OutcomeStatus = "empty"
)

// ProductResult is the caller-facing product record. It deliberately has no
// embedding field, stored vectors cannot leak out of the retrieval core.
type ProductResult struct {
	Title                string  `json:"title"`
	Price                float64 `json:"price"`
	MarketingText        string  `json:"marketing_text"`
	Category             string  `json:"category"`
	Link                 string  `json:"link"`
	ImageLink            string  `json:"image_link"`
	Description          string  `json:"description"`
	ProductSpecification string  `json:"product_specification,omitempty"`
}

// SearchOutcome is the result of one search. Relaxed is true when the
// products were produced by the relaxed fallback pass (lower similarity
// threshold, category filter dropped).
type SearchOutcome struct {
	Status   OutcomeStatus   `json:"status"`
	Products []ProductResult `json:"products,omitempty"`
	Relaxed  bool            `json:"relaxed,omitempty"`
}

// FoundOutcome creates an outcome for a non-empty result list
func FoundOutcome(products []ProductResult, relaxed bool) *SearchOutcome {
	return &SearchOutcome{
		Status:   OutcomeFound,
		Products: products,
		Relaxed:  relaxed,
	}
}

// EmptyOutcome creates the "nothing matched" outcome
func EmptyOutcome() *SearchOutcome {
	return &SearchOutcome{
		Status: OutcomeEmpty,
	}
}

// Empty reports whether the outcome carries no products
func (o *SearchOutcome) Empty() bool {
	return o.Status == OutcomeEmpty || len(o.Products) == 0
}

// Candidate is a product flowing through the retrieval pipeline together
// with its scores
type Candidate struct {
	Product     *Product      `json:"product"`
	Score       float64       `json:"score"`
	Similarity  float64       `json:"similarity"`
	RerankScore float64       `json:"rerank_score,omitempty"`
	Pass        RetrievalPass `json:"pass"`
}
