package model

import (
	"regexp"
	"strings"
	"time"
)

// RetrievalPass identifies which search pass produced a candidate
type RetrievalPass string

const (
	RetrievalPassPrimary RetrievalPass = "primary"
	RetrievalPassRelaxed RetrievalPass = "relaxed"
)

// Canonical URL shapes for the catalog. Rows not matching these are treated
// as malformed and never surfaced by search.
var (
	productLinkPattern  = regexp.MustCompile(`^https://www\.mediaworld\.it/it/product/_.*-\d+\.html$`)
	productImagePattern = regexp.MustCompile(`^https://assets\.mmsrg\.com/isr/\d+/c1/-/ASSET_MMS_\d+/fee_\d+_\d+_png$`)
)

// Product represents one catalog item as delivered by the ingestion feed
type Product struct {
	ID                           int       `json:"id"`
	Title                        string    `json:"title"`
	Brand                        string    `json:"brand"`
	Availability                 string    `json:"availability,omitempty"`
	Price                        float64   `json:"price"`
	OnlineRecommendedRetailPrice *float64  `json:"online_recommended_retail_price,omitempty"`
	OnlineStrikePrice            *float64  `json:"online_strike_price,omitempty"`
	Category                     string    `json:"category"`
	BreadcrumbAll                string    `json:"breadcrumb_all,omitempty"`
	Description                  string    `json:"description"`
	Gtin                         string    `json:"gtin,omitempty"`
	Mpn                          string    `json:"mpn,omitempty"`
	Size                         string    `json:"size,omitempty"`
	Color                        string    `json:"color,omitempty"`
	Link                         string    `json:"link"`
	ImageLink                    string    `json:"image_link"`
	ProductSpecification         string    `json:"product_specification,omitempty"`
	EnergyEfficiencyClass        string    `json:"energy_efficiency_class,omitempty"`
	ShippingCosts                *float64  `json:"shipping_costs,omitempty"`
	TotalAvailability            int       `json:"total_availability"`
	DeliveryTimeIndicator        string    `json:"delivery_time_indicator,omitempty"`
	MarketingText                string    `json:"marketing_text"`
	ImageLinkAdditional          string    `json:"image_link_additional,omitempty"`
	Embedding                    []float32 `json:"embedding,omitempty"`
	CreatedAt                    time.Time `json:"created_at"`
	// Results
	Similarity *float64      `json:"similarity,omitempty"`
	Pass       RetrievalPass `json:"pass,omitempty"`
}

// Valid reports whether the product is complete enough to be surfaced by
// search. Malformed rows are invisible, not returned as partial data.
func (p *Product) Valid() bool {
	if p.Price <= 0 || p.Price >= 10000 {
		return false
	}
	if strings.TrimSpace(p.Title) == "" ||
		strings.TrimSpace(p.Brand) == "" ||
		strings.TrimSpace(p.Description) == "" ||
		strings.TrimSpace(p.MarketingText) == "" {
		return false
	}
	if !productLinkPattern.MatchString(p.Link) {
		return false
	}
	if !productImagePattern.MatchString(p.ImageLink) {
		return false
	}
	return true
}

// EmbeddingText returns the text that gets embedded for the product at
// ingestion time. Newlines are kept here, the embedder normalizes them.
func (p *Product) EmbeddingText() string {
	parts := []string{p.Title, p.Brand, p.MarketingText, p.Description}
	if p.ProductSpecification != "" {
		parts = append(parts, p.ProductSpecification)
	}
	return strings.Join(parts, "\n")
}
