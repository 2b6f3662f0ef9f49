package retrieval

import "github.com/aliprando/vetrina/model"

// Shape converts ranked candidates into the caller-facing records. At most
// limit products come back and the technical specification is only included
// when the query asked for it. Embeddings never reach this point, the
// similarity queries do not select them.
func Shape(candidates []*model.Candidate, includeSpecification bool, limit int) []model.ProductResult {
	if limit > len(candidates) {
		limit = len(candidates)
	}

	results := make([]model.ProductResult, 0, limit)
	for _, c := range candidates[:limit] {
		result := model.ProductResult{
			Title:         c.Product.Title,
			Price:         c.Product.Price,
			MarketingText: c.Product.MarketingText,
			Category:      c.Product.Category,
			Link:          c.Product.Link,
			ImageLink:     c.Product.ImageLink,
			Description:   c.Product.Description,
		}
		if includeSpecification {
			result.ProductSpecification = c.Product.ProductSpecification
		}
		results = append(results, result)
	}

	return results
}
