package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RemoteRerankerConfig holds the configuration for a Cohere-compatible
// rerank endpoint.
type RemoteRerankerConfig struct {
	APIKey  string
	Model   string // e.g. "rerank-multilingual-v3.0"
	BaseURL string // e.g. "https://api.cohere.com/v2"
	Timeout time.Duration
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
	Message string `json:"message,omitempty"`
}

// RemoteReranker creates a reranking function backed by a Cohere-compatible
// cross-encoder API. Scores come back attached to the input indices, the
// caller decides what to do with them.
func RemoteReranker(cfg RemoteRerankerConfig) (RerankFunc, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.cohere.com/v2"
	}
	if cfg.Model == "" {
		cfg.Model = "rerank-multilingual-v3.0"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	return func(ctx context.Context, query string, documents []RerankDocument, topN int) ([]RerankScore, error) {
		if len(documents) == 0 {
			return nil, nil
		}

		texts := make([]string, 0, len(documents))
		for _, doc := range documents {
			texts = append(texts, doc.Render())
		}

		jsonBody, err := json.Marshal(rerankRequest{
			Model:     cfg.Model,
			Query:     query,
			Documents: texts,
			TopN:      topN,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/rerank", bytes.NewReader(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("rerank request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("rerank request failed with status %d: %s", resp.StatusCode, string(body))
		}

		var decoded rerankResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}

		scores := make([]RerankScore, 0, len(decoded.Results))
		for _, result := range decoded.Results {
			if result.Index < 0 || result.Index >= len(documents) {
				continue
			}
			scores = append(scores, RerankScore{
				Index: result.Index,
				Score: result.RelevanceScore,
			})
		}

		return scores, nil
	}, nil
}

// Render serializes the document for a cross-encoder. Field labels help the
// model separate the product facets.
func (d RerankDocument) Render() string {
	if d.Title == "" && d.Brand == "" && d.Category == "" && d.Description == "" {
		return d.Text
	}

	var b strings.Builder
	writeField := func(label, value string) {
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
	}
	writeField("Title", d.Title)
	writeField("Brand", d.Brand)
	writeField("Category", d.Category)
	writeField("Description", d.Description)
	writeField("Details", d.Text)
	return b.String()
}
