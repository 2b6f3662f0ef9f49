package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RemoteEmbedderConfig holds the configuration for an OpenAI-compatible
// embeddings endpoint.
type RemoteEmbedderConfig struct {
	APIKey    string
	Model     string // e.g. "text-embedding-3-small"
	BaseURL   string // e.g. "https://api.openai.com/v1"
	Dimension int    // Optional, verified against the response when set
	Timeout   time.Duration
}

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// RemoteEmbedder creates an embedder backed by an OpenAI-compatible
// embeddings API. Use it instead of DefaultEmbedder when the catalog
// embeddings were produced by a hosted model.
func RemoteEmbedder(cfg RemoteEmbedderConfig) (EmbedFunc, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	return func(ctx context.Context, text string) ([]float32, error) {
		jsonBody, err := json.Marshal(embeddingRequest{
			Input: []string{text},
			Model: cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/embeddings", bytes.NewReader(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("embeddings request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("embeddings request failed with status %d: %s", resp.StatusCode, string(body))
		}

		var decoded embeddingResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if decoded.Error != nil {
			return nil, fmt.Errorf("embeddings API error: %s", decoded.Error.Message)
		}
		if len(decoded.Data) == 0 {
			return nil, fmt.Errorf("no embedding returned")
		}

		embedding := decoded.Data[0].Embedding
		if cfg.Dimension > 0 && len(embedding) != cfg.Dimension {
			return nil, fmt.Errorf("expected embedding dimension %d, got %d", cfg.Dimension, len(embedding))
		}

		return embedding, nil
	}, nil
}
