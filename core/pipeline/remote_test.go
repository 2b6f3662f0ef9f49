package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteEmbedder(t *testing.T) {
	t.Run("Missing API key is rejected", func(t *testing.T) {
		_, err := RemoteEmbedder(RemoteEmbedderConfig{BaseURL: "http://localhost", Model: "m"})
		assert.Error(t, err, "Expected missing API key to be rejected")
	})

	t.Run("Missing base URL is rejected", func(t *testing.T) {
		_, err := RemoteEmbedder(RemoteEmbedderConfig{APIKey: "key", Model: "m"})
		assert.Error(t, err, "Expected missing base URL to be rejected")
	})

	t.Run("Successful embedding request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/embeddings", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req embeddingRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			require.NoError(t, err)
			assert.Equal(t, []string{"cuffie wireless"}, req.Input)
			assert.Equal(t, "test-model", req.Model)

			err = json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"embedding": []float32{0.1, 0.2, 0.3}, "index": 0},
				},
			})
			require.NoError(t, err)
		}))
		defer server.Close()

		embed, err := RemoteEmbedder(RemoteEmbedderConfig{
			APIKey:  "test-key",
			Model:   "test-model",
			BaseURL: server.URL,
		})
		require.NoError(t, err, "Expected RemoteEmbedder to not return an error")

		embedding, err := embed(context.Background(), "cuffie wireless")
		assert.NoError(t, err, "Expected embed call to not return an error")
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding)
	})

	t.Run("Dimension mismatch errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"embedding": []float32{0.1, 0.2}, "index": 0},
				},
			})
			require.NoError(t, err)
		}))
		defer server.Close()

		embed, err := RemoteEmbedder(RemoteEmbedderConfig{
			APIKey:    "test-key",
			Model:     "test-model",
			BaseURL:   server.URL,
			Dimension: 384,
		})
		require.NoError(t, err)

		_, err = embed(context.Background(), "text")
		assert.Error(t, err, "Expected dimension mismatch to return an error")
		assert.Contains(t, err.Error(), "dimension", "Expected the error to name the dimension")
	})

	t.Run("Server error is surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		embed, err := RemoteEmbedder(RemoteEmbedderConfig{
			APIKey:  "test-key",
			Model:   "test-model",
			BaseURL: server.URL,
		})
		require.NoError(t, err)

		_, err = embed(context.Background(), "text")
		assert.Error(t, err, "Expected server error to be surfaced")
	})

	t.Run("Empty data errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
			require.NoError(t, err)
		}))
		defer server.Close()

		embed, err := RemoteEmbedder(RemoteEmbedderConfig{
			APIKey:  "test-key",
			Model:   "test-model",
			BaseURL: server.URL,
		})
		require.NoError(t, err)

		_, err = embed(context.Background(), "text")
		assert.Error(t, err, "Expected empty data to return an error")
	})
}

func TestRemoteReranker(t *testing.T) {
	t.Run("Missing API key is rejected", func(t *testing.T) {
		_, err := RemoteReranker(RemoteRerankerConfig{})
		assert.Error(t, err, "Expected missing API key to be rejected")
	})

	t.Run("Successful rerank request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rerank", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req rerankRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			require.NoError(t, err)
			assert.Equal(t, "cuffie wireless", req.Query)
			assert.Len(t, req.Documents, 2)
			assert.Equal(t, 6, req.TopN)

			err = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"index": 1, "relevance_score": 0.92},
					{"index": 0, "relevance_score": 0.41},
				},
			})
			require.NoError(t, err)
		}))
		defer server.Close()

		rerank, err := RemoteReranker(RemoteRerankerConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})
		require.NoError(t, err, "Expected RemoteReranker to not return an error")

		documents := []RerankDocument{
			{Title: "Cavo USB", Brand: "Generic"},
			{Title: "Sony WH-1000XM5", Brand: "Sony"},
		}
		scores, err := rerank(context.Background(), "cuffie wireless", documents, 6)
		assert.NoError(t, err, "Expected rerank call to not return an error")
		require.Len(t, scores, 2, "Expected one score per result")
		assert.Equal(t, 1, scores[0].Index, "Expected the best match first")
		assert.Equal(t, 0.92, scores[0].Score)
	})

	t.Run("Out of range indices are dropped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"index": 5, "relevance_score": 0.9},
					{"index": 0, "relevance_score": 0.5},
				},
			})
			require.NoError(t, err)
		}))
		defer server.Close()

		rerank, err := RemoteReranker(RemoteRerankerConfig{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		scores, err := rerank(context.Background(), "query", []RerankDocument{{Text: "doc"}}, 6)
		assert.NoError(t, err)
		require.Len(t, scores, 1, "Expected the out of range index to be dropped")
		assert.Equal(t, 0, scores[0].Index)
	})

	t.Run("Empty document list short-circuits", func(t *testing.T) {
		rerank, err := RemoteReranker(RemoteRerankerConfig{APIKey: "test-key", BaseURL: "http://localhost:1"})
		require.NoError(t, err)

		scores, err := rerank(context.Background(), "query", nil, 6)
		assert.NoError(t, err, "Expected no request for an empty document list")
		assert.Empty(t, scores)
	})

	t.Run("Server error is surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad request", http.StatusBadRequest)
		}))
		defer server.Close()

		rerank, err := RemoteReranker(RemoteRerankerConfig{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = rerank(context.Background(), "query", []RerankDocument{{Text: "doc"}}, 6)
		assert.Error(t, err, "Expected server error to be surfaced")
	})
}
