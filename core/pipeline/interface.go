package pipeline

import (
	"context"
	"strings"
)

// EmbedFunc is a function that generates embeddings for text
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// RerankDocument is one candidate handed to a reranker. The fields mirror
// what a cross-encoder can usefully attend to for a product.
type RerankDocument struct {
	Text        string
	Title       string
	Brand       string
	Category    string
	Description string
}

// RerankScore is a relevance score for the document at Index in the input
type RerankScore struct {
	Index int
	Score float64
}

// RerankFunc scores documents against a query and returns them ordered by
// descending relevance. Implementations return at most topN scores.
type RerankFunc func(ctx context.Context, query string, documents []RerankDocument, topN int) ([]RerankScore, error)

// Pipeline combines the embedding and reranking stages
type Pipeline struct {
	Embedder EmbedFunc
	Reranker RerankFunc // Optional
}

// NewPipeline creates a new processing pipeline
func NewPipeline(embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		Embedder: embedder,
	}
}

// SetReranker sets the reranking function
func (p *Pipeline) SetReranker(reranker RerankFunc) {
	p.Reranker = reranker
}

// Embed normalizes the text and runs it through the embedder. Newlines are
// part of the composition format for embedding texts, the models expect a
// single line.
func (p *Pipeline) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.Embedder(ctx, NormalizeEmbeddingText(text))
}

// NormalizeEmbeddingText flattens text to a single whitespace-separated line
func NormalizeEmbeddingText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
