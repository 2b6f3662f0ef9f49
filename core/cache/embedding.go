// Package cache provides an embedding cache so repeated queries skip the
// embedding provider.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliprando/vetrina/core/pipeline"
)

// ErrCacheMiss indicates a cache miss
var ErrCacheMiss = errors.New("cache miss")

// Config holds the embedding cache configuration
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// EmbeddingCache stores computed embeddings in Redis keyed by a hash of the
// normalized text. A broken cache never breaks a search, failures are logged
// and the embedder is called directly.
type EmbeddingCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

// NewEmbeddingCache creates a new embedding cache
func NewEmbeddingCache(cfg Config, logger *slog.Logger) (*EmbeddingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "embedding:"
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &EmbeddingCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    logger,
	}, nil
}

// Key returns the cache key for a text
func (c *EmbeddingCache) Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return c.prefix + hex.EncodeToString(sum[:])
}

// Get retrieves a cached embedding
func (c *EmbeddingCache) Get(ctx context.Context, text string) ([]float32, error) {
	val, err := c.client.Get(ctx, c.Key(text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var embedding []float32
	if err := json.Unmarshal(val, &embedding); err != nil {
		return nil, fmt.Errorf("unmarshal cached embedding: %w", err)
	}
	return embedding, nil
}

// Set stores an embedding
func (c *EmbeddingCache) Set(ctx context.Context, text string, embedding []float32) error {
	data, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	if err := c.client.Set(ctx, c.Key(text), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Wrap returns an embedder that consults the cache before calling embed and
// stores fresh results after. Cache failures fall through to the embedder.
func (c *EmbeddingCache) Wrap(embed pipeline.EmbedFunc) pipeline.EmbedFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		cached, err := c.Get(ctx, text)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn(fmt.Sprintf("embedding cache read failed: %v", err))
		}

		embedding, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}

		if err := c.Set(ctx, text, embedding); err != nil {
			c.log.Warn(fmt.Sprintf("embedding cache write failed: %v", err))
		}

		return embedding, nil
	}
}

// Close closes the Redis connection
func (c *EmbeddingCache) Close() error {
	return c.client.Close()
}
