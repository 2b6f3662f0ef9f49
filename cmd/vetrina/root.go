package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aliprando/vetrina"
	"github.com/aliprando/vetrina/core/cache"
	"github.com/aliprando/vetrina/core/pipeline"
	"github.com/aliprando/vetrina/helper"
	"github.com/aliprando/vetrina/model"
)

var (
	envFile          string
	embeddingDim     int
	searchConfigPath string
)

var rootCmd = &cobra.Command{
	Use:   "vetrina",
	Short: "Product catalog ingestion and semantic search",
	Long: `Vetrina ingests a product catalog feed into Postgres with pgvector
embeddings and answers structured product searches over it.

Example usage:
  vetrina ingest feed.json              # Ingest a catalog feed
  vetrina query -q "telefono economico" # Search the catalog`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "env file with database and provider settings (default is the process environment)")
	rootCmd.PersistentFlags().IntVar(&embeddingDim, "dim", 384, "embedding dimension of the catalog")
	rootCmd.PersistentFlags().StringVar(&searchConfigPath, "search-config", "", "YAML file overriding the search configuration")
}

// newVetrina builds a Vetrina from the environment. The embedder, cache and
// reranker are optional and attach only when their settings are present.
func newVetrina() (*vetrina.Vetrina, error) {
	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}

	v, err := vetrina.NewVetrina(dbConfig, embeddingDim)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}

	if baseURL := os.Getenv("EMBEDDING_BASE_URL"); baseURL != "" {
		embedder, err := pipeline.RemoteEmbedder(pipeline.RemoteEmbedderConfig{
			APIKey:    os.Getenv("EMBEDDING_API_KEY"),
			Model:     os.Getenv("EMBEDDING_MODEL"),
			BaseURL:   baseURL,
			Dimension: embeddingDim,
		})
		if err != nil {
			v.Close()
			return nil, fmt.Errorf("failed to create remote embedder: %w", err)
		}
		v.SetPipeline(pipeline.NewPipeline(embedder))
	} else {
		if err := v.UseDefaultPipeline(); err != nil {
			v.Close()
			return nil, fmt.Errorf("failed to create default embedder: %w", err)
		}
	}

	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		embeddingCache, err := cache.NewEmbeddingCache(cache.Config{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
			TTL:      24 * time.Hour,
		}, v.DB.Logger)
		if err != nil {
			v.Close()
			return nil, fmt.Errorf("failed to connect embedding cache: %w", err)
		}
		v.SetEmbeddingCache(embeddingCache)
	}

	if cohereKey := os.Getenv("COHERE_API_KEY"); cohereKey != "" {
		reranker, err := pipeline.RemoteReranker(pipeline.RemoteRerankerConfig{
			APIKey: cohereKey,
			Model:  os.Getenv("COHERE_RERANK_MODEL"),
		})
		if err != nil {
			v.Close()
			return nil, fmt.Errorf("failed to create reranker: %w", err)
		}
		if err := v.SetReranker(reranker); err != nil {
			v.Close()
			return nil, err
		}
	}

	return v, nil
}

// loadSearchConfig resolves the search configuration for a command
func loadSearchConfig() (*model.SearchConfig, error) {
	if searchConfigPath == "" {
		config := model.DefaultSearchConfig()
		return &config, nil
	}
	return model.LoadSearchConfig(searchConfigPath)
}
