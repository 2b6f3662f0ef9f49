package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/aliprando/vetrina/model"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <feed.json>",
	Short: "Ingest a product catalog feed",
	Long: `Ingest reads a JSON feed of products, embeds their descriptive text
and upserts them into the catalog. Re-running over the same feed overwrites
existing products by ID.

Examples:
  vetrina ingest feed.json
  vetrina ingest feed.json --dim 384`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read feed: %w", err)
	}

	var products []*model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}
	if len(products) == 0 {
		return fmt.Errorf("feed contains no products")
	}

	v, err := newVetrina()
	if err != nil {
		return err
	}
	defer v.Close()

	bar := progressbar.NewOptions(len(products),
		progressbar.OptionSetDescription("Ingesting products"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	count, err := v.IngestProducts(cmd.Context(), products, func(done int, total int) {
		_ = bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("ingestion aborted after %d products: %w", count, err)
	}

	fmt.Printf("Ingested %d products\n", count)
	return nil
}
