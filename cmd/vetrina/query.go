package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aliprando/vetrina/model"
)

var (
	queryText     string
	queryProduct  string
	queryCategory string
	queryMinPrice float64
	queryMaxPrice float64
	querySpecs    bool
	queryJSON     bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search the product catalog",
	Long: `Query runs a structured product search against the ingested catalog.

Examples:
  vetrina query -q "telefono con buona fotocamera"
  vetrina query -q "portatile per gaming" --category Computer --max-price 1500
  vetrina query -q "cuffie" --specs --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().StringVar(&queryProduct, "product", "", "specific product name the user mentioned")
	queryCmd.Flags().StringVar(&queryCategory, "category", "", "category filter")
	queryCmd.Flags().Float64Var(&queryMinPrice, "min-price", 0, "minimum price")
	queryCmd.Flags().Float64Var(&queryMaxPrice, "max-price", 0, "maximum price (default from the search configuration)")
	queryCmd.Flags().BoolVar(&querySpecs, "specs", false, "include technical specifications in the results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	config, err := loadSearchConfig()
	if err != nil {
		return err
	}

	v, err := newVetrina()
	if err != nil {
		return err
	}
	defer v.Close()

	query := &model.SearchQuery{
		Query:                         queryText,
		ProductName:                   queryProduct,
		MinPrice:                      queryMinPrice,
		Category:                      model.Category(queryCategory),
		TechnicalSpecificationsNeeded: querySpecs,
	}
	if cmd.Flags().Changed("max-price") {
		query.MaxPrice = &queryMaxPrice
	}

	outcome, err := v.Search(cmd.Context(), query, config)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode outcome: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if outcome.Empty() {
		fmt.Println("No products found.")
		return nil
	}

	if outcome.Relaxed {
		fmt.Println("No exact matches, showing close alternatives:")
		fmt.Println()
	}

	for i, p := range outcome.Products {
		fmt.Printf("--- [%d] %s (%.2f €) ---\n", i+1, p.Title, p.Price)
		fmt.Printf("%s\n", p.MarketingText)
		if p.ProductSpecification != "" {
			fmt.Printf("Specifications: %s\n", p.ProductSpecification)
		}
		fmt.Printf("%s\n\n", p.Link)
	}

	return nil
}
