package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aliprando/vetrina"
	"github.com/aliprando/vetrina/helper"
	"github.com/aliprando/vetrina/model"
)

func sampleCatalog() []*model.Product {
	return []*model.Product{
		{
			ID:                1001,
			Title:             "Smartphone Andromeda X 128GB",
			Brand:             "Stellar",
			Price:             499,
			Category:          "Telefonia",
			Description:       "Smartphone con display OLED da 6,1 pollici e doppia fotocamera.",
			Link:              "https://www.mediaworld.it/it/product/_smartphone-andromeda-x-100001.html",
			ImageLink:         "https://assets.mmsrg.com/isr/166325/c1/-/ASSET_MMS_100001/fee_786_587_png",
			MarketingText:     "Foto nitide anche di notte grazie alla modalità notturna avanzata.",
			TotalAvailability: 12,
		},
		{
			ID:                   1002,
			Title:                "Notebook Orion 15 i7 16GB",
			Brand:                "Vega",
			Price:                1099,
			Category:             "Computer",
			Description:          "Notebook da 15,6 pollici con processore i7 e 16GB di RAM.",
			Link:                 "https://www.mediaworld.it/it/product/_notebook-orion-15-100002.html",
			ImageLink:            "https://assets.mmsrg.com/isr/166325/c1/-/ASSET_MMS_100002/fee_786_587_png",
			MarketingText:        "Potenza da workstation in un corpo sottile e leggero.",
			ProductSpecification: "CPU: i7-13700H; RAM: 16GB; SSD: 512GB",
			TotalAvailability:    4,
		},
		{
			ID:                1003,
			Title:             "Cuffie Nebula ANC",
			Brand:             "Stellar",
			Price:             249,
			Category:          "Audio, Cuffie e Navigatori",
			Description:       "Cuffie over-ear wireless con cancellazione attiva del rumore.",
			Link:              "https://www.mediaworld.it/it/product/_cuffie-nebula-anc-100003.html",
			ImageLink:         "https://assets.mmsrg.com/isr/166325/c1/-/ASSET_MMS_100003/fee_786_587_png",
			MarketingText:     "Silenzio totale e 40 ore di autonomia per la tua musica.",
			TotalAvailability: 25,
		},
	}
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	v, err := vetrina.NewVetrina(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create vetrina: %v", err)
	}
	defer v.Close()

	// Set up the default embedding pipeline
	if err := v.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	// Ingest the sample catalog
	fmt.Println("Ingesting catalog...")
	count, err := v.IngestProducts(context.Background(), sampleCatalog(), nil)
	if err != nil {
		log.Fatalf("Failed to ingest catalog: %v", err)
	}
	fmt.Printf("Ingested %d products\n", count)

	// Run a structured search
	query := &model.SearchQuery{
		Query:    "cuffie wireless con cancellazione del rumore",
		Category: "Audio, Cuffie e Navigatori",
	}
	config := model.DefaultSearchConfig()

	fmt.Printf("\nQuerying: %s\n", query.Query)

	outcome, err := v.Search(context.Background(), query, &config)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}

	if outcome.Empty() {
		fmt.Println("\nNo products found.")
		return
	}

	if outcome.Relaxed {
		fmt.Println("\nNo exact matches, showing close alternatives:")
	}

	fmt.Printf("\nFound %d products:\n", len(outcome.Products))
	for i, p := range outcome.Products {
		fmt.Printf("\n--- Product %d ---\n", i+1)
		fmt.Printf("Title: %s\n", p.Title)
		fmt.Printf("Price: %.2f €\n", p.Price)
		fmt.Printf("Marketing: %s\n", p.MarketingText)
		fmt.Printf("Link: %s\n", p.Link)
	}

	fmt.Println("\nBasic example completed successfully!")
}
