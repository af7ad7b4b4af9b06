package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"foodgram/database"
	"foodgram/internal/api/models"
	"foodgram/internal/api/repository"
	"foodgram/internal/config"
)

// ingredientRow matches one entry of the catalog JSON file.
type ingredientRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// defaultTags is the fixed tag catalog seeded alongside the ingredients.
var defaultTags = []models.Tag{
	{Name: "Завтрак", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Обед", Color: "#49B64E", Slug: "lunch"},
	{Name: "Ужин", Color: "#8775D2", Slug: "dinner"},
}

func main() {
	log.Println("Starting catalog import...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v\nMake sure PostgreSQL is running: docker compose up -d db", err)
	}
	log.Println("✓ Successfully connected to database")

	// Read JSON file, path can be overridden via argv
	jsonFile := "./data/ingredients.json"
	if len(os.Args) > 1 {
		jsonFile = os.Args[1]
	}

	log.Printf("Reading ingredients from %s...", jsonFile)
	rows, err := readIngredientsFile(jsonFile)
	if err != nil {
		log.Fatalf("Failed to read JSON file: %v", err)
	}
	log.Printf("✓ Loaded %d ingredients from JSON", len(rows))

	ctx := context.Background()

	// Import tags
	log.Println("=== Importing Tags ===")
	tagRepo := repository.NewTagRepository(db)
	if err := tagRepo.BulkCreate(ctx, defaultTags); err != nil {
		log.Fatalf("Failed to import tags: %v", err)
	}
	log.Printf("✓ Successfully imported %d tags", len(defaultTags))

	// Import ingredients
	log.Println("=== Importing Ingredients ===")
	ingredients := make([]models.Ingredient, 0, len(rows))
	for _, row := range rows {
		ingredients = append(ingredients, models.Ingredient{
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
		})
	}
	ingredientRepo := repository.NewIngredientRepository(db)
	if err := ingredientRepo.BulkCreate(ctx, ingredients); err != nil {
		log.Fatalf("Failed to import ingredients: %v", err)
	}
	log.Printf("✓ Successfully imported %d ingredients", len(ingredients))

	log.Println("Catalog import complete ✅")
}

func readIngredientsFile(path string) ([]ingredientRow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []ingredientRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
