package repository

import (
	"context"
	"fmt"

	"foodgram/internal/api/models"

	"gorm.io/gorm"
)

type IngredientRepository interface {
	List(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	BulkCreate(ctx context.Context, ingredients []models.Ingredient) error
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

// List returns catalog ingredients, optionally narrowed by a
// case-insensitive name prefix (the ?name= search filter).
func (r *ingredientRepository) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	var list []models.Ingredient
	db := r.db.WithContext(ctx)
	if namePrefix != "" {
		db = db.Where("name ILIKE ?", namePrefix+"%")
	}
	if err := db.Order("name").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return list, nil
}

func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	var i models.Ingredient
	if err := r.db.WithContext(ctx).First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

// ExistingIDs reports which of the given ingredient ids are present.
func (r *ingredientRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	if len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	var found []int64
	if err := r.db.WithContext(ctx).
		Model(&models.Ingredient{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("check ingredient ids: %w", err)
	}
	existing := make(map[int64]bool, len(found))
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

// BulkCreate inserts catalog ingredients, used by the seeding loader.
func (r *ingredientRepository) BulkCreate(ctx context.Context, ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	// batches keep the statement size sane for large catalogs
	if err := r.db.WithContext(ctx).CreateInBatches(&ingredients, 500).Error; err != nil {
		return fmt.Errorf("bulk create ingredients: %w", translateUniqueViolation(err))
	}
	return nil
}
