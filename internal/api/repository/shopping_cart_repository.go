package repository

import (
	"context"
	"fmt"

	"foodgram/internal/api/dto"
	"foodgram/internal/api/models"

	"gorm.io/gorm"
)

type ShoppingCartRepository interface {
	Add(ctx context.Context, userID string, recipeID int64) error
	Remove(ctx context.Context, userID string, recipeID int64) (bool, error)
	Exists(ctx context.Context, userID string, recipeID int64) (bool, error)
	AggregateIngredients(ctx context.Context, userID string) ([]dto.ShoppingListItem, error)
}

type shoppingCartRepository struct {
	db *gorm.DB
}

func NewShoppingCartRepository(db *gorm.DB) ShoppingCartRepository {
	return &shoppingCartRepository{db: db}
}

func (r *shoppingCartRepository) Add(ctx context.Context, userID string, recipeID int64) error {
	entry := &models.ShoppingCart{
		UserID:   userID,
		RecipeID: recipeID,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("add to shopping cart: %w", translateUniqueViolation(err))
	}
	return nil
}

// Remove reports whether a row was actually deleted.
func (r *shoppingCartRepository) Remove(ctx context.Context, userID string, recipeID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{})
	if result.Error != nil {
		return false, fmt.Errorf("remove from shopping cart: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *shoppingCartRepository) Exists(ctx context.Context, userID string, recipeID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AggregateIngredients joins the user's cart entries to their recipes'
// ingredient lines, groups by (name, unit) and sums the amounts. Ordered
// alphabetically so the rendered shopping list is deterministic.
func (r *shoppingCartRepository) AggregateIngredients(ctx context.Context, userID string) ([]dto.ShoppingListItem, error) {
	var items []dto.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("aggregate shopping cart: %w", err)
	}
	return items, nil
}
