package repository

import (
	"context"
	"fmt"

	"foodgram/internal/api/dto"
	"foodgram/internal/api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient, tagIDs []int64) error
	Update(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient, tagIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	List(ctx context.Context, filters dto.RecipeFilters) ([]models.Recipe, int64, error)
	Delete(ctx context.Context, id int64) error
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Recipe, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Create persists the recipe, its ingredient lines and its tag links in one
// transaction. Either all three groups land or none do.
func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient, tagIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("create recipe ingredients: %w", err)
			}
		}
		if err := replaceTags(tx, recipe, tagIDs); err != nil {
			return err
		}
		return nil
	})
	return translateUniqueViolation(err)
}

// Update replaces the recipe's scalar fields and its full ingredient/tag
// sets. Old lines and links are deleted, new ones re-inserted, all inside
// one transaction so a partially updated aggregate is never observable.
func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient, tagIDs []int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return fmt.Errorf("update recipe: %w", err)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("clear recipe ingredients: %w", err)
		}
		for i := range lines {
			lines[i].ID = 0
			lines[i].RecipeID = recipe.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("recreate recipe ingredients: %w", err)
			}
		}
		if err := replaceTags(tx, recipe, tagIDs); err != nil {
			return err
		}
		return nil
	})
	return translateUniqueViolation(err)
}

func replaceTags(tx *gorm.DB, recipe *models.Recipe, tagIDs []int64) error {
	tags := make([]models.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tags = append(tags, models.Tag{ID: id})
	}
	if err := tx.Model(recipe).Association("Tags").Replace(&tags); err != nil {
		return fmt.Errorf("replace tags: %w", err)
	}
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, filters dto.RecipeFilters) ([]models.Recipe, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filters.TagSlugs) > 0 {
		db = db.Where("recipes.id IN (?)", r.db.
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filters.TagSlugs))
	}
	if filters.AuthorID != "" {
		db = db.Where("recipes.author_id = ?", filters.AuthorID)
	}
	if filters.FavoritedBy != "" {
		db = db.Where("recipes.id IN (?)", r.db.
			Table("favorites").
			Select("recipe_id").
			Where("user_id = ?", filters.FavoritedBy))
	}
	if filters.InCartOf != "" {
		db = db.Where("recipes.id IN (?)", r.db.
			Table("shopping_carts").
			Select("recipe_id").
			Where("user_id = ?", filters.InCartOf))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	offset := (filters.Page - 1) * filters.Limit
	var list []models.Recipe
	if err := db.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at desc").
		Limit(filters.Limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}

	return list, total, nil
}

func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("delete recipe ingredients: %w", err)
		}
		if err := tx.Select(clause.Associations).Delete(&models.Recipe{ID: id}).Error; err != nil {
			return fmt.Errorf("delete recipe: %w", err)
		}
		return nil
	})
}

func (r *recipeRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count recipes by author: %w", err)
	}
	return count, nil
}

// ListByAuthor returns the author's newest recipes, at most limit of them
// (limit <= 0 means all). Used by the subscriptions listing.
func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Recipe, error) {
	var list []models.Recipe
	db := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list recipes by author: %w", err)
	}
	return list, nil
}
