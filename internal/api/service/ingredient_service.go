package service

import (
	"context"
	"errors"

	"foodgram/internal/api/cache"
	"foodgram/internal/api/models"
	"foodgram/internal/api/repository"

	"gorm.io/gorm"
)

type IngredientService interface {
	List(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	Get(ctx context.Context, id int64) (*models.Ingredient, error)
}

type ingredientService struct {
	repo  repository.IngredientRepository
	cache *cache.CatalogCache
}

func NewIngredientService(repo repository.IngredientRepository, catalogCache *cache.CatalogCache) IngredientService {
	return &ingredientService{
		repo:  repo,
		cache: catalogCache,
	}
}

// List serves the ingredient catalog read-through from Redis, keyed by the
// name prefix filter.
func (s *ingredientService) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	if ingredients, ok := s.cache.GetIngredients(ctx, namePrefix); ok {
		return ingredients, nil
	}
	ingredients, err := s.repo.List(ctx, namePrefix)
	if err != nil {
		return nil, err
	}
	s.cache.SetIngredients(ctx, namePrefix, ingredients)
	return ingredients, nil
}

func (s *ingredientService) Get(ctx context.Context, id int64) (*models.Ingredient, error) {
	ingredient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return ingredient, nil
}
