package service

import (
	"context"
	"errors"

	"foodgram/internal/api/dto"
	"foodgram/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrAlreadyFavorited = errors.New("recipe already in favorites")
	ErrNotFavorited     = errors.New("recipe not in favorites")
)

type FavoriteService interface {
	Add(ctx context.Context, userID string, recipeID int64) (*dto.RecipeShortResponse, error)
	Remove(ctx context.Context, userID string, recipeID int64) error
}

type favoriteService struct {
	repo       repository.FavoriteRepository
	recipeRepo repository.RecipeRepository
}

func NewFavoriteService(repo repository.FavoriteRepository, recipeRepo repository.RecipeRepository) FavoriteService {
	return &favoriteService{
		repo:       repo,
		recipeRepo: recipeRepo,
	}
}

func (s *favoriteService) Add(ctx context.Context, userID string, recipeID int64) (*dto.RecipeShortResponse, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFavorited
	}

	if err := s.repo.Add(ctx, userID, recipeID); err != nil {
		// a concurrent add between the check and the insert lands here
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyFavorited
		}
		return nil, err
	}

	short := dto.RecipeShortFromModel(*recipe)
	return &short, nil
}

func (s *favoriteService) Remove(ctx context.Context, userID string, recipeID int64) error {
	if _, err := s.recipeRepo.GetByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}

	removed, err := s.repo.Remove(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFavorited
	}
	return nil
}
