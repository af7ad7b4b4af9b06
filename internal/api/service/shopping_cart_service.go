package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodgram/internal/api/dto"
	"foodgram/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrAlreadyInCart = errors.New("recipe already in shopping cart")
	ErrNotInCart     = errors.New("recipe not in shopping cart")
)

// ShoppingList is a rendered shopping list report ready for download.
type ShoppingList struct {
	Filename string
	Content  string
}

type ShoppingCartService interface {
	Add(ctx context.Context, userID string, recipeID int64) (*dto.RecipeShortResponse, error)
	Remove(ctx context.Context, userID string, recipeID int64) error
	BuildShoppingList(ctx context.Context, userID string) (*ShoppingList, error)
}

type shoppingCartService struct {
	repo       repository.ShoppingCartRepository
	recipeRepo repository.RecipeRepository
	userRepo   repository.UserRepository

	now func() time.Time // swapped in tests for a fixed date
}

func NewShoppingCartService(
	repo repository.ShoppingCartRepository,
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
) ShoppingCartService {
	return &shoppingCartService{
		repo:       repo,
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

func (s *shoppingCartService) Add(ctx context.Context, userID string, recipeID int64) (*dto.RecipeShortResponse, error) {
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
		return nil, ErrAlreadyInCart
	}

	if err := s.repo.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyInCart
		}
		return nil, err
	}

	short := dto.RecipeShortFromModel(*recipe)
	return &short, nil
}

func (s *shoppingCartService) Remove(ctx context.Context, userID string, recipeID int64) error {
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
		return ErrNotInCart
	}
	return nil
}

// BuildShoppingList aggregates the ingredients of every recipe in the
// user's cart and renders the plain-text report. Read-only, no persistence
// side effects.
func (s *shoppingCartService) BuildShoppingList(ctx context.Context, userID string) (*ShoppingList, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	items, err := s.repo.AggregateIngredients(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	var b strings.Builder
	fmt.Fprintf(&b, "Список покупок: %s\n\n", user.FullName())
	fmt.Fprintf(&b, "Дата: %s\n\n", today.Format("2006-01-02"))
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (%s) - %d", item.Name, item.MeasurementUnit, item.Total))
	}
	b.WriteString(strings.Join(lines, "\n"))
	fmt.Fprintf(&b, "\n\nFoodgram (%d)", today.Year())

	return &ShoppingList{
		Filename: fmt.Sprintf("%s_shopping_list.txt", user.Username),
		Content:  b.String(),
	}, nil
}
