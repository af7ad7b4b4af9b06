package service

import (
	"context"
	"errors"

	"foodgram/internal/api/dto"
	"foodgram/internal/api/models"
	"foodgram/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrSelfSubscribe     = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed to this author")
	ErrNotSubscribed     = errors.New("not subscribed to this author")
)

type FollowService interface {
	Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (*dto.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, userID, authorID string) error
	Subscriptions(ctx context.Context, userID string, recipesLimit int) (*dto.SubscriptionListResponse, error)
}

type followService struct {
	repo       repository.FollowRepository
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
}

func NewFollowService(
	repo repository.FollowRepository,
	userRepo repository.UserRepository,
	recipeRepo repository.RecipeRepository,
) FollowService {
	return &followService{
		repo:       repo,
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
	}
}

func (s *followService) Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (*dto.SubscriptionResponse, error) {
	if userID == authorID {
		return nil, ErrSelfSubscribe
	}

	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}

	if err := s.repo.Add(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	return s.buildSubscription(ctx, author, recipesLimit)
}

func (s *followService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	if _, err := s.userRepo.FindByID(ctx, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	removed, err := s.repo.Remove(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotSubscribed
	}
	return nil
}

func (s *followService) Subscriptions(ctx context.Context, userID string, recipesLimit int) (*dto.SubscriptionListResponse, error) {
	authors, err := s.repo.ListAuthors(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		sub, err := s.buildSubscription(ctx, &authors[i], recipesLimit)
		if err != nil {
			return nil, err
		}
		items = append(items, *sub)
	}

	return &dto.SubscriptionListResponse{
		Items: items,
		Total: len(items),
	}, nil
}

// buildSubscription composes the author view with recipe count and short
// recipe views. The subscription listing only ever shows subscribed
// authors, so is_subscribed is true by construction.
func (s *followService) buildSubscription(ctx context.Context, author *models.User, recipesLimit int) (*dto.SubscriptionResponse, error) {
	count, err := s.recipeRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipeRepo.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}

	shorts := make([]dto.RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		shorts = append(shorts, dto.RecipeShortFromModel(r))
	}

	return &dto.SubscriptionResponse{
		UserResponse: dto.UserFromModel(*author, true),
		Recipes:      shorts,
		RecipesCount: count,
	}, nil
}
