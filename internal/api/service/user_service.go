package service

import (
	"context"
	"errors"

	"foodgram/internal/api/dto"
	"foodgram/internal/api/repository"

	"gorm.io/gorm"
)

type UserService interface {
	Get(ctx context.Context, userID, requesterID string) (*dto.UserResponse, error)
}

type userService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) UserService {
	return &userService{userRepo: userRepo, followRepo: followRepo}
}

// Get returns a user profile with the subscription flag relative to the requester.
// An empty requesterID means an anonymous request and always yields is_subscribed=false.
func (s *userService) Get(ctx context.Context, userID, requesterID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	isSubscribed := false
	if requesterID != "" && requesterID != userID {
		isSubscribed, err = s.followRepo.Exists(ctx, requesterID, userID)
		if err != nil {
			return nil, err
		}
	}

	resp := dto.UserFromModel(*user, isSubscribed)
	return &resp, nil
}
