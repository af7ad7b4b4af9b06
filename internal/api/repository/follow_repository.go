package repository

import (
	"context"
	"fmt"

	"foodgram/internal/api/models"

	"gorm.io/gorm"
)

type FollowRepository interface {
	Add(ctx context.Context, userID, authorID string) error
	Remove(ctx context.Context, userID, authorID string) (bool, error)
	Exists(ctx context.Context, userID, authorID string) (bool, error)
	ListAuthors(ctx context.Context, userID string) ([]models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Add(ctx context.Context, userID, authorID string) error {
	follow := &models.Follow{
		UserID:   userID,
		AuthorID: authorID,
	}
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		return fmt.Errorf("subscribe: %w", translateUniqueViolation(err))
	}
	return nil
}

// Remove reports whether a subscription was actually deleted.
func (r *followRepository) Remove(ctx context.Context, userID, authorID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, fmt.Errorf("unsubscribe: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAuthors returns the authors the user is subscribed to, newest
// subscription first.
func (r *followRepository) ListAuthors(ctx context.Context, userID string) ([]models.User, error) {
	var authors []models.User
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("follows.added_at desc").
		Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return authors, nil
}
