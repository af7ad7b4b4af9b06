package repository

import (
	"context"
	"fmt"

	"foodgram/internal/api/models"

	"gorm.io/gorm"
)

type TagRepository interface {
	GetAll(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	BulkCreate(ctx context.Context, tags []models.Tag) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	var t models.Tag
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ExistingIDs reports which of the given tag ids are present, so the
// validator can name the missing ones.
func (r *tagRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	if len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	var found []int64
	if err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, fmt.Errorf("check tag ids: %w", err)
	}
	existing := make(map[int64]bool, len(found))
	for _, id := range found {
		existing[id] = true
	}
	return existing, nil
}

// BulkCreate inserts catalog tags, used by the seeding loader.
func (r *tagRepository) BulkCreate(ctx context.Context, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&tags).Error; err != nil {
		return fmt.Errorf("bulk create tags: %w", translateUniqueViolation(err))
	}
	return nil
}
