package service

import (
	"context"
	"errors"

	"foodgram/internal/api/cache"
	"foodgram/internal/api/models"
	"foodgram/internal/api/repository"

	"gorm.io/gorm"
)

type TagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id int64) (*models.Tag, error)
}

type tagService struct {
	repo  repository.TagRepository
	cache *cache.CatalogCache
}

func NewTagService(repo repository.TagRepository, catalogCache *cache.CatalogCache) TagService {
	return &tagService{
		repo:  repo,
		cache: catalogCache,
	}
}

// List serves the tag catalog read-through from Redis. Tags are static
// reference data, so a TTL'd cache needs no invalidation hooks.
func (s *tagService) List(ctx context.Context) ([]models.Tag, error) {
	if tags, ok := s.cache.GetTags(ctx); ok {
		return tags, nil
	}
	tags, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetTags(ctx, tags)
	return tags, nil
}

func (s *tagService) Get(ctx context.Context, id int64) (*models.Tag, error) {
	tag, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}
