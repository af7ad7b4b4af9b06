package service

import (
	"context"
	"testing"

	"foodgram/internal/api/cache"
	"foodgram/internal/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestTagList_CacheMissFallsThrough(t *testing.T) {
	repo := new(MockTagRepository)
	svc := NewTagService(repo, cache.NewNoopCatalogCache())

	expected := []models.Tag{
		{ID: 1, Name: "Breakfast", Slug: "breakfast"},
		{ID: 2, Name: "Dinner", Slug: "dinner"},
	}
	repo.On("GetAll", mock.Anything).Return(expected, nil)

	tags, err := svc.List(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expected, tags)
	repo.AssertExpectations(t)
}

func TestTagGet_NotFound(t *testing.T) {
	repo := new(MockTagRepository)
	svc := NewTagService(repo, cache.NewNoopCatalogCache())

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 99)

	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestIngredientList_PrefixPassedThrough(t *testing.T) {
	repo := new(MockIngredientRepository)
	svc := NewIngredientService(repo, cache.NewNoopCatalogCache())

	expected := []models.Ingredient{
		{ID: 1, Name: "salt", MeasurementUnit: "g"},
	}
	repo.On("List", mock.Anything, "sa").Return(expected, nil)

	ingredients, err := svc.List(context.Background(), "sa")

	assert.NoError(t, err)
	assert.Equal(t, expected, ingredients)
	repo.AssertExpectations(t)
}

func TestIngredientGet_NotFound(t *testing.T) {
	repo := new(MockIngredientRepository)
	svc := NewIngredientService(repo, cache.NewNoopCatalogCache())

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 99)

	assert.ErrorIs(t, err, ErrIngredientNotFound)
}
