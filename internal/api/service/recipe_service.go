package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/internal/api/dto"
	"foodgram/internal/api/models"
	"foodgram/internal/api/repository"

	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrNotRecipeAuthor    = errors.New("only the author can modify this recipe")
	ErrWriteConflict      = errors.New("recipe write conflicted with a concurrent change")
)

// ValidationError is a field-scoped payload failure, user-correctable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ImageSaver stores an embedded base64 image and returns its stored path.
type ImageSaver interface {
	SaveDataURI(dataURI string) (string, error)
}

type RecipeService interface {
	Create(ctx context.Context, authorID string, req dto.RecipeWriteDTO) (*dto.RecipeResponse, error)
	Update(ctx context.Context, recipeID int64, actorID string, req dto.RecipeWriteDTO) (*dto.RecipeResponse, error)
	Get(ctx context.Context, recipeID int64, requesterID string) (*dto.RecipeResponse, error)
	List(ctx context.Context, filters dto.RecipeFilters, requesterID string) (*dto.RecipeListResponse, error)
	Delete(ctx context.Context, recipeID int64, actorID string) error
}

type recipeService struct {
	recipeRepo     repository.RecipeRepository
	ingredientRepo repository.IngredientRepository
	tagRepo        repository.TagRepository
	favoriteRepo   repository.FavoriteRepository
	cartRepo       repository.ShoppingCartRepository
	followRepo     repository.FollowRepository
	images         ImageSaver
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	ingredientRepo repository.IngredientRepository,
	tagRepo repository.TagRepository,
	favoriteRepo repository.FavoriteRepository,
	cartRepo repository.ShoppingCartRepository,
	followRepo repository.FollowRepository,
	images ImageSaver,
) RecipeService {
	return &recipeService{
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		tagRepo:        tagRepo,
		favoriteRepo:   favoriteRepo,
		cartRepo:       cartRepo,
		followRepo:     followRepo,
		images:         images,
	}
}

func (s *recipeService) Create(ctx context.Context, authorID string, req dto.RecipeWriteDTO) (*dto.RecipeResponse, error) {
	lines, tagIDs, err := s.validateWritePayload(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.Image == "" {
		return nil, &ValidationError{Field: "image", Message: "image is required"}
	}
	imagePath, err := s.images.SaveDataURI(req.Image)
	if err != nil {
		return nil, &ValidationError{Field: "image", Message: err.Error()}
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       imagePath,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	if err := s.recipeRepo.Create(ctx, recipe, lines, tagIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrWriteConflict
		}
		return nil, err
	}

	return s.Get(ctx, recipe.ID, authorID)
}

func (s *recipeService) Update(ctx context.Context, recipeID int64, actorID string, req dto.RecipeWriteDTO) (*dto.RecipeResponse, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != actorID {
		return nil, ErrNotRecipeAuthor
	}

	lines, tagIDs, err := s.validateWritePayload(ctx, req)
	if err != nil {
		return nil, err
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	// image is optional on update, the stored one is kept when absent
	if req.Image != "" {
		imagePath, err := s.images.SaveDataURI(req.Image)
		if err != nil {
			return nil, &ValidationError{Field: "image", Message: err.Error()}
		}
		recipe.Image = imagePath
	}
	// associations are replaced wholesale by the repository
	recipe.Tags = nil
	recipe.Ingredients = nil

	if err := s.recipeRepo.Update(ctx, recipe, lines, tagIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrWriteConflict
		}
		return nil, err
	}

	return s.Get(ctx, recipe.ID, actorID)
}

func (s *recipeService) Get(ctx context.Context, recipeID int64, requesterID string) (*dto.RecipeResponse, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	resp, err := s.project(ctx, recipe, requesterID)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *recipeService) List(ctx context.Context, filters dto.RecipeFilters, requesterID string) (*dto.RecipeListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.Limit < 1 || filters.Limit > 100 {
		filters.Limit = 20
	}

	recipes, total, err := s.recipeRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	items := make([]dto.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := s.project(ctx, &recipes[i], requesterID)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}

	return &dto.RecipeListResponse{
		Items: items,
		Total: total,
		Page:  filters.Page,
		Limit: filters.Limit,
	}, nil
}

func (s *recipeService) Delete(ctx context.Context, recipeID int64, actorID string) error {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID != actorID {
		return ErrNotRecipeAuthor
	}
	return s.recipeRepo.Delete(ctx, recipeID)
}

// validateWritePayload enforces the structural invariants of a recipe write
// payload before anything touches the database. Pure check, no side effects.
func (s *recipeService) validateWritePayload(ctx context.Context, req dto.RecipeWriteDTO) ([]models.RecipeIngredient, []int64, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, nil, &ValidationError{Field: "text", Message: "text is required"}
	}
	if req.CookingTime < 1 {
		return nil, nil, &ValidationError{Field: "cooking_time", Message: "cooking time must be at least 1 minute"}
	}
	if len(req.Ingredients) == 0 {
		return nil, nil, &ValidationError{Field: "ingredients", Message: "at least one ingredient is required"}
	}
	if len(req.Tags) == 0 {
		return nil, nil, &ValidationError{Field: "tags", Message: "at least one tag is required"}
	}

	seenIngredients := make(map[int64]bool, len(req.Ingredients))
	ingredientIDs := make([]int64, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		if seenIngredients[line.ID] {
			return nil, nil, &ValidationError{
				Field:   "ingredients",
				Message: fmt.Sprintf("ingredient %d is listed more than once", line.ID),
			}
		}
		seenIngredients[line.ID] = true
		if line.Amount < 1 {
			return nil, nil, &ValidationError{
				Field:   "amount",
				Message: fmt.Sprintf("amount for ingredient %d must be at least 1", line.ID),
			}
		}
		ingredientIDs = append(ingredientIDs, line.ID)
	}

	// explicit existence check: a missing reference is NotFound here, not a
	// foreign key failure aborting the transaction later
	existingIngredients, err := s.ingredientRepo.ExistingIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range ingredientIDs {
		if !existingIngredients[id] {
			return nil, nil, fmt.Errorf("%w: id %d", ErrIngredientNotFound, id)
		}
	}

	seenTags := make(map[int64]bool, len(req.Tags))
	for _, id := range req.Tags {
		if seenTags[id] {
			return nil, nil, &ValidationError{
				Field:   "tags",
				Message: fmt.Sprintf("tag %d is listed more than once", id),
			}
		}
		seenTags[id] = true
	}
	existingTags, err := s.tagRepo.ExistingIDs(ctx, req.Tags)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range req.Tags {
		if !existingTags[id] {
			return nil, nil, fmt.Errorf("%w: id %d", ErrTagNotFound, id)
		}
	}

	lines := make([]models.RecipeIngredient, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		lines = append(lines, models.RecipeIngredient{
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	return lines, req.Tags, nil
}

// project rebuilds the denormalized read view of a recipe aggregate. The
// three requester-relative flags are plain existence checks, always false
// for an anonymous requester.
func (s *recipeService) project(ctx context.Context, recipe *models.Recipe, requesterID string) (*dto.RecipeResponse, error) {
	isFavorited := false
	isInCart := false
	isSubscribed := false
	if requesterID != "" {
		var err error
		if isFavorited, err = s.favoriteRepo.Exists(ctx, requesterID, recipe.ID); err != nil {
			return nil, err
		}
		if isInCart, err = s.cartRepo.Exists(ctx, requesterID, recipe.ID); err != nil {
			return nil, err
		}
		if isSubscribed, err = s.followRepo.Exists(ctx, requesterID, recipe.AuthorID); err != nil {
			return nil, err
		}
	}

	var author dto.UserResponse
	if recipe.Author != nil {
		author = dto.UserFromModel(*recipe.Author, isSubscribed)
	}

	ingredients := make([]dto.RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		item := dto.RecipeIngredientResponse{
			ID:     line.IngredientID,
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	return &dto.RecipeResponse{
		ID:               recipe.ID,
		Tags:             dto.TagsFromModels(recipe.Tags),
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		CreatedAt:        recipe.CreatedAt,
	}, nil
}
