package service

import (
	"context"
	"testing"
	"time"

	"foodgram/internal/api/dto"
	"foodgram/internal/api/models"
	"foodgram/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newCartService(now func() time.Time) (*shoppingCartService, *MockShoppingCartRepository, *MockRecipeRepository, *MockUserRepository) {
	cartRepo := new(MockShoppingCartRepository)
	recipeRepo := new(MockRecipeRepository)
	userRepo := new(MockUserRepository)
	svc := &shoppingCartService{
		repo:       cartRepo,
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		now:        now,
	}
	return svc, cartRepo, recipeRepo, userRepo
}

func TestCartAdd_Success(t *testing.T) {
	svc, cartRepo, recipeRepo, _ := newCartService(time.Now)

	recipeRepo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Recipe{ID: 7, Name: "Soup", Image: "img.png", CookingTime: 30}, nil)
	cartRepo.On("Exists", mock.Anything, "user-1", int64(7)).Return(false, nil)
	cartRepo.On("Add", mock.Anything, "user-1", int64(7)).Return(nil)

	short, err := svc.Add(context.Background(), "user-1", 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), short.ID)
	assert.Equal(t, "Soup", short.Name)
	cartRepo.AssertExpectations(t)
}

func TestCartAdd_AlreadyInCart(t *testing.T) {
	svc, cartRepo, recipeRepo, _ := newCartService(time.Now)

	recipeRepo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Recipe{ID: 7}, nil)
	cartRepo.On("Exists", mock.Anything, "user-1", int64(7)).Return(true, nil)

	_, err := svc.Add(context.Background(), "user-1", 7)

	assert.ErrorIs(t, err, ErrAlreadyInCart)
	cartRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartAdd_DuplicateRace(t *testing.T) {
	svc, cartRepo, recipeRepo, _ := newCartService(time.Now)

	recipeRepo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Recipe{ID: 7}, nil)
	cartRepo.On("Exists", mock.Anything, "user-1", int64(7)).Return(false, nil)
	// the unique constraint fires when two adds race past the exists check
	cartRepo.On("Add", mock.Anything, "user-1", int64(7)).Return(repository.ErrDuplicate)

	_, err := svc.Add(context.Background(), "user-1", 7)

	assert.ErrorIs(t, err, ErrAlreadyInCart)
}

func TestCartAdd_RecipeNotFound(t *testing.T) {
	svc, _, recipeRepo, _ := newCartService(time.Now)

	recipeRepo.On("GetByID", mock.Anything, int64(404)).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Add(context.Background(), "user-1", 404)

	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestCartRemove_NotInCart(t *testing.T) {
	svc, cartRepo, recipeRepo, _ := newCartService(time.Now)

	recipeRepo.On("GetByID", mock.Anything, int64(7)).
		Return(&models.Recipe{ID: 7}, nil)
	cartRepo.On("Remove", mock.Anything, "user-1", int64(7)).Return(false, nil)

	err := svc.Remove(context.Background(), "user-1", 7)

	assert.ErrorIs(t, err, ErrNotInCart)
}

func TestBuildShoppingList_Render(t *testing.T) {
	fixed := func() time.Time {
		return time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	}
	svc, cartRepo, _, userRepo := newCartService(fixed)

	userRepo.On("FindByID", mock.Anything, "user-1").Return(&models.User{
		ID:        "user-1",
		Username:  "anna",
		FirstName: "Anna",
		LastName:  "Smith",
	}, nil)
	// already summed across recipes: 100g + 50g of sugar collapses to 150
	cartRepo.On("AggregateIngredients", mock.Anything, "user-1").
		Return([]dto.ShoppingListItem{
			{Name: "flour", MeasurementUnit: "g", Total: 200},
			{Name: "sugar", MeasurementUnit: "g", Total: 150},
		}, nil)

	list, err := svc.BuildShoppingList(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Equal(t, "anna_shopping_list.txt", list.Filename)
	expected := "Список покупок: Anna Smith\n\n" +
		"Дата: 2026-03-14\n\n" +
		"- flour (g) - 200\n" +
		"- sugar (g) - 150\n\n" +
		"Foodgram (2026)"
	assert.Equal(t, expected, list.Content)
}

func TestBuildShoppingList_EmptyCart(t *testing.T) {
	fixed := func() time.Time {
		return time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	}
	svc, cartRepo, _, userRepo := newCartService(fixed)

	userRepo.On("FindByID", mock.Anything, "user-1").Return(&models.User{
		ID:       "user-1",
		Username: "anna",
	}, nil)
	cartRepo.On("AggregateIngredients", mock.Anything, "user-1").
		Return([]dto.ShoppingListItem{}, nil)

	list, err := svc.BuildShoppingList(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Contains(t, list.Content, "Список покупок: anna")
	assert.Contains(t, list.Content, "Foodgram (2026)")
}

func TestBuildShoppingList_SumsSharedIngredientAcrossRecipes(t *testing.T) {
	store := newFakeRecipeStore()
	store.catalog[1] = models.Ingredient{ID: 1, Name: "flour", MeasurementUnit: "g"}
	store.catalog[2] = models.Ingredient{ID: 2, Name: "sugar", MeasurementUnit: "g"}

	recipeRepo := &fakeRecipeRepository{store: store}
	ctx := context.Background()

	pancakes := &models.Recipe{AuthorID: "author-1", Name: "Pancakes", Text: "Flip them.", CookingTime: 20}
	assert.NoError(t, recipeRepo.Create(ctx, pancakes, []models.RecipeIngredient{
		{IngredientID: 1, Amount: 100},
		{IngredientID: 2, Amount: 30},
	}, nil))

	bread := &models.Recipe{AuthorID: "author-1", Name: "Bread", Text: "Bake it.", CookingTime: 60}
	assert.NoError(t, recipeRepo.Create(ctx, bread, []models.RecipeIngredient{
		{IngredientID: 1, Amount: 50},
	}, nil))

	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", mock.Anything, "user-1").Return(&models.User{
		ID:        "user-1",
		Username:  "anna",
		FirstName: "Anna",
		LastName:  "Smith",
	}, nil)

	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := &shoppingCartService{
		repo:       &fakeCartRepository{store: store},
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		now:        func() time.Time { return fixed },
	}

	_, err := svc.Add(ctx, "user-1", pancakes.ID)
	assert.NoError(t, err)
	_, err = svc.Add(ctx, "user-1", bread.ID)
	assert.NoError(t, err)

	list, err := svc.BuildShoppingList(ctx, "user-1")
	assert.NoError(t, err)

	// flour appears once with the 100+50 sum, ordered by name
	assert.Equal(t,
		"Список покупок: Anna Smith\n\nДата: 2026-03-14\n\n- flour (g) - 150\n- sugar (g) - 30\n\nFoodgram (2026)",
		list.Content)
}

func TestBuildShoppingList_UserNotFound(t *testing.T) {
	svc, _, _, userRepo := newCartService(time.Now)

	userRepo.On("FindByID", mock.Anything, "ghost").
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.BuildShoppingList(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrUserNotFound)
}
