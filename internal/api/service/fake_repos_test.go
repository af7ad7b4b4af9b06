package service

import (
	"context"
	"sort"

	"foodgram/internal/api/dto"
	"foodgram/internal/api/models"
	"foodgram/internal/api/repository"

	"gorm.io/gorm"
)

// fakeRecipeStore backs in-memory repository fakes with the same relational
// semantics as the SQL layer: recipe updates replace every ingredient line
// and tag link, cart aggregation sums amounts grouped by (name, unit).
// Tests use them where mocking the repository would mock away the behavior
// under test.
type fakeRecipeStore struct {
	nextID   int64
	authors  map[string]models.User
	catalog  map[int64]models.Ingredient
	tagDefs  map[int64]models.Tag
	recipes  map[int64]models.Recipe
	lines    map[int64][]models.RecipeIngredient
	tagLinks map[int64][]int64
	cart     map[string]map[int64]bool
}

func newFakeRecipeStore() *fakeRecipeStore {
	return &fakeRecipeStore{
		authors:  make(map[string]models.User),
		catalog:  make(map[int64]models.Ingredient),
		tagDefs:  make(map[int64]models.Tag),
		recipes:  make(map[int64]models.Recipe),
		lines:    make(map[int64][]models.RecipeIngredient),
		tagLinks: make(map[int64][]int64),
		cart:     make(map[string]map[int64]bool),
	}
}

type fakeRecipeRepository struct {
	store *fakeRecipeStore
}

func (r *fakeRecipeRepository) Create(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient, tagIDs []int64) error {
	r.store.nextID++
	recipe.ID = r.store.nextID
	r.store.recipes[recipe.ID] = *recipe
	r.store.lines[recipe.ID] = stampLines(recipe.ID, lines)
	r.store.tagLinks[recipe.ID] = append([]int64(nil), tagIDs...)
	return nil
}

func (r *fakeRecipeRepository) Update(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient, tagIDs []int64) error {
	if _, ok := r.store.recipes[recipe.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	// full replacement: old lines and tag links are gone after this
	r.store.recipes[recipe.ID] = *recipe
	r.store.lines[recipe.ID] = stampLines(recipe.ID, lines)
	r.store.tagLinks[recipe.ID] = append([]int64(nil), tagIDs...)
	return nil
}

func (r *fakeRecipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	stored, ok := r.store.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	recipe := stored
	if author, ok := r.store.authors[recipe.AuthorID]; ok {
		authorCopy := author
		recipe.Author = &authorCopy
	}
	recipe.Tags = nil
	for _, tagID := range r.store.tagLinks[id] {
		recipe.Tags = append(recipe.Tags, r.store.tagDefs[tagID])
	}
	recipe.Ingredients = nil
	for _, line := range r.store.lines[id] {
		ingredient := r.store.catalog[line.IngredientID]
		line.Ingredient = &ingredient
		recipe.Ingredients = append(recipe.Ingredients, line)
	}
	return &recipe, nil
}

func (r *fakeRecipeRepository) List(ctx context.Context, filters dto.RecipeFilters) ([]models.Recipe, int64, error) {
	var out []models.Recipe
	for id := range r.store.recipes {
		recipe, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *recipe)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeRecipeRepository) Delete(ctx context.Context, id int64) error {
	delete(r.store.recipes, id)
	delete(r.store.lines, id)
	delete(r.store.tagLinks, id)
	return nil
}

func (r *fakeRecipeRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	for _, recipe := range r.store.recipes {
		if recipe.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRecipeRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Recipe, error) {
	var out []models.Recipe
	for _, recipe := range r.store.recipes {
		if recipe.AuthorID == authorID {
			out = append(out, recipe)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func stampLines(recipeID int64, lines []models.RecipeIngredient) []models.RecipeIngredient {
	stamped := make([]models.RecipeIngredient, len(lines))
	for i, line := range lines {
		line.ID = 0
		line.RecipeID = recipeID
		line.Ingredient = nil
		stamped[i] = line
	}
	return stamped
}

type fakeIngredientRepository struct {
	store *fakeRecipeStore
}

func (r *fakeIngredientRepository) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	var out []models.Ingredient
	for _, ingredient := range r.store.catalog {
		out = append(out, ingredient)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeIngredientRepository) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	ingredient, ok := r.store.catalog[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &ingredient, nil
}

func (r *fakeIngredientRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.store.catalog[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (r *fakeIngredientRepository) BulkCreate(ctx context.Context, ingredients []models.Ingredient) error {
	for _, ingredient := range ingredients {
		r.store.catalog[ingredient.ID] = ingredient
	}
	return nil
}

type fakeTagRepository struct {
	store *fakeRecipeStore
}

func (r *fakeTagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	for _, tag := range r.store.tagDefs {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	tag, ok := r.store.tagDefs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &tag, nil
}

func (r *fakeTagRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	existing := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.store.tagDefs[id]; ok {
			existing[id] = true
		}
	}
	return existing, nil
}

func (r *fakeTagRepository) BulkCreate(ctx context.Context, tags []models.Tag) error {
	for _, tag := range tags {
		r.store.tagDefs[tag.ID] = tag
	}
	return nil
}

type fakeCartRepository struct {
	store *fakeRecipeStore
}

func (r *fakeCartRepository) Add(ctx context.Context, userID string, recipeID int64) error {
	if r.store.cart[userID][recipeID] {
		return repository.ErrDuplicate
	}
	if r.store.cart[userID] == nil {
		r.store.cart[userID] = make(map[int64]bool)
	}
	r.store.cart[userID][recipeID] = true
	return nil
}

func (r *fakeCartRepository) Remove(ctx context.Context, userID string, recipeID int64) (bool, error) {
	if !r.store.cart[userID][recipeID] {
		return false, nil
	}
	delete(r.store.cart[userID], recipeID)
	return true, nil
}

func (r *fakeCartRepository) Exists(ctx context.Context, userID string, recipeID int64) (bool, error) {
	return r.store.cart[userID][recipeID], nil
}

// AggregateIngredients mirrors the SQL grouping: every cart recipe's lines
// summed per (name, unit), ordered by name.
func (r *fakeCartRepository) AggregateIngredients(ctx context.Context, userID string) ([]dto.ShoppingListItem, error) {
	type key struct {
		name string
		unit string
	}
	totals := make(map[key]int)
	for recipeID := range r.store.cart[userID] {
		for _, line := range r.store.lines[recipeID] {
			ingredient := r.store.catalog[line.IngredientID]
			totals[key{ingredient.Name, ingredient.MeasurementUnit}] += line.Amount
		}
	}
	items := make([]dto.ShoppingListItem, 0, len(totals))
	for k, total := range totals {
		items = append(items, dto.ShoppingListItem{
			Name:            k.name,
			MeasurementUnit: k.unit,
			Total:           total,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}
