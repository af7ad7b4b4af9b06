package dto

import (
	"time"

	"foodgram/internal/api/models"
)

// IngredientAmountDTO is one ingredient line of a recipe write payload.
type IngredientAmountDTO struct {
	ID     int64 `json:"id" binding:"required"`
	Amount int   `json:"amount" binding:"required"`
}

// RecipeWriteDTO used for POST /api/recipes and PATCH /api/recipes/:id.
// Image is either empty (keep the current one on update) or a base64 data
// URI ("data:image/<ext>;base64,<data>").
type RecipeWriteDTO struct {
	Ingredients []IngredientAmountDTO `json:"ingredients"`
	Tags        []int64               `json:"tags"`
	Image       string                `json:"image"`
	Name        string                `json:"name"`
	Text        string                `json:"text"`
	CookingTime int                   `json:"cooking_time"`
}

// RecipeIngredientResponse: ingredient line in a recipe read view
type RecipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse: full read view of a recipe aggregate
type RecipeResponse struct {
	ID                int64                      `json:"id"`
	Tags              []TagResponse              `json:"tags"`
	Author            UserResponse               `json:"author"`
	Ingredients       []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited       bool                       `json:"is_favorited"`
	IsInShoppingCart  bool                       `json:"is_in_shopping_cart"`
	Name              string                     `json:"name"`
	Image             string                     `json:"image"`
	Text              string                     `json:"text"`
	CookingTime       int                        `json:"cooking_time"`
	CreatedAt         time.Time                  `json:"created_at"`
}

// RecipeShortResponse: compact view used by favorite/cart responses and
// the subscriptions listing.
type RecipeShortResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func RecipeShortFromModel(r models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// RecipeListResponse: paginated recipe listing
type RecipeListResponse struct {
	Items []RecipeResponse `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// RecipeFilters: list endpoint filters, bound from query params by the
// handler. FavoritedBy/InCartOf carry the requester id when the matching
// boolean query flag is set.
type RecipeFilters struct {
	TagSlugs    []string
	AuthorID    string
	FavoritedBy string
	InCartOf    string
	Page        int
	Limit       int
}
