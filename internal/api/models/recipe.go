package models

import "time"

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID    string    `json:"author_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Image       string    `json:"image" gorm:"size:500"` // relative path under the media dir
	Text        string    `json:"text" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:cooking_time >= 1"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime;index"`

	// associations
	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE;"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient is the through table carrying the amount of one ingredient
// used by one recipe. The (recipe_id, ingredient_id) pair is unique so a
// duplicate line racing past the validator is rejected by the database.
type RecipeIngredient struct {
	ID           int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	RecipeID     int64 `json:"recipe_id" gorm:"not null;index:idx_recipe_ingredient,unique"`
	IngredientID int64 `json:"ingredient_id" gorm:"not null;index:idx_recipe_ingredient,unique"`
	Amount       int   `json:"amount" gorm:"not null;check:amount >= 1"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE;"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
