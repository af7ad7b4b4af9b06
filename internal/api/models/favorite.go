package models

import "time"

type Favorite struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   string    `gorm:"type:uuid;not null;index:idx_favorite_pair,unique" json:"user_id"`
	RecipeID int64     `gorm:"not null;index:idx_favorite_pair,unique" json:"recipe_id"`
	AddedAt  time.Time `gorm:"autoCreateTime" json:"added_at"`

	// Associations
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;" json:"recipe,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
