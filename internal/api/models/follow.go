package models

import "time"

// Follow records that UserID subscribed to AuthorID's recipes.
// The composite unique index prevents duplicate subscriptions; the
// user != author rule lives in the service layer.
type Follow struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   string    `gorm:"type:uuid;not null;index:idx_follow_pair,unique" json:"user_id"`
	AuthorID string    `gorm:"type:uuid;not null;index:idx_follow_pair,unique" json:"author_id"`
	AddedAt  time.Time `gorm:"autoCreateTime" json:"added_at"`

	// Associations
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"author,omitempty"`
}

func (Follow) TableName() string {
	return "follows"
}
