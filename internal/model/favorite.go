package model

import "time"

// Favorite marks an external content item as saved by a user.
// At most one row exists per (UserID, ItemID).
type Favorite struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `json:"user_id" gorm:"not null;uniqueIndex:idx_favorites_user_item,priority:1;index:idx_favorites_user"`
	ItemID    int64     `json:"item_id" gorm:"not null;uniqueIndex:idx_favorites_user_item,priority:2;index:idx_favorites_item"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name.
func (Favorite) TableName() string {
	return "favorites"
}
