package model

import "time"

// User is an account of this service, independent of any host platform's users.
type User struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"size:190;not null;uniqueIndex:idx_users_username"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	DisplayName  *string   `json:"display_name,omitempty" gorm:"size:190"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// Name returns the display name, falling back to the username when none is set.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Username
}
