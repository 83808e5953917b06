package models

import "time"

type User struct {
	ID                 uint    `gorm:"primaryKey" json:"id"`
	Email              string  `gorm:"uniqueIndex;not null" json:"email"`
	FullName           string  `json:"full_name"`
	PasswordHash       string  `json:"-"`
	IsActive           bool    `gorm:"not null;default:true" json:"is_active"`
	GoogleID           *string `gorm:"uniqueIndex" json:"google_id,omitempty"`
	ProfilePicture     string  `json:"profile_picture,omitempty"`
	GoogleRefreshToken string  `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// HasPassword reports whether the account can log in with email/password.
// OAuth-only accounts keep an empty hash.
func (user *User) HasPassword() bool {
	return user.PasswordHash != ""
}

// GoogleConnected reports whether a usable refresh credential is stored,
// which gates every calendar sync attempt.
func (user *User) GoogleConnected() bool {
	return user.GoogleRefreshToken != ""
}
