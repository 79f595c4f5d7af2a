// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a registered portfolio owner.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicUser is the subset of a user shown on public profile pages.
type PublicUser struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Public strips everything but the display identity.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Username: u.Username}
}
