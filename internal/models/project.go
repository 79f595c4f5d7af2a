package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project is a portfolio entry owned by exactly one user.
type Project struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Title        string                      `gorm:"not null" json:"title"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Technologies datatypes.JSONSlice[string] `json:"technologies"`
	GithubLink   string                      `json:"github_link,omitempty"`
	LiveLink     string                      `json:"live_link,omitempty"`
	ImageURL     string                      `json:"image_url,omitempty"`
	UserID       uint                        `gorm:"not null;index" json:"user_id"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}
