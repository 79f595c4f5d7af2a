package models

import (
	"time"

	"gorm.io/datatypes"
)

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is a blog post. Slug is derived from Title on every write and is unique across all posts.
type Post struct {
	ID         uint                        `gorm:"primaryKey" json:"id"`
	UserID     uint                        `gorm:"not null;index" json:"user_id"`
	Title      string                      `gorm:"not null" json:"title"`
	Content    string                      `gorm:"type:text;not null" json:"content"`
	Excerpt    string                      `gorm:"type:text;not null" json:"excerpt"`
	Slug       string                      `gorm:"uniqueIndex;not null" json:"slug"`
	CoverImage string                      `json:"cover_image,omitempty"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	Status     PostStatus                  `gorm:"type:varchar(16);not null;default:draft;index" json:"status"`
	CreatedAt  time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}
