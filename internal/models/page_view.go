package models

import "time"

// TargetType identifies what kind of content a page view points at.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetProfile TargetType = "profile"
	TargetProject TargetType = "project"
)

// Valid reports whether t is one of the known target types.
func (t TargetType) Valid() bool {
	switch t {
	case TargetPost, TargetProfile, TargetProject:
		return true
	}
	return false
}

// AnonymousVisitor is substituted when a request carries no visitor identity.
// All anonymous callers inside one dedup window collapse into a single viewer.
const AnonymousVisitor = "anonymous"

// PageView is one accepted view event. UserID is the content owner, not the visitor.
// Rows are append-only.
type PageView struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index;index:idx_page_views_owner_type_time,priority:1" json:"user_id"`
	TargetID   string     `gorm:"not null;index;index:idx_page_views_target_time,priority:1" json:"target_id"`
	TargetType TargetType `gorm:"type:varchar(16);not null;index:idx_page_views_owner_type_time,priority:2" json:"target_type"`
	VisitorID  string     `gorm:"not null" json:"visitor_id"`
	ViewedAt   time.Time  `gorm:"not null;index;index:idx_page_views_owner_type_time,priority:3;index:idx_page_views_target_time,priority:2" json:"viewed_at"`
	Referrer   string     `json:"referrer,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
}

// DashboardStats is the owner's analytics summary.
type DashboardStats struct {
	TotalViews        int64   `json:"total_views"`
	TotalProjects     int64   `json:"total_projects"`
	TotalPosts        int64   `json:"total_posts"`
	ProfileViews      int64   `json:"profile_views"`
	ViewsTrend        float64 `json:"views_trend"`
	ProfileViewsTrend float64 `json:"profile_views_trend"`
}
