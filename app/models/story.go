package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/htmltext"
)

const wordsPerMinute = 200

// Story is a blog post. Public visibility is derived from IsActive and PublishedAt.
type Story struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	Title           string                      `gorm:"type:varchar(255);not null" json:"title"`
	Slug            string                      `gorm:"uniqueIndex;type:varchar(255);not null" json:"slug"`
	Content         string                      `gorm:"type:text" json:"content"`
	Excerpt         string                      `gorm:"type:text" json:"excerpt"`
	Author          string                      `gorm:"type:varchar(255)" json:"author"`
	FeaturedImage   string                      `gorm:"type:varchar(512)" json:"featured_image"`
	MetaTitle       string                      `gorm:"type:varchar(255)" json:"meta_title"`
	MetaDescription string                      `gorm:"type:varchar(500)" json:"meta_description"`
	ReadingTime     int                         `gorm:"default:1" json:"reading_time"`
	Views           uint64                      `gorm:"default:0" json:"views"`
	IsActive        bool                        `gorm:"default:false;index" json:"is_active"`
	IsFeatured      bool                        `gorm:"default:false" json:"is_featured"`
	Category        string                      `gorm:"type:varchar(100);index" json:"category"`
	Tags            datatypes.JSONSlice[string] `gorm:"type:json" json:"tags"`
	PublishedAt     *time.Time                  `gorm:"index" json:"published_at"`
	UserID          *uint                       `gorm:"index" json:"user_id"`
	CreatedAt       time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Story) TableName() string {
	return "stories"
}

// IsPubliclyVisible reports whether anonymous visitors may see the story at now.
func (s *Story) IsPubliclyVisible(now time.Time) bool {
	return s.IsActive && s.PublishedAt != nil && !s.PublishedAt.After(now)
}

// SyncPublication keeps PublishedAt consistent with IsActive: activating a story
// without a publish time stamps it with now, deactivating clears it.
func (s *Story) SyncPublication(now time.Time) {
	if !s.IsActive {
		s.PublishedAt = nil
		return
	}
	if s.PublishedAt == nil {
		t := now
		s.PublishedAt = &t
	}
}

// OwnedBy reports whether userID created the story.
func (s *Story) OwnedBy(userID uint) bool {
	return s.UserID != nil && *s.UserID == userID
}

// ReadingTimeFor returns the estimated reading minutes for content, at least one.
func ReadingTimeFor(content string) int {
	words := htmltext.WordCount(content)
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
