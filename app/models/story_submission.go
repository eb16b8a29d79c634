package models

import "time"

const (
	SubmissionStatusNew      = "new"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

// StorySubmission is a story proposed by a visitor and reviewed by an admin.
type StorySubmission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Author    *string   `gorm:"type:varchar(255)" json:"author"`
	Email     *string   `gorm:"type:varchar(200)" json:"email"`
	Anonymous bool      `gorm:"default:false" json:"anonymous"`
	Status    string    `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	StoryID   *uint     `gorm:"index" json:"story_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StorySubmission) TableName() string {
	return "story_submissions"
}

// IsPending reports whether the submission still awaits review.
func (s *StorySubmission) IsPending() bool {
	return s.Status == SubmissionStatusNew
}

// DisplayAuthor is the byline used when the submission becomes a story.
func (s *StorySubmission) DisplayAuthor() string {
	if s.Anonymous || s.Author == nil || *s.Author == "" {
		return "Anonymous"
	}
	return *s.Author
}
