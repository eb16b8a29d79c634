package models

import "time"

// Event is a calendar entry with an optional attached file.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	StartTime   time.Time `gorm:"not null;index" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	FileName    string    `gorm:"type:varchar(255)" json:"file_name,omitempty"`
	FileSize    int64     `gorm:"default:0" json:"file_size,omitempty"`
	FileMime    string    `gorm:"type:varchar(150)" json:"file_mime,omitempty"`
	FilePath    string    `gorm:"type:varchar(512)" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// HasAttachment reports whether a file is stored for the event.
func (e *Event) HasAttachment() bool {
	return e.FilePath != ""
}

// ClearAttachment drops the attachment metadata.
func (e *Event) ClearAttachment() {
	e.FileName = ""
	e.FileSize = 0
	e.FileMime = ""
	e.FilePath = ""
}
