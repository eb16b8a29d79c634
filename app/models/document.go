package models

import "time"

const (
	AppTypeFile  = "file"
	AppTypeImage = "image"
)

// Document is an uploaded file offered on the resources page.
type Document struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	FileName         string    `gorm:"uniqueIndex;type:varchar(255);not null" json:"file_name"`
	OriginalFileName string    `gorm:"type:varchar(255);not null;index" json:"original_file_name"`
	FileSize         int64     `gorm:"not null;default:0" json:"file_size"`
	MimeType         string    `gorm:"type:varchar(150)" json:"mime_type"`
	AppType          string    `gorm:"type:varchar(10);not null;default:'file'" json:"app_type"`
	UploadedBy       uint      `gorm:"index" json:"uploaded_by"`
	StoragePath      string    `gorm:"type:varchar(512);not null" json:"-"`
	IsPublic         bool      `gorm:"default:false;index" json:"is_public"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string {
	return "documents"
}

// IsPubliclyVisible reports whether the document is listed and downloadable without login.
func (d *Document) IsPubliclyVisible() bool {
	return d.AppType == AppTypeFile && d.IsPublic
}
