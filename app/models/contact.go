package models

import "time"

// Contact is a message sent through the public contact form.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(200);not null" json:"email"`
	Subject   *string   `gorm:"type:varchar(255)" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}
