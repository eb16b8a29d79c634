package models

import "time"

// Roster is a staff member shown on the public roster page.
type Roster struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Phone     *string   `gorm:"type:varchar(50)" json:"phone"`
	Email     *string   `gorm:"type:varchar(200)" json:"email"`
	SortOrder int       `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Roster) TableName() string {
	return "rosters"
}
