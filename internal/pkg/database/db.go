// Package database owns the process-wide gorm connection.
package database

import "gorm.io/gorm"

var DB *gorm.DB

// GetDB returns the connection opened by SetupDatabase.
func GetDB() *gorm.DB {
	return DB
}
