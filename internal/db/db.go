package db

import (
	"gorm.io/driver/postgres" // Postgres driver for GORM
	"gorm.io/gorm"            // GORM ORM library
)

// Connect opens a pooled Postgres connection for the process lifetime
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
