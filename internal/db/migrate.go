package db

import (
	"bolso_aberto/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/gorm" // GORM ORM library
)

// GlobalCategorias are seeded with no owner so every user sees them
var GlobalCategorias = []string{
	"Alimentação",
	"Transporte",
	"Moradia",
	"Lazer",
	"Saúde",
	"Educação",
	"Outros",
}

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	conn, err := Connect(dsn) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := MigrateDB(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}

// MigrateDB creates tables, constraints and indexes, and seeds the global categories
func MigrateDB(conn *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err := conn.AutoMigrate(&domain.Usuario{}, &domain.Categoria{}, &domain.Movimentacao{}, &domain.Meta{})
	if err != nil {
		return err
	}
	return seedGlobalCategorias(conn)
}

// seedGlobalCategorias inserts the default shared categories when absent
func seedGlobalCategorias(conn *gorm.DB) error {
	for _, nome := range GlobalCategorias {
		var count int64
		if err := conn.Model(&domain.Categoria{}).
			Where("nome = ? AND usuario_id IS NULL", nome).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue // Already seeded
		}
		if err := conn.Create(&domain.Categoria{Nome: nome}).Error; err != nil {
			return err
		}
	}
	return nil
}
