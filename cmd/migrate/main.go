package main

import (
	"bolso_aberto/internal/config" // Custom import path (Config)
	"bolso_aberto/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Create schema and seed the global categories
}
