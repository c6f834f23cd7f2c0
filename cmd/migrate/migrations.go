package main

import (
	"gorm.io/gorm"

	"github.com/react-studio/engine/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.Project{},
		&models.ProjectFile{},
		&models.ChatMessage{},
	}
}

// runMigrations executes all database migrations
func runMigrations(db *gorm.DB) error {
	// UUID defaults need pgcrypto before any table is created.
	if err := runCustomMigrations(db); err != nil {
		return err
	}
	return db.AutoMigrate(registerModels()...)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		enableUUIDExtension,
	}

	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}

	return nil
}

// enableUUIDExtension ensures UUID generation is available
func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}
