package database

import (
	"fmt"
	"log/slog"

	"github.com/taskflow/taskflow-api/internal/models"
	"gorm.io/gorm"
)

// taskIndexes are the indexes every owner-scoped task query relies on.
var taskIndexes = []string{
	"idx_tasks_user_status",
	"idx_tasks_user_created",
}

// Migrate creates or updates the schema and verifies the task indexes.
func Migrate(db *gorm.DB) error {
	slog.Info("Running database migrations")
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := EnsureIndexes(db); err != nil {
		return err
	}

	slog.Info("Database migrations completed")
	return nil
}

// EnsureIndexes creates any task index missing from a schema that predates it.
func EnsureIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, name := range taskIndexes {
		if migrator.HasIndex(&models.Task{}, name) {
			continue
		}
		if err := migrator.CreateIndex(&models.Task{}, name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
		slog.Info("Created index", "index", name)
	}
	return nil
}
