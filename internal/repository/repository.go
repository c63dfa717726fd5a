package repository

import (
	"context"

	"github.com/taskflow/taskflow-api/internal/models"
)

// TaskRepository defines owner-scoped data access for tasks. Every method
// takes the owning user's id; none can reach another user's rows.
type TaskRepository interface {
	// Create inserts a new task; the caller sets task.UserID
	Create(ctx context.Context, task *models.Task) error

	// FindOwned finds a task by ID among the user's tasks
	FindOwned(ctx context.Context, userID, taskID string) (*models.Task, error)

	// List retrieves the user's tasks with filtering and ordering
	List(ctx context.Context, userID string, filter TaskFilter) ([]models.Task, error)

	// Update writes every column of an owned task
	Update(ctx context.Context, task *models.Task) error

	// Delete removes an owned task
	Delete(ctx context.Context, userID, taskID string) error

	// CountByStatus counts the user's tasks per status
	CountByStatus(ctx context.Context, userID string) (map[models.TaskStatus]int64, error)
}

// TaskFilter holds filtering and ordering options for listing tasks
type TaskFilter struct {
	Status    *models.TaskStatus
	Priority  *models.TaskPriority
	SortBy    string
	Ascending bool
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// ExistsByEmailOrUsername reports whether either value is already registered
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
}
