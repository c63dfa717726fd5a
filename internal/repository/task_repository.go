package repository

import (
	"context"

	"github.com/taskflow/taskflow-api/internal/database"
	"github.com/taskflow/taskflow-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns maps the API sort keys to columns. Unknown keys sort by
// creation time.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"dueDate":     "due_date",
	"completedAt": "completed_at",
	"title":       "title",
	"status":      "status",
	"priority":    "priority",
}

// SortColumn resolves an API sort key to its column name.
func SortColumn(sortBy string) string {
	if column, ok := sortColumns[sortBy]; ok {
		return column
	}
	return "created_at"
}

// scope applies the optional equality filters.
func (f TaskFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.Priority != nil {
		db = db.Where("priority = ?", *f.Priority)
	}
	return db
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindOwned returns gorm.ErrRecordNotFound both for missing tasks and for
// tasks owned by someone else.
func (r *GormTaskRepository) FindOwned(ctx context.Context, userID, taskID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID), database.WithID(taskID)).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and ordering
func (r *GormTaskRepository) List(ctx context.Context, userID string, filter TaskFilter) ([]models.Task, error) {
	order := clause.OrderByColumn{
		Column: clause.Column{Name: SortColumn(filter.SortBy)},
		Desc:   !filter.Ascending,
	}

	tasks := []models.Task{}
	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.OwnedBy(userID), filter.scope).
		Order(order).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update saves all fields; the owner condition keeps a stale or forged
// task value from touching another user's row.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).
		Model(task).
		Scopes(database.OwnedBy(task.UserID)).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(task).Error
}

// Delete permanently removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	result := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(userID), database.WithID(taskID)).
		Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus counts tasks grouped by status
func (r *GormTaskRepository) CountByStatus(ctx context.Context, userID string) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.OwnedBy(userID)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
