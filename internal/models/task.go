package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	ID          string       `gorm:"type:varchar(36);primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(100);not null" json:"title"`
	Description string       `gorm:"type:varchar(500)" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending';index:idx_tasks_user_status,priority:2" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time   `json:"dueDate"`
	Tags        []string     `gorm:"type:text;serializer:json" json:"tags"`
	UserID      string       `gorm:"type:varchar(36);not null;index:idx_tasks_user_status,priority:1;index:idx_tasks_user_created,priority:1" json:"user"`
	Completed   bool         `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time   `json:"completedAt"`
	CreatedAt   time.Time    `gorm:"index:idx_tasks_user_created,priority:2" json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate assigns a random identifier to new tasks.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ApplyCompletion keeps Completed and CompletedAt in step with Status.
// It must be called whenever Status is set on a new task or changed on an
// existing one; previous is the status before the change ("" for new tasks).
func ApplyCompletion(task *Task, previous TaskStatus, now time.Time) {
	if task.Status == previous {
		return
	}
	if task.Status == TaskStatusCompleted {
		task.Completed = true
		task.CompletedAt = &now
		return
	}
	task.Completed = false
	task.CompletedAt = nil
}

func IsValidStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

func IsValidPriority(p string) bool {
	switch TaskPriority(p) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}
