package dto

import (
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/services"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
	Tags        []string            `json:"tags"`
	User        string              `json:"user"`
	Completed   bool                `json:"completed"`
	CompletedAt *time.Time          `json:"completedAt"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TaskListResponse is the body of GET /api/tasks
type TaskListResponse struct {
	Count int       `json:"count"`
	Tasks []TaskDTO `json:"tasks"`
}

// TaskResponse wraps a single task
type TaskResponse struct {
	Task TaskDTO `json:"task"`
}

// TaskMessageResponse wraps a task returned by a write operation
type TaskMessageResponse struct {
	Message string  `json:"message"`
	Task    TaskDTO `json:"task"`
}

// SuggestionListResponse is the body of POST /api/tasks/generate
type SuggestionListResponse struct {
	Count       int                      `json:"count"`
	Suggestions []services.GeneratedTask `json:"suggestions"`
}

// TaskRequest carries the writable task fields for create and update.
// There is no owner field; the owner comes from the token.
type TaskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *string          `json:"status"`
	Priority    *string          `json:"priority"`
	DueDate     Optional[string] `json:"dueDate"`
	Tags        *[]string        `json:"tags"`
}

// GenerateTasksRequest is the body of POST /api/tasks/generate
type GenerateTasksRequest struct {
	Text string `json:"text"`
}

// ToTaskInput converts the request to service input. An explicit null
// dueDate clears the stored date.
func (r TaskRequest) ToTaskInput() services.TaskInput {
	input := services.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		Tags:        r.Tags,
	}
	switch {
	case r.DueDate.Null:
		input.ClearDueDate = true
	case r.DueDate.Set:
		dueDate := r.DueDate.Value
		input.DueDate = &dueDate
	}
	return input
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	tags := task.Tags
	if tags == nil {
		tags = []string{}
	}

	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Tags:        tags,
		User:        task.UserID,
		Completed:   task.Completed,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Count: len(items),
		Tasks: items,
	}
}

// ToSuggestionListResponse wraps generated suggestions
func ToSuggestionListResponse(suggestions []services.GeneratedTask) SuggestionListResponse {
	if suggestions == nil {
		suggestions = []services.GeneratedTask{}
	}
	return SuggestionListResponse{
		Count:       len(suggestions),
		Suggestions: suggestions,
	}
}
