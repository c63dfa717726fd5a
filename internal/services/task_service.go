package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/validation"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrGenerateTextRequired   = errors.New("text is required")
	ErrGenerateTextTooLong    = errors.New("text is too long")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
	ErrAIUpstream             = errors.New("AI service request failed")
)

var createTaskMessages = validation.Messages{
	"title.min":       "Task title is required",
	"title.max":       "Title cannot exceed 100 characters",
	"description.max": "Description cannot exceed 500 characters",
	"status.oneof":    "Status must be one of: pending, in-progress, completed",
	"priority.oneof":  "Priority must be one of: low, medium, high",
	"dueDate.date":    "Due date must be a valid date",
}

var updateTaskMessages = validation.Messages{
	"title.min":       "Title cannot be empty",
	"title.max":       "Title cannot exceed 100 characters",
	"description.max": "Description cannot exceed 500 characters",
	"status.oneof":    "Status must be one of: pending, in-progress, completed",
	"priority.oneof":  "Priority must be one of: low, medium, high",
	"dueDate.date":    "Due date must be a valid date",
}

// taskRules holds trimmed task fields; nil means the field was not supplied.
type taskRules struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=100"`
	Description *string `json:"description" validate:"omitnil,max=500"`
	Status      *string `json:"status" validate:"omitnil,oneof=pending in-progress completed"`
	Priority    *string `json:"priority" validate:"omitnil,oneof=low medium high"`
	DueDate     *string `json:"dueDate" validate:"omitnil,date"`
}

// TaskService handles task business logic. Every operation is scoped to the
// calling user; tasks owned by others behave as if they did not exist.
type TaskService struct {
	taskRepo  repository.TaskRepository
	validator *validation.Validator
	aiService *AIService
	now       func() time.Time
}

// NewTaskService creates a new TaskService; aiService may be nil.
func NewTaskService(taskRepo repository.TaskRepository, validator *validation.Validator, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		validator: validator,
		aiService: aiService,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ListTasksInput represents filters and ordering for listing tasks
type ListTasksInput struct {
	Status   string
	Priority string
	SortBy   string
	Order    string
}

// TaskInput carries the writable task fields. A nil pointer means the field
// was absent from the request; ClearDueDate removes an existing due date.
type TaskInput struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *string
	ClearDueDate bool
	Tags         *[]string
}

// TaskSummary counts a user's tasks by status
type TaskSummary struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
}

// ListTasks returns the user's tasks. Ordering is ascending only when Order
// is exactly "asc".
func (s *TaskService) ListTasks(ctx context.Context, userID string, input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		SortBy:    input.SortBy,
		Ascending: input.Order == "asc",
	}
	if input.Status != "" {
		status := models.TaskStatus(input.Status)
		filter.Status = &status
	}
	if input.Priority != "" {
		priority := models.TaskPriority(input.Priority)
		filter.Priority = &priority
	}

	tasks, err := s.taskRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns one of the user's tasks
func (s *TaskService) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask validates the input and stores a task owned by userID
func (s *TaskService) CreateTask(ctx context.Context, userID string, input TaskInput) (*models.Task, error) {
	rules := newTaskRules(input)
	if rules.Title == nil {
		empty := ""
		rules.Title = &empty
	}
	if err := s.validator.Struct(rules, createTaskMessages); err != nil {
		return nil, err
	}

	now := s.now()
	task := &models.Task{
		Status:    models.TaskStatusPending,
		Priority:  models.TaskPriorityMedium,
		Tags:      []string{},
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyTaskInput(task, rules, input); err != nil {
		return nil, err
	}
	models.ApplyCompletion(task, "", now)

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies the supplied fields to one of the user's tasks
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, input TaskInput) (*models.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	rules := newTaskRules(input)
	if err := s.validator.Struct(rules, updateTaskMessages); err != nil {
		return nil, err
	}

	now := s.now()
	previous := task.Status
	if err := applyTaskInput(task, rules, input); err != nil {
		return nil, err
	}
	models.ApplyCompletion(task, previous, now)
	task.UpdatedAt = now

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes one of the user's tasks and returns its last state
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Delete(ctx, userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}

// Summary counts the user's tasks by status
func (s *TaskService) Summary(ctx context.Context, userID string) (*TaskSummary, error) {
	counts, err := s.taskRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	summary := &TaskSummary{
		Completed:  counts[models.TaskStatusCompleted],
		Pending:    counts[models.TaskStatusPending],
		InProgress: counts[models.TaskStatusInProgress],
	}
	for _, n := range counts {
		summary.Total += n
	}
	return summary, nil
}

// GenerateTasks asks the AI service for task suggestions. Suggestions are
// not stored; the client creates the ones it keeps.
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrGenerateTextRequired
	}
	if len(text) > constants.MaxAIInputLength {
		return nil, ErrGenerateTextTooLong
	}
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUpstream, err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		aiTask.Description = strings.TrimSpace(aiTask.Description)
		if aiTask.Title == "" || len([]rune(aiTask.Title)) > constants.MaxTitleLength {
			continue
		}
		if len([]rune(aiTask.Description)) > constants.MaxDescriptionLength {
			aiTask.Description = string([]rune(aiTask.Description)[:constants.MaxDescriptionLength])
		}
		if !models.IsValidPriority(string(aiTask.Priority)) {
			aiTask.Priority = models.TaskPriorityMedium
		}
		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}
		aiTask.Tags = normalizeTags(aiTask.Tags)

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func newTaskRules(input TaskInput) taskRules {
	return taskRules{
		Title:       trimmed(input.Title),
		Description: trimmed(input.Description),
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
}

// applyTaskInput copies validated fields onto task. The owner is never
// touched here.
func applyTaskInput(task *models.Task, rules taskRules, input TaskInput) error {
	if rules.Title != nil {
		task.Title = *rules.Title
	}
	if rules.Description != nil {
		task.Description = *rules.Description
	}
	if rules.Status != nil {
		task.Status = models.TaskStatus(*rules.Status)
	}
	if rules.Priority != nil {
		task.Priority = models.TaskPriority(*rules.Priority)
	}
	switch {
	case input.ClearDueDate:
		task.DueDate = nil
	case rules.DueDate != nil:
		dueDate, err := validation.ParseDate(*rules.DueDate)
		if err != nil {
			return err
		}
		task.DueDate = &dueDate
	}
	if input.Tags != nil {
		task.Tags = normalizeTags(*input.Tags)
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// normalizeTags trims every tag and drops the empty ones, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
