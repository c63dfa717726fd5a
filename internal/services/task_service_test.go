package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/validation"
	"gorm.io/gorm"
)

type TaskServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	taskService *TaskService
	ctx         context.Context
	alice       *models.User
	bob         *models.User
	start       time.Time
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.db = setupTestDB(s.T())
	s.ctx = context.Background()
	s.start = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	s.taskService = NewTaskService(repository.NewTaskRepository(s.db), validation.New(), nil)
	s.taskService.now = steppingClock(s.start, time.Minute)

	s.alice = &models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "x"}
	s.Require().NoError(s.db.Create(s.alice).Error)
	s.bob = &models.User{Username: "bob", Email: "bob@x.com", PasswordHash: "x"}
	s.Require().NoError(s.db.Create(s.bob).Error)
}

func (s *TaskServiceTestSuite) createTask(userID, title string) *models.Task {
	task, err := s.taskService.CreateTask(s.ctx, userID, TaskInput{Title: strPtr(title)})
	s.Require().NoError(err)
	return task
}

func (s *TaskServiceTestSuite) TestCreateTask_Defaults() {
	task, err := s.taskService.CreateTask(s.ctx, s.alice.ID, TaskInput{
		Title: strPtr("  Buy milk  "),
		Tags:  &[]string{" home ", "", "errands"},
	})
	s.Require().NoError(err)

	s.NotEmpty(task.ID)
	s.Equal("Buy milk", task.Title)
	s.Equal(models.TaskStatusPending, task.Status)
	s.Equal(models.TaskPriorityMedium, task.Priority)
	s.Equal(s.alice.ID, task.UserID)
	s.Equal([]string{"home", "errands"}, task.Tags)
	s.False(task.Completed)
	s.Nil(task.CompletedAt)
	s.Nil(task.DueDate)
}

func (s *TaskServiceTestSuite) TestCreateTask_CompletedOnCreate() {
	task, err := s.taskService.CreateTask(s.ctx, s.alice.ID, TaskInput{
		Title:   strPtr("Done already"),
		Status:  strPtr("completed"),
		DueDate: strPtr("2025-07-01"),
	})
	s.Require().NoError(err)

	s.True(task.Completed)
	s.Require().NotNil(task.CompletedAt)
	s.Require().NotNil(task.DueDate)
	s.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), *task.DueDate)
}

func (s *TaskServiceTestSuite) TestCreateTask_ValidationErrors() {
	_, err := s.taskService.CreateTask(s.ctx, s.alice.ID, TaskInput{
		Status:   strPtr("done"),
		Priority: strPtr("urgent"),
		DueDate:  strPtr("tomorrow"),
	})

	var fieldErrs validation.Errors
	s.Require().True(errors.As(err, &fieldErrs))
	s.Equal(validation.Errors{
		{Field: "title", Message: "Task title is required"},
		{Field: "status", Message: "Status must be one of: pending, in-progress, completed"},
		{Field: "priority", Message: "Priority must be one of: low, medium, high"},
		{Field: "dueDate", Message: "Due date must be a valid date"},
	}, fieldErrs)

	var count int64
	s.Require().NoError(s.db.Model(&models.Task{}).Count(&count).Error)
	s.Zero(count)
}

func (s *TaskServiceTestSuite) TestGetTask_OtherUserIsNotFound() {
	task := s.createTask(s.alice.ID, "Alice's task")

	found, err := s.taskService.GetTask(s.ctx, s.alice.ID, task.ID)
	s.Require().NoError(err)
	s.Equal("Alice's task", found.Title)

	_, err = s.taskService.GetTask(s.ctx, s.bob.ID, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	_, err = s.taskService.UpdateTask(s.ctx, s.bob.ID, task.ID, TaskInput{Title: strPtr("hijacked")})
	s.ErrorIs(err, ErrTaskNotFound)

	_, err = s.taskService.DeleteTask(s.ctx, s.bob.ID, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	found, err = s.taskService.GetTask(s.ctx, s.alice.ID, task.ID)
	s.Require().NoError(err)
	s.Equal("Alice's task", found.Title)
}

func (s *TaskServiceTestSuite) TestUpdateTask_CompletionFollowsStatus() {
	task := s.createTask(s.alice.ID, "Write report")

	updated, err := s.taskService.UpdateTask(s.ctx, s.alice.ID, task.ID, TaskInput{Status: strPtr("completed")})
	s.Require().NoError(err)
	s.True(updated.Completed)
	s.Require().NotNil(updated.CompletedAt)
	completedAt := *updated.CompletedAt

	// Same status again keeps the original completion time.
	updated, err = s.taskService.UpdateTask(s.ctx, s.alice.ID, task.ID, TaskInput{Status: strPtr("completed")})
	s.Require().NoError(err)
	s.Require().NotNil(updated.CompletedAt)
	s.True(completedAt.Equal(*updated.CompletedAt))

	updated, err = s.taskService.UpdateTask(s.ctx, s.alice.ID, task.ID, TaskInput{Status: strPtr("in-progress")})
	s.Require().NoError(err)
	s.False(updated.Completed)
	s.Nil(updated.CompletedAt)

	stored, err := s.taskService.GetTask(s.ctx, s.alice.ID, task.ID)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusInProgress, stored.Status)
	s.False(stored.Completed)
	s.Nil(stored.CompletedAt)
}

func (s *TaskServiceTestSuite) TestUpdateTask_PartialUpdate() {
	task, err := s.taskService.CreateTask(s.ctx, s.alice.ID, TaskInput{
		Title:       strPtr("Plan trip"),
		Description: strPtr("Lisbon"),
		Priority:    strPtr("high"),
		DueDate:     strPtr("2025-08-01"),
		Tags:        &[]string{"travel"},
	})
	s.Require().NoError(err)

	updated, err := s.taskService.UpdateTask(s.ctx, s.alice.ID, task.ID, TaskInput{Description: strPtr("Porto")})
	s.Require().NoError(err)

	s.Equal("Plan trip", updated.Title)
	s.Equal("Porto", updated.Description)
	s.Equal(models.TaskPriorityHigh, updated.Priority)
	s.Equal([]string{"travel"}, updated.Tags)
	s.Require().NotNil(updated.DueDate)
	s.True(updated.UpdatedAt.After(task.CreatedAt))

	updated, err = s.taskService.UpdateTask(s.ctx, s.alice.ID, task.ID, TaskInput{ClearDueDate: true})
	s.Require().NoError(err)
	s.Nil(updated.DueDate)

	stored, err := s.taskService.GetTask(s.ctx, s.alice.ID, task.ID)
	s.Require().NoError(err)
	s.Nil(stored.DueDate)
	s.Equal("Porto", stored.Description)
	s.Equal(s.alice.ID, stored.UserID)
}

func (s *TaskServiceTestSuite) TestUpdateTask_EmptyTitleRejected() {
	task := s.createTask(s.alice.ID, "Keep me")

	_, err := s.taskService.UpdateTask(s.ctx, s.alice.ID, task.ID, TaskInput{Title: strPtr("   ")})

	var fieldErrs validation.Errors
	s.Require().True(errors.As(err, &fieldErrs))
	s.Equal(validation.Errors{{Field: "title", Message: "Title cannot be empty"}}, fieldErrs)
}

func (s *TaskServiceTestSuite) TestDeleteTask() {
	task := s.createTask(s.alice.ID, "Throwaway")

	deleted, err := s.taskService.DeleteTask(s.ctx, s.alice.ID, task.ID)
	s.Require().NoError(err)
	s.Equal(task.ID, deleted.ID)

	_, err = s.taskService.GetTask(s.ctx, s.alice.ID, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	_, err = s.taskService.DeleteTask(s.ctx, s.alice.ID, task.ID)
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestListTasks_ScopedAndOrdered() {
	first := s.createTask(s.alice.ID, "first")
	second := s.createTask(s.alice.ID, "second")
	s.createTask(s.bob.ID, "bob's")
	third := s.createTask(s.alice.ID, "third")

	tasks, err := s.taskService.ListTasks(s.ctx, s.alice.ID, ListTasksInput{})
	s.Require().NoError(err)
	s.Require().Len(tasks, 3)
	s.Equal([]string{third.ID, second.ID, first.ID}, taskIDs(tasks))

	tasks, err = s.taskService.ListTasks(s.ctx, s.alice.ID, ListTasksInput{SortBy: "createdAt", Order: "asc"})
	s.Require().NoError(err)
	s.Equal([]string{first.ID, second.ID, third.ID}, taskIDs(tasks))

	tasks, err = s.taskService.ListTasks(s.ctx, s.alice.ID, ListTasksInput{SortBy: "title", Order: "ASC"})
	s.Require().NoError(err)
	s.Equal([]string{third.ID, second.ID, first.ID}, taskIDs(tasks))
}

func (s *TaskServiceTestSuite) TestListTasks_Filters() {
	s.createTask(s.alice.ID, "pending one")
	done := s.createTask(s.alice.ID, "done one")
	_, err := s.taskService.UpdateTask(s.ctx, s.alice.ID, done.ID, TaskInput{Status: strPtr("completed"), Priority: strPtr("high")})
	s.Require().NoError(err)

	tasks, err := s.taskService.ListTasks(s.ctx, s.alice.ID, ListTasksInput{Status: "completed"})
	s.Require().NoError(err)
	s.Equal([]string{done.ID}, taskIDs(tasks))

	tasks, err = s.taskService.ListTasks(s.ctx, s.alice.ID, ListTasksInput{Priority: "high"})
	s.Require().NoError(err)
	s.Equal([]string{done.ID}, taskIDs(tasks))

	tasks, err = s.taskService.ListTasks(s.ctx, s.alice.ID, ListTasksInput{Status: "archived"})
	s.Require().NoError(err)
	s.NotNil(tasks)
	s.Empty(tasks)
}

func (s *TaskServiceTestSuite) TestSummary() {
	s.createTask(s.alice.ID, "a")
	s.createTask(s.alice.ID, "b")
	done := s.createTask(s.alice.ID, "c")
	s.createTask(s.bob.ID, "bob's")
	_, err := s.taskService.UpdateTask(s.ctx, s.alice.ID, done.ID, TaskInput{Status: strPtr("completed")})
	s.Require().NoError(err)

	summary, err := s.taskService.Summary(s.ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Equal(&TaskSummary{Total: 3, Completed: 1, Pending: 2, InProgress: 0}, summary)

	empty, err := s.taskService.Summary(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Equal(&TaskSummary{}, empty)
}

func (s *TaskServiceTestSuite) TestGenerateTasks_InputChecks() {
	_, err := s.taskService.GenerateTasks(s.ctx, "   ")
	s.ErrorIs(err, ErrGenerateTextRequired)

	_, err = s.taskService.GenerateTasks(s.ctx, "plan my week")
	s.ErrorIs(err, ErrAIServiceNotConfigured)
}

func (s *TaskServiceTestSuite) TestGenerateTasks_FiltersSuggestions() {
	s.taskService.aiService = newFakeOpenAI(s.T(), http.StatusOK, `[
		{"title":"  ","description":"no title","priority":"high","dueDate":null,"tags":[]},
		{"title":"Call the bank","description":"","priority":"urgent","dueDate":"2020-01-01T00:00:00Z","tags":[" money ",""]},
		{"title":"Renew passport","description":"before the trip","priority":"low","dueDate":"2025-09-01T00:00:00Z","tags":["travel"]}
	]`)

	tasks, err := s.taskService.GenerateTasks(s.ctx, "call the bank and renew my passport")
	s.Require().NoError(err)
	s.Require().Len(tasks, 2)

	s.Equal("Call the bank", tasks[0].Title)
	s.Equal(models.TaskPriorityMedium, tasks[0].Priority)
	s.Nil(tasks[0].DueDate)
	s.Equal([]string{"money"}, tasks[0].Tags)

	s.Equal("Renew passport", tasks[1].Title)
	s.Equal(models.TaskPriorityLow, tasks[1].Priority)
	s.NotNil(tasks[1].DueDate)

	var count int64
	s.Require().NoError(s.db.Model(&models.Task{}).Count(&count).Error)
	s.Zero(count)
}

func (s *TaskServiceTestSuite) TestGenerateTasks_NothingUsable() {
	s.taskService.aiService = newFakeOpenAI(s.T(), http.StatusOK, `[]`)
	_, err := s.taskService.GenerateTasks(s.ctx, "nothing to do")
	s.ErrorIs(err, ErrAINoTasksGenerated)

	s.taskService.aiService = newFakeOpenAI(s.T(), http.StatusOK, `[{"title":"","priority":"low"}]`)
	_, err = s.taskService.GenerateTasks(s.ctx, "nothing to do")
	s.ErrorIs(err, ErrAINoValidTasks)
}

func taskIDs(tasks []models.Task) []string {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func (s *TaskServiceTestSuite) TestGenerateTasks_UpstreamFailure() {
	s.taskService.aiService = newFakeOpenAI(s.T(), http.StatusInternalServerError, "")

	_, err := s.taskService.GenerateTasks(s.ctx, "plan my week")
	s.ErrorIs(err, ErrAIUpstream)
}
