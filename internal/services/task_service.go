package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/projectflow/projectflow-api/internal/constants"
	"github.com/projectflow/projectflow-api/internal/models"
	"github.com/projectflow/projectflow-api/internal/repository"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
	ErrInvalidAssignee = errors.New("one or more assignees do not exist")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssigneeIDs []string
	CreatorID   string
}

// UpdateTaskInput represents input for updating a task. The assignee list
// always replaces the stored set in full.
type UpdateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssigneeIDs []string
}

// ListTasks returns every task with assignees and creator preloaded
func (s *TaskService) ListTasks() ([]models.Task, error) {
	tasks, err := s.taskRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(id string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, "Creator", "Assignees", "Assignees.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask validates the input, resolves (or seeds) the project the task
// lands in, and persists the task together with its assignment rows.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if err := s.checkAssignees(input.AssigneeIDs); err != nil {
		return nil, err
	}

	project, err := s.ensureProject()
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		ProjectID:   project.ID,
		CreatorID:   input.CreatorID,
	}

	if err := s.taskRepo.CreateWithAssignees(task, dedupe(input.AssigneeIDs)); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(task.ID)
}

// UpdateTask saves the new field values and replaces the assignment set in
// full. Whichever update lands last wins the whole assignee list.
func (s *TaskService) UpdateTask(id string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if err := s.checkAssignees(input.AssigneeIDs); err != nil {
		return nil, err
	}

	task.Title = strings.TrimSpace(input.Title)
	task.Description = input.Description
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	task.DueDate = input.DueDate

	if err := s.taskRepo.UpdateWithAssignees(task, dedupe(input.AssigneeIDs)); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(task.ID)
}

// DeleteTask removes the task and its assignment rows.
func (s *TaskService) DeleteTask(id string) error {
	if _, err := s.taskRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ensureProject returns the project new tasks land in, seeding the default
// team/project pair on the very first task.
func (s *TaskService) ensureProject() (*models.Project, error) {
	project, err := s.projectRepo.First()
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up project: %w", err)
	}

	team := &models.Team{
		Name:        constants.DefaultTeamName,
		Description: constants.DefaultTeamDescription,
	}
	project = &models.Project{
		Name:        constants.DefaultProjectName,
		Description: constants.DefaultProjectDescription,
	}
	if err := s.projectRepo.CreateWithTeam(team, project); err != nil {
		return nil, fmt.Errorf("failed to seed default project: %w", err)
	}

	return project, nil
}

func (s *TaskService) checkAssignees(ids []string) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}

	count, err := s.userRepo.CountByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to check assignees: %w", err)
	}
	if int(count) != len(ids) {
		return ErrInvalidAssignee
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
