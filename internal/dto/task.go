package dto

import (
	"time"

	"github.com/projectflow/projectflow-api/internal/models"
)

// TaskAssigneeDTO represents one assignee on a task
type TaskAssigneeDTO struct {
	User UserDTO `json:"user"`
}

// TaskDTO represents a task in API responses and task broadcast payloads.
// The id/title/status/priority/due_date/creator_id fields double as the
// shape the board store decodes.
type TaskDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	ProjectID   string              `json:"project_id"`
	CreatorID   string              `json:"creator_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Creator     *UserDTO            `json:"creator,omitempty"`
	Assignees   []TaskAssigneeDTO   `json:"assignees"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		CreatorID:   task.CreatorID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Assignees:   make([]TaskAssigneeDTO, len(task.Assignees)),
	}

	if task.Creator != nil {
		creator := ToUserDTO(*task.Creator)
		dto.Creator = &creator
	}

	for i, assignment := range task.Assignees {
		dto.Assignees[i] = TaskAssigneeDTO{User: ToUserDTO(assignment.User)}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskDTO(task)
	}
	return out
}
