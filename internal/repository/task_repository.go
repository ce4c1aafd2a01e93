package repository

import (
	"github.com/projectflow/projectflow-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateWithAssignees creates a task and its assignment rows atomically
func (r *GormTaskRepository) CreateWithAssignees(task *models.Task, assigneeIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		return createAssignments(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns all tasks with assignees and creator
func (r *GormTaskRepository) List() ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Preload("Creator").
		Preload("Assignees").
		Preload("Assignees.User").
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateWithAssignees saves the task and replaces the entire assignment set.
// Delete-then-recreate mirrors the write path the clients expect: the last
// writer's assignee list wins wholesale, concurrent partial edits are not
// merged.
func (r *GormTaskRepository) UpdateWithAssignees(task *models.Task, assigneeIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", task.ID).
			Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return createAssignments(tx, task.ID, assigneeIDs)
	})
}

// Delete removes the task's assignment rows and then the task
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).
			Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
}

func createAssignments(tx *gorm.DB, taskID string, assigneeIDs []string) error {
	if len(assigneeIDs) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(assigneeIDs))
	for i, userID := range assigneeIDs {
		assignments[i] = models.TaskAssignment{
			TaskID: taskID,
			UserID: userID,
		}
	}

	return tx.Create(&assignments).Error
}
