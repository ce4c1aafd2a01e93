package repository

import (
	"github.com/projectflow/projectflow-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// FindByID finds a user by local ID
	FindByID(id string) (*models.User, error)

	// FindBySubjectID finds a user by identity-provider subject
	FindBySubjectID(subjectID string) (*models.User, error)

	// UpsertBySubject inserts the user unless a row with the same subject
	// already exists, then returns the authoritative row. Safe under
	// concurrent first requests from the same identity.
	UpsertBySubject(user *models.User) (*models.User, error)

	// List returns all users ordered by name
	List() ([]models.User, error)

	// CountByIDs counts how many of the given user IDs exist
	CountByIDs(ids []string) (int64, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// CreateWithMembers creates a team and its member rows atomically
	CreateWithMembers(team *models.Team, members []models.TeamMember) error

	// FindByID finds a team by ID
	FindByID(id string) (*models.Team, error)

	// FindByIDWithMembers finds a team with members and their users preloaded
	FindByIDWithMembers(id string) (*models.Team, error)

	// List returns all teams with members, newest first
	List() ([]models.Team, error)

	// FindMember finds a specific team member
	FindMember(teamID, userID string) (*models.TeamMember, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// First returns any existing project, or gorm.ErrRecordNotFound
	First() (*models.Project, error)

	// CreateWithTeam creates a team and a project belonging to it atomically
	CreateWithTeam(team *models.Team, project *models.Project) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CreateWithAssignees creates a task and its assignment rows atomically
	CreateWithAssignees(task *models.Task, assigneeIDs []string) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Task, error)

	// List returns all tasks with assignees and creator
	List() ([]models.Task, error)

	// UpdateWithAssignees saves the task and replaces the entire assignment
	// set with assigneeIDs (delete-then-recreate, last writer wins)
	UpdateWithAssignees(task *models.Task, assigneeIDs []string) error

	// Delete removes the task's assignment rows and then the task
	Delete(id string) error
}

// MessageRepository defines the interface for team chat data access
type MessageRepository interface {
	// Create persists a message
	Create(message *models.TeamMessage) error

	// FindByID finds a message with its author preloaded
	FindByID(id string) (*models.TeamMessage, error)

	// ListByTeam returns up to limit messages for the team, oldest first
	ListByTeam(teamID string, limit int) ([]models.TeamMessage, error)
}
