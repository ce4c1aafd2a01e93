package repository

import (
	"github.com/projectflow/projectflow-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// First returns any existing project, or gorm.ErrRecordNotFound
func (r *GormProjectRepository) First() (*models.Project, error) {
	var project models.Project
	if err := r.db.Order("created_at ASC").First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateWithTeam creates a team and a project belonging to it atomically
func (r *GormProjectRepository) CreateWithTeam(team *models.Team, project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		project.TeamID = team.ID
		return tx.Create(project).Error
	})
}
