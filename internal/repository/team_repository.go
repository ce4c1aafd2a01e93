package repository

import (
	"github.com/projectflow/projectflow-api/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// CreateWithMembers creates a team and its member rows atomically
func (r *GormTeamRepository) CreateWithMembers(team *models.Team, members []models.TeamMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}

		for i := range members {
			members[i].TeamID = team.ID
		}
		if len(members) > 0 {
			if err := tx.Create(&members).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID finds a team by ID
func (r *GormTeamRepository) FindByID(id string) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByIDWithMembers finds a team with members and their users preloaded
func (r *GormTeamRepository) FindByIDWithMembers(id string) (*models.Team, error) {
	var team models.Team
	if err := r.db.
		Preload("Members").
		Preload("Members.User").
		First(&team, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// List returns all teams with members, newest first
func (r *GormTeamRepository) List() ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.
		Preload("Members").
		Preload("Members.User").
		Order("created_at DESC").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// FindMember finds a specific team member
func (r *GormTeamRepository) FindMember(teamID, userID string) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}
