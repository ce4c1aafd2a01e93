package repository

import (
	"github.com/projectflow/projectflow-api/internal/models"
	"gorm.io/gorm"
)

// GormMessageRepository is a GORM implementation of MessageRepository
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

// Create persists a message
func (r *GormMessageRepository) Create(message *models.TeamMessage) error {
	return r.db.Create(message).Error
}

// FindByID finds a message with its author preloaded
func (r *GormMessageRepository) FindByID(id string) (*models.TeamMessage, error) {
	var message models.TeamMessage
	if err := r.db.Preload("User").First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// ListByTeam returns up to limit messages for the team, oldest first
func (r *GormMessageRepository) ListByTeam(teamID string, limit int) ([]models.TeamMessage, error) {
	var messages []models.TeamMessage
	if err := r.db.
		Preload("User").
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
