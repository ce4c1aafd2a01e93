package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/projectflow/projectflow-api/internal/constants"
	"github.com/projectflow/projectflow-api/internal/models"
	"github.com/projectflow/projectflow-api/internal/repository"
)

var (
	ErrTeamNotFound    = errors.New("team not found")
	ErrContentRequired = errors.New("message content is required")
)

// MessageService handles team chat business logic
type MessageService struct {
	messageRepo repository.MessageRepository
	teamRepo    repository.TeamRepository
}

// NewMessageService creates a new MessageService
func NewMessageService(messageRepo repository.MessageRepository, teamRepo repository.TeamRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		teamRepo:    teamRepo,
	}
}

// ListMessages returns the team's recent history, oldest first.
func (s *MessageService) ListMessages(teamID string) ([]models.TeamMessage, error) {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	messages, err := s.messageRepo.ListByTeam(teamID, constants.MessageHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// PostMessage stores a chat message. Content is trimmed; whitespace-only
// messages are rejected before any write happens.
func (s *MessageService) PostMessage(teamID, userID, content string) (*models.TeamMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}

	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	message := &models.TeamMessage{
		Content: content,
		TeamID:  teamID,
		UserID:  userID,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	// Reload with the author so broadcast payloads and responses match
	loaded, err := s.messageRepo.FindByID(message.ID)
	if err != nil {
		return message, nil
	}
	return loaded, nil
}
