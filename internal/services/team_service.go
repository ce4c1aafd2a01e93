package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/projectflow/projectflow-api/internal/models"
	"github.com/projectflow/projectflow-api/internal/repository"
)

var (
	ErrTeamNameRequired  = errors.New("team name is required")
	ErrInvalidTeamMember = errors.New("one or more members do not exist")
)

// TeamService handles team business logic
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// CreateTeamInput represents input for creating a team
type CreateTeamInput struct {
	Name        string
	Description string
	Color       string
	MemberIDs   []string
	CreatorID   string
}

// ListTeams returns all teams with their members, newest first
func (s *TeamService) ListTeams() ([]models.Team, error) {
	teams, err := s.teamRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// CreateTeam creates a team with the given initial members.
func (s *TeamService) CreateTeam(input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTeamNameRequired
	}

	memberIDs := dedupe(input.MemberIDs)
	if len(memberIDs) > 0 {
		count, err := s.userRepo.CountByIDs(memberIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to check members: %w", err)
		}
		if int(count) != len(memberIDs) {
			return nil, ErrInvalidTeamMember
		}
	}

	color := input.Color
	if color == "" {
		color = "purple"
	}

	team := &models.Team{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Color:       color,
		CreatedByID: input.CreatorID,
	}

	members := make([]models.TeamMember, len(memberIDs))
	for i, userID := range memberIDs {
		members[i] = models.TeamMember{
			UserID: userID,
			Role:   models.TeamRoleMember,
		}
	}

	if err := s.teamRepo.CreateWithMembers(team, members); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	loaded, err := s.teamRepo.FindByIDWithMembers(team.ID)
	if err != nil {
		return team, nil
	}
	return loaded, nil
}
