package dto

import (
	"time"

	"github.com/projectflow/projectflow-api/internal/models"
)

// UserDTO represents a user embedded in other resources
type UserDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
}

// UserAccountDTO represents a user in the account listing
type UserAccountDTO struct {
	UserDTO
	Role      models.UserRole `json:"role"`
	SubjectID string          `json:"subject_id"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
	}
}

// ToUserAccountDTO converts a User model to UserAccountDTO
func ToUserAccountDTO(user models.User) UserAccountDTO {
	return UserAccountDTO{
		UserDTO:   ToUserDTO(user),
		Role:      user.Role,
		SubjectID: user.SubjectID,
	}
}

// ToUserAccountDTOs converts a slice of users
func ToUserAccountDTOs(users []models.User) []UserAccountDTO {
	out := make([]UserAccountDTO, len(users))
	for i, user := range users {
		out[i] = ToUserAccountDTO(user)
	}
	return out
}

// TeamMemberDTO represents a member in a team
type TeamMemberDTO struct {
	User TeamMemberUserDTO `json:"user"`
	Role models.TeamRole   `json:"role"`
}

// TeamMemberUserDTO is the trimmed user shape inside team payloads
type TeamMemberUserDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	CreatedByID string          `json:"created_by_id"`
	CreatedAt   time.Time       `json:"created_at"`
	Members     []TeamMemberDTO `json:"members"`
	MemberCount int             `json:"member_count"`
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team) TeamDTO {
	members := make([]TeamMemberDTO, len(team.Members))
	for i, member := range team.Members {
		members[i] = TeamMemberDTO{
			User: TeamMemberUserDTO{
				ID:             member.User.ID,
				Name:           member.User.Name,
				Email:          member.User.Email,
				ProfilePicture: member.User.ProfilePicture,
			},
			Role: member.Role,
		}
	}

	return TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		Color:       team.Color,
		CreatedByID: team.CreatedByID,
		CreatedAt:   team.CreatedAt,
		Members:     members,
		MemberCount: len(members),
	}
}

// ToTeamDTOs converts a slice of teams
func ToTeamDTOs(teams []models.Team) []TeamDTO {
	out := make([]TeamDTO, len(teams))
	for i, team := range teams {
		out[i] = ToTeamDTO(team)
	}
	return out
}

// MessageDTO represents a team chat message in API responses
type MessageDTO struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	TeamID    string    `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
	User      UserDTO   `json:"user"`
}

// ToMessageDTO converts a TeamMessage model to MessageDTO
func ToMessageDTO(message models.TeamMessage) MessageDTO {
	return MessageDTO{
		ID:        message.ID,
		Content:   message.Content,
		TeamID:    message.TeamID,
		CreatedAt: message.CreatedAt,
		User:      ToUserDTO(message.User),
	}
}

// ToMessageDTOs converts a slice of messages
func ToMessageDTOs(messages []models.TeamMessage) []MessageDTO {
	out := make([]MessageDTO, len(messages))
	for i, message := range messages {
		out[i] = ToMessageDTO(message)
	}
	return out
}
