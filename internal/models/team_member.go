package models

import "time"

type TeamRole string

const (
	TeamRoleMember TeamRole = "MEMBER"
	TeamRoleLead   TeamRole = "LEAD"
)

type TeamMember struct {
	TeamID    string    `gorm:"type:varchar(36);primarykey" json:"team_id"`
	UserID    string    `gorm:"type:varchar(36);primarykey" json:"user_id"`
	Role      TeamRole  `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
