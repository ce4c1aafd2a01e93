package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamMessage is a chat message posted to a team channel. Messages are
// immutable once created; there is no edit or delete path.
type TeamMessage struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	TeamID    string    `gorm:"type:varchar(36);not null;index" json:"team_id"`
	UserID    string    `gorm:"type:varchar(36);not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (m *TeamMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
