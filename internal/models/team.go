package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Team struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"type:varchar(50);not null;default:'purple'" json:"color"`
	CreatedByID string    `gorm:"type:varchar(36)" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	CreatedBy *User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Members   []TeamMember  `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Projects  []Project     `gorm:"foreignKey:TeamID" json:"projects,omitempty"`
	Messages  []TeamMessage `gorm:"foreignKey:TeamID" json:"-"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
