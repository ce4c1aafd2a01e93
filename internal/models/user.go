package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMember UserRole = "MEMBER"
	RoleAdmin  UserRole = "ADMIN"
)

type User struct {
	ID             string    `gorm:"type:varchar(36);primarykey" json:"id"`
	SubjectID      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"subject_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Email          string    `gorm:"type:varchar(255);not null" json:"email"`
	ProfilePicture string    `gorm:"type:varchar(512)" json:"profile_picture"`
	Role           UserRole  `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	CreatedTasks []Task           `gorm:"foreignKey:CreatorID" json:"-"`
	Assignments  []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
	Teams        []TeamMember     `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsAdmin reports whether the user carries the global ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
