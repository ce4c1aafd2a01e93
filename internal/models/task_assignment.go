package models

import "time"

// TaskAssignment links a task to an assigned user. The whole set is
// replaced on every task update, so rows here carry no state of their own.
type TaskAssignment struct {
	TaskID    string    `gorm:"type:varchar(36);primarykey" json:"task_id"`
	UserID    string    `gorm:"type:varchar(36);primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
