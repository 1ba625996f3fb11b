package models

import (
	"time"
)

type TodoStatus string

const (
	TodoStatusPending   TodoStatus = "pending"
	TodoStatusCompleted TodoStatus = "completed"
)

type TodoPriority string

const (
	TodoPriorityLow    TodoPriority = "low"
	TodoPriorityMedium TodoPriority = "medium"
	TodoPriorityHigh   TodoPriority = "high"
)

type Todo struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TodoStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority    TodoPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate     *time.Time   `json:"dueDate"`
	UserID      uint64       `gorm:"not null;index" json:"userId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// ValidStatus reports whether s is a known todo status.
func ValidStatus(s TodoStatus) bool {
	return s == TodoStatusPending || s == TodoStatusCompleted
}

// ValidPriority reports whether p is a known todo priority.
func ValidPriority(p TodoPriority) bool {
	return p == TodoPriorityLow || p == TodoPriorityMedium || p == TodoPriorityHigh
}
