package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the progress of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid checks if a status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority represents how urgent a task is
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid checks if a priority is valid
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one user. The owner reference
// never changes after creation.
type Task struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID     uuid.UUID    `json:"ownerId" gorm:"type:uuid;not null;index"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(10);not null;default:'medium'"`
	DueDate     *time.Time   `json:"dueDate"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Relations
	Owner *User `json:"-" gorm:"foreignKey:OwnerID"`
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "tasks"
}
