package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Task struct {
	ID      uuid.UUID `json:"_id" gorm:"primaryKey;type:uuid"`
	Title   string    `json:"title" gorm:"not null"`
	UserID  uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	BoardID uuid.UUID `json:"boardId" gorm:"type:uuid;not null;index"`
	ListID  uuid.UUID `json:"listId" gorm:"type:uuid;not null;index"`

	Description string     `json:"description" gorm:"default:''"`
	DueDate     *time.Time `json:"dueDate"`
	Labels      []string   `json:"labels" gorm:"serializer:json"`
	AssignedTo  *uuid.UUID `json:"assignedTo" gorm:"type:uuid;index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AssignedTask is a task enriched with its current board and list
// titles, resolved at read time for the "my assigned tasks" view.
type AssignedTask struct {
	Task
	BoardTitle string `json:"boardTitle"`
	ListTitle  string `json:"listTitle"`
}
