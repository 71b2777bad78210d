package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// DefaultBoardColor is applied when a board is created without an
// explicit background color.
const DefaultBoardColor = "#0079BF"

type Board struct {
	ID              uuid.UUID `json:"_id" gorm:"primaryKey;type:uuid"`
	Title           string    `json:"title" gorm:"not null"`
	UserID          uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	BackgroundColor string    `json:"backgroundColor" gorm:"not null;default:'#0079BF'"`
	IsStarred       bool      `json:"isStarred" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BoardAggregate is the nested read view of a board: the board's own
// fields plus its lists and each list's tasks. Lists and tasks are
// resolved by back-reference lookup at read time, never stored on the
// parent.
type BoardAggregate struct {
	Board
	Lists []ListWithTasks `json:"lists"`
}

type ListWithTasks struct {
	List
	Tasks []Task `json:"tasks"`
}
