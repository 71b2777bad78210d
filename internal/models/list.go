package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type List struct {
	ID      uuid.UUID `json:"_id" gorm:"primaryKey;type:uuid"`
	Title   string    `json:"title" gorm:"not null"`
	UserID  uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	BoardID uuid.UUID `json:"boardId" gorm:"type:uuid;not null;index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
