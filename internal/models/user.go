package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID       uuid.UUID `json:"_id" gorm:"primaryKey;type:uuid"`
	Email    string    `json:"email" gorm:"unique;not null"`
	Password string    `json:"-" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the projection returned by the users listing. The
// password column is never part of the SELECT, not stripped afterwards.
type UserSummary struct {
	ID    uuid.UUID `json:"_id"`
	Email string    `json:"email"`
}
