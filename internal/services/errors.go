package services

import "errors"

// Sentinel errors shared by the service layer. Absence of an entity is
// reported as gorm.ErrRecordNotFound so handlers have a single check
// for 404s.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotOwner           = errors.New("requester does not own this board")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
