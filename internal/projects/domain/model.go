package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("project not found")
	ErrInvalidName = errors.New("project name required")
)

// Project groups a user's blueprint files.
type Project struct {
	PublicID  string    `json:"public_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
