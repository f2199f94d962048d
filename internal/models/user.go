package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Don't return password hash in JSON
	AboutMe      string    `json:"about_me,omitempty"`
	LastSeen     time.Time `json:"last_seen"`
	Confirmed    bool      `json:"confirmed"`
}
