package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name   string `json:"name"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	Body   string `json:"body"`

	UserID uuid.UUID `json:"user_id"`
	Author string    `json:"author,omitempty"` // Username of the owner (from JOIN)
}

// PostFields carries the editable fields of a post.
type PostFields struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	Body   string `json:"body"`
}

// PostPage is one page of posts ordered by newest first.
// Pages are 1-indexed; a page past the end is empty with HasNext=false.
type PostPage struct {
	Items   []Post `json:"items"`
	Page    int    `json:"page"`
	HasNext bool   `json:"has_next"`
	HasPrev bool   `json:"has_prev"`
}
