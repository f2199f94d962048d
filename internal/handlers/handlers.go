package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/roomly/roomly-backend/internal/config"
	"github.com/roomly/roomly-backend/internal/models"
	"github.com/roomly/roomly-backend/pkg/utils"
)

// UserStore is the credential store the handlers depend on.
type UserStore interface {
	Register(ctx context.Context, username, email, rawPassword string) (*models.User, error)
	Verify(ctx context.Context, username, rawPassword string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, rawPassword string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, username, aboutMe string) error
	Confirm(ctx context.Context, email string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// PostStore is the content repository the handlers depend on.
type PostStore interface {
	Create(ctx context.Context, author *models.User, name, email, gender, body string) (*models.Post, error)
	ListPage(ctx context.Context, page, size int) (*models.PostPage, error)
	ListByAuthor(ctx context.Context, userID uuid.UUID) ([]models.Post, error)
	Search(ctx context.Context, query string) ([]models.Post, error)
	Update(ctx context.Context, postID, editorID uuid.UUID, fields models.PostFields) error
	Delete(ctx context.Context, postID, editorID uuid.UUID) error
}

// Sessions binds session tokens to user IDs.
type Sessions interface {
	Create(ctx context.Context, userID uuid.UUID, remember bool) (string, error)
	Validate(ctx context.Context, sessionToken string) (uuid.UUID, bool, error)
	Refresh(ctx context.Context, sessionToken string, remember bool) error
	Invalidate(ctx context.Context, sessionToken string) error
	InvalidateUserSessions(ctx context.Context, userID uuid.UUID) error
}

// Tokens issues and verifies account-lifecycle tokens.
type Tokens interface {
	Issue(purpose, subject string, ttl time.Duration) (string, error)
	Verify(purpose, tokenString string) (string, error)
}

// Mailer delivers token-bearing links.
type Mailer interface {
	SendPasswordReset(to, token string) error
	SendEmailConfirmation(to, token string) error
}

// Handler wires the stores and services into HTTP endpoints.
type Handler struct {
	cfg      *config.Config
	users    UserStore
	posts    PostStore
	sessions Sessions
	tokens   Tokens
	mail     Mailer
}

func New(cfg *config.Config, users UserStore, posts PostStore, sessions Sessions, tokens Tokens, mail Mailer) *Handler {
	return &Handler{
		cfg:      cfg,
		users:    users,
		posts:    posts,
		sessions: sessions,
		tokens:   tokens,
		mail:     mail,
	}
}

// Response is the common JSON envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	User    interface{} `json:"user,omitempty"`
	Post    interface{} `json:"post,omitempty"`
	Token   string      `json:"token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError translates the shared error taxonomy into HTTP statuses.
// Token failures collapse into one generic message for the end user; the
// distinct sentinels stay available to callers and tests.
func respondError(w http.ResponseWriter, err error) {
	var validationErr *utils.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: validationErr.Message})
	case errors.Is(err, models.ErrDuplicateUsername), errors.Is(err, models.ErrDuplicateEmail):
		writeJSON(w, http.StatusConflict, Response{Success: false, Message: err.Error()})
	case errors.Is(err, models.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Invalid username or password"})
	case errors.Is(err, models.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Authentication required"})
	case errors.Is(err, models.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, Response{Success: false, Message: "You can only edit or delete your own posts"})
	case errors.Is(err, models.ErrNotConfirmed):
		writeJSON(w, http.StatusForbidden, Response{Success: false, Message: "Please confirm your email first"})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Response{Success: false, Message: "Not found"})
	case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenExpired), errors.Is(err, models.ErrTokenWrongPurpose):
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "This link is invalid or has expired"})
	default:
		log.Printf("ERROR: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: "Something went wrong"})
	}
}
