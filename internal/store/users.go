package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/roomly/roomly-backend/internal/models"
	"github.com/roomly/roomly-backend/pkg/utils"
)

const uniqueViolation = "23505"

const userColumns = "id, created_at, username, email, password_hash, about_me, last_seen, confirmed"

// UserStore owns user identity records and password verification.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Register creates a new user with a hashed password. The password is never
// stored or logged in clear form. Uniqueness is enforced by the database
// constraints, so two concurrent registrations with the same username cannot
// both succeed; the loser gets a duplicate error.
func (s *UserStore) Register(ctx context.Context, username, email, rawPassword string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = utils.NormalizeEmail(email)

	if err := utils.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(rawPassword); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(rawPassword)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		CreatedAt:    time.Now().UTC(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		LastSeen:     time.Now().UTC(),
		Confirmed:    false,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, username, email, password_hash, about_me, last_seen, confirmed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.CreatedAt, user.Username, user.Email, user.PasswordHash, user.AboutMe, user.LastSeen, user.Confirmed)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}

	return user, nil
}

// Verify checks a username/password pair. Unknown usernames and wrong
// passwords both return ErrInvalidCredentials so the caller cannot tell
// which check failed.
func (s *UserStore) Verify(ctx context.Context, username, rawPassword string) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	valid, err := utils.VerifyPassword(rawPassword, user.PasswordHash)
	if err != nil || !valid {
		return nil, models.ErrInvalidCredentials
	}

	return user, nil
}

// UpdatePassword replaces the stored hash for an existing user.
func (s *UserStore) UpdatePassword(ctx context.Context, userID uuid.UUID, rawPassword string) error {
	if err := utils.ValidatePassword(rawPassword); err != nil {
		return err
	}

	hash, err := utils.HashPassword(rawPassword)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateProfile changes the username and/or profile blurb. A no-op rename
// (same value) succeeds; a rename onto another user's name surfaces as
// ErrDuplicateUsername via the unique constraint.
func (s *UserStore) UpdateProfile(ctx context.Context, userID uuid.UUID, username, aboutMe string) error {
	username = strings.TrimSpace(username)

	if err := utils.ValidateUsername(username); err != nil {
		return err
	}
	if err := utils.ValidateAboutMe(aboutMe); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE users SET username = $1, about_me = $2 WHERE id = $3`, username, aboutMe, userID)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return requireRow(res)
}

// Confirm marks the user with the given email as confirmed. Confirming an
// already-confirmed user is not an error, so redeeming a confirmation token
// twice is harmless.
func (s *UserStore) Confirm(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET confirmed = TRUE WHERE email = $1`, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	return requireRow(res)
}

// TouchLastSeen updates the user's last-seen timestamp. Callers treat a
// failure here as non-fatal.
func (s *UserStore) TouchLastSeen(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_seen = NOW() WHERE id = $1`, userID)
	return err
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = $1`,
		utils.NormalizeUsername(username))
	return scanUser(row)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`,
		utils.NormalizeEmail(email))
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Username, &u.Email, &u.PasswordHash, &u.AboutMe, &u.LastSeen, &u.Confirmed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// mapUniqueViolation translates a Postgres unique-constraint error into the
// matching duplicate error, so a race that slips past application-level checks
// still surfaces as a duplicate rather than a raw storage fault.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch {
		case strings.Contains(pqErr.Constraint, "email"):
			return models.ErrDuplicateEmail
		case strings.Contains(pqErr.Constraint, "username"):
			return models.ErrDuplicateUsername
		}
	}
	return err
}
