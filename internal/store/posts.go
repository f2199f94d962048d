package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roomly/roomly-backend/internal/models"
	"github.com/roomly/roomly-backend/pkg/utils"
)

const postColumns = "p.id, p.created_at, p.name, p.email, p.gender, p.body, p.user_id, u.username"

// PostStore owns roommate posts: creation, ownership checks and recency-ordered
// pagination.
type PostStore struct {
	db *sql.DB
}

func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// Create inserts a new post for a confirmed author.
func (s *PostStore) Create(ctx context.Context, author *models.User, name, email, gender, body string) (*models.Post, error) {
	if !author.Confirmed {
		return nil, models.ErrNotConfirmed
	}
	if err := validatePostFields(name, email, gender, body); err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Name:      strings.TrimSpace(name),
		Email:     utils.NormalizeEmail(email),
		Gender:    strings.TrimSpace(gender),
		Body:      body,
		UserID:    author.ID,
		Author:    author.Username,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, created_at, name, email, gender, body, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, post.ID, post.CreatedAt, post.Name, post.Email, post.Gender, post.Body, post.UserID)
	if err != nil {
		return nil, err
	}

	return post, nil
}

// ListPage returns one page of posts ordered by newest first. Pages are
// 1-indexed; a page number below 1 is treated as 1, and a page past the last
// one comes back empty with HasNext=false rather than as an error.
func (s *PostStore) ListPage(ctx context.Context, page, size int) (*models.PostPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	// Fetch one extra row to know whether a next page exists.
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC, p.id
		LIMIT $1 OFFSET $2
	`, size+1, (page-1)*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}

	hasNext := len(items) > size
	if hasNext {
		items = items[:size]
	}

	return &models.PostPage{
		Items:   items,
		Page:    page,
		HasNext: hasNext,
		HasPrev: page > 1,
	}, nil
}

// ListByAuthor returns all posts owned by the given user, newest first.
func (s *PostStore) ListByAuthor(ctx context.Context, userID uuid.UUID) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

// Search finds posts by gender when the query is "Male" or "Female", otherwise
// by exact display name.
func (s *PostStore) Search(ctx context.Context, query string) ([]models.Post, error) {
	query = strings.TrimSpace(query)

	column := "p.name"
	if query == "Male" || query == "Female" {
		column = "p.gender"
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE `+column+` = $1
		ORDER BY p.created_at DESC, p.id
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (s *PostStore) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var p models.Post
	err := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`, id).Scan(&p.ID, &p.CreatedAt, &p.Name, &p.Email, &p.Gender, &p.Body, &p.UserID, &p.Author)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update edits a post. Only the owning user may edit; anyone else gets
// ErrNotOwner and the post is left unchanged.
func (s *PostStore) Update(ctx context.Context, postID, editorID uuid.UUID, fields models.PostFields) error {
	if err := validatePostFields(fields.Name, fields.Email, fields.Gender, fields.Body); err != nil {
		return err
	}

	if err := s.checkOwner(ctx, postID, editorID); err != nil {
		return err
	}

	// The WHERE clause re-checks ownership so a concurrent change can't
	// slip an update past the check above.
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET name = $1, email = $2, gender = $3, body = $4
		WHERE id = $5 AND user_id = $6
	`, strings.TrimSpace(fields.Name), utils.NormalizeEmail(fields.Email), strings.TrimSpace(fields.Gender), fields.Body, postID, editorID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a post. Same ownership rule as Update.
func (s *PostStore) Delete(ctx context.Context, postID, editorID uuid.UUID) error {
	if err := s.checkOwner(ctx, postID, editorID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND user_id = $2`, postID, editorID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PostStore) checkOwner(ctx context.Context, postID, editorID uuid.UUID) error {
	var ownerID uuid.UUID
	err := s.db.QueryRowContext(ctx, `SELECT user_id FROM posts WHERE id = $1`, postID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrNotFound
		}
		return err
	}
	if ownerID != editorID {
		return models.ErrNotOwner
	}
	return nil
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	items := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.Name, &p.Email, &p.Gender, &p.Body, &p.UserID, &p.Author); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func validatePostFields(name, email, gender, body string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > utils.MaxPostNameLength {
		return &utils.ValidationError{Field: "name", Message: "Name is required and must be at most 40 characters"}
	}
	if len(email) > utils.MaxPostEmailLength {
		return &utils.ValidationError{Field: "email", Message: "Contact email must be at most 40 characters"}
	}
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}
	if strings.TrimSpace(gender) == "" {
		return &utils.ValidationError{Field: "gender", Message: "Gender is required"}
	}
	if strings.TrimSpace(body) == "" || len(body) > utils.MaxPostBodyLength {
		return &utils.ValidationError{Field: "body", Message: "Body is required and must be at most 240 characters"}
	}
	return nil
}
