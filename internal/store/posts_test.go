package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/roomly/roomly-backend/internal/models"
	"github.com/roomly/roomly-backend/pkg/utils"
)

func postRows(posts ...models.Post) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "created_at", "name", "email", "gender", "body", "user_id", "username"})
	for _, p := range posts {
		rows.AddRow(p.ID, p.CreatedAt, p.Name, p.Email, p.Gender, p.Body, p.UserID, p.Author)
	}
	return rows
}

func somePost(author string) models.Post {
	return models.Post{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Name:      "Sam",
		Email:     "sam@x.com",
		Gender:    "Male",
		Body:      "looking for a room",
		UserID:    uuid.New(),
		Author:    author,
	}
}

func TestPostStoreCreate_UnconfirmedAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStore(db)

	author := &models.User{ID: uuid.New(), Username: "bob", Confirmed: false}

	_, err := s.Create(context.Background(), author, "Bob", "bob@x.com", "Male", "hello")
	if !errors.Is(err, models.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	// No statement may reach the database.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostStoreCreate_Confirmed(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStore(db)

	author := &models.User{ID: uuid.New(), Username: "alice", Confirmed: true}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO posts")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	post, err := s.Create(context.Background(), author, "Alice", "alice@x.com", "Female", "hello")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if post.UserID != author.ID {
		t.Fatal("post must reference its author")
	}
	if post.Body != "hello" {
		t.Fatalf("body: got %q", post.Body)
	}
}

func TestPostStoreCreate_ContactEmailTooLong(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStore(db)

	author := &models.User{ID: uuid.New(), Username: "alice", Confirmed: true}

	// 41 characters is within the user-email bound but over the post bound.
	email := strings.Repeat("a", 35) + "@x.com"

	_, err := s.Create(context.Background(), author, "Alice", email, "Female", "hello")
	var vErr *utils.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Field != "email" {
		t.Fatalf("field: got %q want %q", vErr.Field, "email")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostStoreListPage_HasNext(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStore(db)

	// One extra row is fetched to detect the next page.
	mock.ExpectQuery(regexp.QuoteMeta("FROM posts p")).
		WithArgs(3, 0).
		WillReturnRows(postRows(somePost("a"), somePost("b"), somePost("c")))

	page, err := s.ListPage(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("ListPage error: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items: got %d want 2", len(page.Items))
	}
	if !page.HasNext {
		t.Fatal("expected HasNext")
	}
	if page.HasPrev {
		t.Fatal("page 1 must not have HasPrev")
	}
}

func TestPostStoreListPage_BeyondLastIsEmptyNotError(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM posts p")).
		WithArgs(3, 8).
		WillReturnRows(postRows())

	page, err := s.ListPage(context.Background(), 5, 2)
	if err != nil {
		t.Fatalf("ListPage error: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("items: got %d want 0", len(page.Items))
	}
	if page.HasNext {
		t.Fatal("beyond-last page must not have HasNext")
	}
	if !page.HasPrev {
		t.Fatal("page 5 must report HasPrev")
	}
}

func TestPostStoreListPage_PageBelowOneTreatedAsOne(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM posts p")).
		WithArgs(4, 0).
		WillReturnRows(postRows(somePost("a")))

	page, err := s.ListPage(context.Background(), 0, 3)
	if err != nil {
		t.Fatalf("ListPage error: %v", err)
	}
	if page.Page != 1 {
		t.Fatalf("page: got %d want 1", page.Page)
	}
}

func TestPostStoreUpdate_NotOwner(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStore(db)

	postID := uuid.New()
	owner := uuid.New()
	intruder := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM posts WHERE id")).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(owner))

	err := s.Update(context.Background(), postID, intruder, models.PostFields{
		Name: "Sam", Email: "sam@x.com", Gender: "Male", Body: "hijacked",
	})
	if !errors.Is(err, models.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	// The UPDATE must never run for a non-owner.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostStoreUpdate_Owner(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStore(db)

	postID := uuid.New()
	owner := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM posts WHERE id")).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(owner))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE posts SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Update(context.Background(), postID, owner, models.PostFields{
		Name: "Sam", Email: "sam@x.com", Gender: "Male", Body: "updated body",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestPostStoreDelete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStore(db)

	postID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM posts WHERE id")).
		WithArgs(postID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	if err := s.Delete(context.Background(), postID, uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostStoreSearch_GenderVsName(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.gender =")).
		WithArgs("Male").
		WillReturnRows(postRows(somePost("a")))

	results, err := s.Search(context.Background(), "Male")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results: got %d want 1", len(results))
	}

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.name =")).
		WithArgs("Sam").
		WillReturnRows(postRows())

	if _, err := s.Search(context.Background(), "Sam"); err != nil {
		t.Fatalf("Search error: %v", err)
	}
}
