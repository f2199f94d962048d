package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	userID uuid.UUID
	valid  bool
}

func (f *fakeSessions) Validate(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if token == "" || !f.valid {
		return uuid.Nil, false, nil
	}
	return f.userID, true, nil
}

type fakeToucher struct {
	mu      sync.Mutex
	touched []uuid.UUID
}

func (f *fakeToucher) TouchLastSeen(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, userID)
	return nil
}

func TestSafeNextPath(t *testing.T) {
	tests := []struct {
		name string
		next string
		want string
	}{
		{"empty", "", "/"},
		{"relative path", "/make_posts", "/make_posts"},
		{"path with query", "/posts?page=2", "/posts?page=2"},
		{"absolute url", "http://evil.com/", "/"},
		{"https url", "https://evil.com/login", "/"},
		{"protocol relative", "//evil.com", "/"},
		{"backslash trick", "/\\evil.com", "/"},
		{"no leading slash", "make_posts", "/"},
		{"scheme without slashes", "javascript:alert(1)", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeNextPath(tt.next))
		})
	}
}

func TestRequireAuth_Unauthenticated(t *testing.T) {
	auth := NewAuth(&fakeSessions{valid: false}, &fakeToucher{})

	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts?page=2", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	// The originally requested destination must survive the login redirect.
	assert.Equal(t, "/login?next=%2Fapi%2Fposts%3Fpage%3D2", body["redirect"])
}

func TestRequireAuth_ValidSession(t *testing.T) {
	userID := uuid.New()
	toucher := &fakeToucher{}
	auth := NewAuth(&fakeSessions{userID: userID, valid: true}, toucher)

	var gotID uuid.UUID
	var gotOK bool
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotOK)
	assert.Equal(t, userID, gotID)

	// The last-seen touch runs off the request goroutine.
	assert.Eventually(t, func() bool {
		toucher.mu.Lock()
		defer toucher.mu.Unlock()
		return len(toucher.touched) == 1 && toucher.touched[0] == userID
	}, time.Second, 10*time.Millisecond)
}

func TestSessionToken_BearerFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", SessionToken(req))

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	req2.Header.Set("Authorization", "Bearer header-token")
	// Cookie wins over the header.
	assert.Equal(t, "cookie-token", SessionToken(req2))
}
