package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

type contextKey string

const userIDKey contextKey = "user_id"

// SessionValidator resolves a session token to a user ID.
type SessionValidator interface {
	Validate(ctx context.Context, sessionToken string) (uuid.UUID, bool, error)
}

// LastSeenToucher updates the last-seen timestamp of a user.
type LastSeenToucher interface {
	TouchLastSeen(ctx context.Context, userID uuid.UUID) error
}

// Auth gates protected routes on a valid session.
type Auth struct {
	sessions SessionValidator
	users    LastSeenToucher
}

func NewAuth(sessions SessionValidator, users LastSeenToucher) *Auth {
	return &Auth{sessions: sessions, users: users}
}

// RequireAuth rejects requests without a bound user. The rejection carries a
// login redirect that preserves the originally requested path in "next".
// On success the user ID is placed on the request context and the user's
// last-seen timestamp is touched without blocking the request.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r)

		userID, ok, err := a.sessions.Validate(r.Context(), token)
		if err != nil || !ok {
			redirect := "/login?next=" + url.QueryEscape(SafeNextPath(r.URL.RequestURI()))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success":  false,
				"message":  "Authentication required",
				"redirect": redirect,
			})
			return
		}

		// Fire-and-forget: a failed touch must not fail the request.
		go a.users.TouchLastSeen(context.Background(), userID)

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user's ID from the request context.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// SessionToken extracts the session token from the cookie, falling back to a
// bearer Authorization header for non-browser clients.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// SafeNextPath validates a post-login destination. Only same-origin relative
// paths survive; anything carrying a scheme, a host, a protocol-relative
// prefix or backslash trickery falls back to "/".
func SafeNextPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return "/"
	}
	if strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}

	return next
}
