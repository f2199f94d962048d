package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is the lifetime of an ephemeral session
	SessionDuration = 24 * time.Hour
	// RememberedSessionDuration is the lifetime of a remember-me session
	RememberedSessionDuration = 30 * 24 * time.Hour
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionKeyPrefix is the Redis key prefix for user->session mapping
	UserSessionKeyPrefix = "user_session:"
)

// SessionService binds opaque session tokens to user IDs in Redis. Only the
// user ID is stored; the user record is re-resolved on every request so the
// session never holds a stale snapshot.
type SessionService struct {
	client *redis.Client
}

func NewSessionService(client *redis.Client) *SessionService {
	return &SessionService{client: client}
}

// Create creates a new session for a user and stores it in Redis.
// If the user already has a session, the old one is invalidated so the
// expiry timer resets from the current login.
// Returns the session token.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID, remember bool) (string, error) {
	// Invalidate any existing session for this user
	s.InvalidateUserSessions(ctx, userID)

	// Generate secure session token
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	sessionToken := base64.URLEncoding.EncodeToString(tokenBytes)

	duration := SessionDuration
	if remember {
		duration = RememberedSessionDuration
	}

	sessionKey := SessionKeyPrefix + sessionToken
	userSessionKey := UserSessionKeyPrefix + userID.String()

	if err := s.client.Set(ctx, sessionKey, userID.String(), duration).Err(); err != nil {
		return "", err
	}

	// Store user->session mapping
	if err := s.client.Set(ctx, userSessionKey, sessionToken, duration).Err(); err != nil {
		return "", err
	}

	return sessionToken, nil
}

// Validate checks if a session token is valid and returns the user ID.
func (s *SessionService) Validate(ctx context.Context, sessionToken string) (uuid.UUID, bool, error) {
	if sessionToken == "" {
		return uuid.Nil, false, nil
	}

	sessionKey := SessionKeyPrefix + sessionToken

	userIDStr, err := s.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}

	return userID, true, nil
}

// Invalidate removes a session from Redis (logout).
func (s *SessionService) Invalidate(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	sessionKey := SessionKeyPrefix + sessionToken

	// Get user ID before deleting
	userIDStr, err := s.client.Get(ctx, sessionKey).Result()
	if err == nil && userIDStr != "" {
		userSessionKey := UserSessionKeyPrefix + userIDStr
		s.client.Del(ctx, userSessionKey)
	}

	return s.client.Del(ctx, sessionKey).Err()
}

// InvalidateUserSessions invalidates all sessions for a user (used when the
// password changes or is reset).
func (s *SessionService) InvalidateUserSessions(ctx context.Context, userID uuid.UUID) error {
	userSessionKey := UserSessionKeyPrefix + userID.String()

	// Get current session token
	sessionToken, err := s.client.Get(ctx, userSessionKey).Result()
	if err == nil && sessionToken != "" {
		sessionKey := SessionKeyPrefix + sessionToken
		s.client.Del(ctx, sessionKey)
	}

	return s.client.Del(ctx, userSessionKey).Err()
}

// Refresh extends the session expiration. Called on login from an existing
// session so the timer resets.
func (s *SessionService) Refresh(ctx context.Context, sessionToken string, remember bool) error {
	if sessionToken == "" {
		return fmt.Errorf("session token is empty")
	}

	duration := SessionDuration
	if remember {
		duration = RememberedSessionDuration
	}

	sessionKey := SessionKeyPrefix + sessionToken

	userIDStr, err := s.client.Get(ctx, sessionKey).Result()
	if err != nil {
		return err
	}

	userSessionKey := UserSessionKeyPrefix + userIDStr

	if err := s.client.Expire(ctx, sessionKey, duration).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, userSessionKey, duration).Err()
}
