package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roomly/roomly-backend/internal/models"
)

// Token purposes. A token is only redeemable at the endpoint that asks for
// the purpose it was issued with.
const (
	PurposeResetPassword = "reset_password"
	PurposeConfirmEmail  = "confirm_email"
)

// accountClaims carries the registered claims plus the purpose discriminant.
type accountClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
}

// TokenService issues and verifies signed, time-limited, stateless tokens for
// account-lifecycle flows. There is no server-side store of issued tokens;
// redemption side effects (confirmed := true, password hash replaced) are what
// make replays harmless.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue produces a signed token embedding the purpose, the subject (user id
// for password resets, email for confirmations) and an absolute expiry.
func (s *TokenService) Issue(purpose, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accountClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
	})

	return token.SignedString(s.secret)
}

// Verify checks the signature, expiry and purpose of a token and returns its
// subject. The purpose check means a reset token can never be redeemed as a
// confirmation token or vice versa.
func (s *TokenService) Verify(purpose, tokenString string) (string, error) {
	claims := &accountClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", models.ErrTokenExpired
		}
		return "", models.ErrTokenInvalid
	}
	if !token.Valid {
		return "", models.ErrTokenInvalid
	}

	if claims.Purpose != purpose {
		return "", models.ErrTokenWrongPurpose
	}

	return claims.Subject, nil
}
