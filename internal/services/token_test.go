package services

import (
	"errors"
	"testing"
	"time"

	"github.com/roomly/roomly-backend/internal/models"
)

func TestTokenIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret")

	tok, err := svc.Issue(PurposeResetPassword, "user-123", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	subject, err := svc.Verify(PurposeResetPassword, tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if subject != "user-123" {
		t.Fatalf("subject mismatch: got %q want %q", subject, "user-123")
	}
}

func TestTokenVerify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("secret")

	tok, err := svc.Issue(PurposeConfirmEmail, "alice@x.com", -1*time.Second)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = svc.Verify(PurposeConfirmEmail, tok)
	if !errors.Is(err, models.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenVerify_WrongPurpose(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("secret")

	resetTok, err := svc.Issue(PurposeResetPassword, "user-1", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	confirmTok, err := svc.Issue(PurposeConfirmEmail, "alice@x.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// A reset token must not redeem as a confirmation token and vice versa.
	if _, err := svc.Verify(PurposeConfirmEmail, resetTok); !errors.Is(err, models.ErrTokenWrongPurpose) {
		t.Fatalf("expected ErrTokenWrongPurpose, got %v", err)
	}
	if _, err := svc.Verify(PurposeResetPassword, confirmTok); !errors.Is(err, models.ErrTokenWrongPurpose) {
		t.Fatalf("expected ErrTokenWrongPurpose, got %v", err)
	}
}

func TestTokenVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenService("right-secret").Issue(PurposeResetPassword, "u2", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewTokenService("wrong-secret").Verify(PurposeResetPassword, tok)
	if !errors.Is(err, models.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenVerify_Tampered(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("secret")

	tok, err := svc.Issue(PurposeResetPassword, "u3", time.Hour)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	tampered := tok[:len(tok)-2] + "xx"
	if _, err := svc.Verify(PurposeResetPassword, tampered); !errors.Is(err, models.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
}

func TestTokenVerify_MalformedString(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("k")

	if _, err := svc.Verify(PurposeResetPassword, "not.a.jwt"); !errors.Is(err, models.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for malformed token, got %v", err)
	}
}
