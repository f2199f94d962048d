package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinUsernameLength  = 3
	MaxUsernameLength  = 64
	MinPasswordLength  = 8
	MaxEmailLength     = 120
	MaxAboutMeLength   = 140
	MaxPostNameLength  = 40
	MaxPostEmailLength = 40
	MaxPostBodyLength  = 240
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateUsername validates username format
// Rules: 3-64 characters, letters, numbers, underscores only
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	if len(username) < MinUsernameLength {
		return &ValidationError{Field: "username", Message: "Username must be at least 3 characters"}
	}

	if len(username) > MaxUsernameLength {
		return &ValidationError{Field: "username", Message: "Username must be at most 64 characters"}
	}

	if !usernameRegex.MatchString(username) {
		return &ValidationError{Field: "username", Message: "Username can only contain letters, numbers, and underscores"}
	}

	// Must start with a letter or number (not underscore)
	if !(unicode.IsLetter(rune(username[0])) || unicode.IsNumber(rune(username[0]))) {
		return &ValidationError{Field: "username", Message: "Username must start with a letter or number"}
	}

	return nil
}

// ValidateEmail validates email format and length
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)

	if email == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}

	if len(email) > MaxEmailLength {
		return &ValidationError{Field: "email", Message: "Email must be at most 120 characters"}
	}

	if !emailRegex.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Invalid email address"}
	}

	return nil
}

// ValidatePassword enforces the minimum password length
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}
	return nil
}

// ValidateAboutMe bounds the profile blurb
func ValidateAboutMe(aboutMe string) error {
	if utf8.RuneCountInString(aboutMe) > MaxAboutMeLength {
		return &ValidationError{Field: "about_me", Message: "About me must be at most 140 characters"}
	}
	return nil
}

// NormalizeUsername converts username to lowercase for lookups
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NormalizeEmail converts email to lowercase for storage and lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
