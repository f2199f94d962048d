package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "alice", false},
		{"valid with digits and underscore", "alice_42", false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 65), true},
		{"illegal characters", "alice!", true},
		{"leading underscore", "_alice", true},
		{"spaces trimmed", "  alice  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@x.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b@c.com"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 115)+"@x.com"))
}

func TestValidateAboutMe(t *testing.T) {
	assert.NoError(t, ValidateAboutMe(""))
	assert.NoError(t, ValidateAboutMe(strings.Repeat("x", 140)))
	assert.Error(t, ValidateAboutMe(strings.Repeat("x", 141)))
}

func TestValidationErrorCarriesField(t *testing.T) {
	err := ValidateEmail("nope")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Field)
}
