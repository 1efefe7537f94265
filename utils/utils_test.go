package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRateLimitKey(t *testing.T) {
	key := GenerateRateLimitKey("user-1", "/api/v1/teams")
	assert.Equal(t, "rl:user-1:/api/v1/teams", key)
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 42, ParseInt("42", 0))
	assert.Equal(t, 7, ParseInt("", 7))
	assert.Equal(t, 7, ParseInt("abc", 7))
	assert.Equal(t, -3, ParseInt("-3", 0))
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=2"`
	}

	assert.NoError(t, ValidateStruct(payload{Email: "a@b.com", Name: "Jo"}))

	err := ValidateStruct(payload{Email: "not-an-email", Name: ""})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "name is required")
}
