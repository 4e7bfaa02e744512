package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "AVeryStr0ngPassword!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword1!", hash)
	req.NoError(err)
	req.False(match)
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{"Alice", "test@example.com", "ComplexPass123!"}, false},
		{"Missing name", RegisterRequest{"", "test@example.com", "ComplexPass123!"}, true},
		{"Invalid email", RegisterRequest{"Alice", "notanemail", "ComplexPass123!"}, true},
		{"Password too short", RegisterRequest{"Alice", "test@example.com", "Short1!"}, true},
		{"Missing digit", RegisterRequest{"Alice", "test@example.com", "NoDigitPassword!"}, true},
		{"Missing special char", RegisterRequest{"Alice", "test@example.com", "NoSpecialChar123"}, true},
		{"Missing uppercase", RegisterRequest{"Alice", "test@example.com", "nouppercase123!"}, true},
		{"Password too long (edge case)", RegisterRequest{"Alice", "test@example.com", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("alice@example.com", "Alice", time.Hour)
	req.NoError(err)

	claims, err := ValidateToken(token)
	req.NoError(err)
	req.Equal("alice@example.com", claims.UserID)
	req.Equal("Alice", claims.Name)
}

func TestExpiredTokenRejected(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("alice@example.com", "Alice", -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token)
	req.Error(err)
}
