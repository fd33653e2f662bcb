package security

import (
	"testing"
	"time"
)

const testSecret = "test_secret_key_minimum_32_chars"

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		username string
	}{
		{
			name:     "Regular user",
			userID:   "0b8f0b7e-3c1c-4c38-9a57-7f6d2d0e5a11",
			username: "alice",
		},
		{
			name:     "Another user",
			userID:   "5d3c6a0e-8f5e-4a4b-a1b3-2f0f0a7b9c22",
			username: "bob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateJWT(tt.userID, tt.username, testSecret, time.Hour)
			if err != nil {
				t.Fatalf("GenerateJWT() error = %v", err)
			}

			if token == "" {
				t.Error("GenerateJWT() returned empty token")
			}

			claims, err := ValidateJWT(token, testSecret)
			if err != nil {
				t.Fatalf("ValidateJWT() error = %v", err)
			}

			if claims.UserID != tt.userID {
				t.Errorf("UserID = %q, want %q", claims.UserID, tt.userID)
			}

			if claims.Username != tt.username {
				t.Errorf("Username = %q, want %q", claims.Username, tt.username)
			}
		})
	}
}

func TestValidateToken_InvalidToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "Empty token",
			token: "",
		},
		{
			name:  "Invalid format",
			token: "invalid.token.here",
		},
		{
			name:  "Random string",
			token: "randomstring",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.token, testSecret)
			if err == nil {
				t.Error("ValidateJWT() expected error for invalid token, got nil")
			}
		})
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-1", "alice", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ValidateJWT(token, "another_secret_key_minimum_32_chars"); err == nil {
		t.Error("ValidateJWT() accepted a token signed with another secret")
	}
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	token, err := GenerateJWT("user-1", "alice", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := ValidateJWT(token, testSecret); err == nil {
		t.Error("ValidateJWT() accepted an expired token")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-42", "carol", testSecret, 24*time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := ValidateJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateJWT() error = %v", err)
	}

	if claims.Subject != "user-42" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-42")
	}

	if claims.ExpiresAt.Time.Before(time.Now()) {
		t.Error("Token already expired")
	}

	expectedExpiry := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt.Time.After(expectedExpiry.Add(time.Minute)) {
		t.Error("Token expiration is too far in the future")
	}
}
