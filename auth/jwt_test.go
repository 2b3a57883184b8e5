package auth

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestValidateToken_Disabled(t *testing.T) {
	_, err := ValidateToken("", "anything")
	if !errors.Is(err, ErrAuthDisabled) {
		t.Errorf("expected ErrAuthDisabled, got %v", err)
	}
}

func TestValidateToken_InvalidBaseURL(t *testing.T) {
	if _, err := ValidateToken("not a url", "anything"); err == nil {
		t.Error("expected error for base URL without scheme and host")
	}
}

func TestDisplayNameFromClaims(t *testing.T) {
	cases := []struct {
		claims jwt.MapClaims
		want   string
	}{
		{jwt.MapClaims{"name": "Aiko Tanaka"}, "Aiko"},
		{jwt.MapClaims{"name": "   "}, "Player"},
		{jwt.MapClaims{}, "Player"},
		{jwt.MapClaims{"name": 42}, "Player"},
	}
	for _, c := range cases {
		if got := DisplayNameFromClaims(c.claims, "Player"); got != c.want {
			t.Errorf("claims %v: expected %q, got %q", c.claims, c.want, got)
		}
	}
}

func TestUserIDFromClaims(t *testing.T) {
	if got := UserIDFromClaims(jwt.MapClaims{"sub": "u1", "id": "u2"}); got != "u1" {
		t.Errorf("expected sub to win, got %q", got)
	}
	if got := UserIDFromClaims(jwt.MapClaims{"id": "u2"}); got != "u2" {
		t.Errorf("expected id fallback, got %q", got)
	}
	if got := UserIDFromClaims(jwt.MapClaims{}); got != "" {
		t.Errorf("expected empty user id, got %q", got)
	}
}
