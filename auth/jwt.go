package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// ErrAuthDisabled is returned when no auth base URL is configured.
var ErrAuthDisabled = errors.New("auth base URL is not set")

var (
	jwksMu    sync.Mutex
	jwksCache = map[string]keyfunc.Keyfunc{}
)

// ValidateToken validates a join token against the JWKS published at
// <baseURL>/.well-known/jwks.json and returns its claims. The issuer must
// match the scheme and host of baseURL.
func ValidateToken(baseURL, tokenString string) (jwt.MapClaims, error) {
	if baseURL == "" {
		return nil, ErrAuthDisabled
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	expectedIssuer := u.Scheme + "://" + u.Host

	jwks, err := keySet(strings.TrimRight(baseURL, "/") + "/.well-known/jwks.json")
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, jwks.Keyfunc,
		jwt.WithIssuer(expectedIssuer),
		jwt.WithValidMethods([]string{"EdDSA", "RS256", "ES256"}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// keySet returns one refreshing JWKS client per URL.
func keySet(jwksURL string) (keyfunc.Keyfunc, error) {
	jwksMu.Lock()
	defer jwksMu.Unlock()
	if k, ok := jwksCache[jwksURL]; ok {
		return k, nil
	}
	k, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, err
	}
	jwksCache[jwksURL] = k
	return k, nil
}

// DisplayNameFromClaims returns the first word of the "name" claim, or fallback.
func DisplayNameFromClaims(claims jwt.MapClaims, fallback string) string {
	name, _ := claims["name"].(string)
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return fallback
	}
	return parts[0]
}

// UserIDFromClaims returns the user id from claims ("sub" or "id").
func UserIDFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	if id, ok := claims["id"].(string); ok && id != "" {
		return id
	}
	return ""
}
