package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Verifier validates bearer JWTs and places the verified caller identity
// in the request context. Tokens are HS256-signed with a shared secret;
// the subject claim carries the caller's identity.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a new JWT verifier with the given signing secret.
func NewVerifier(secret []byte) (*Verifier, error) {
	if len(secret) < 32 {
		return nil, errors.New("signing secret must be at least 32 bytes")
	}
	return &Verifier{secret: secret}, nil
}

// Issue mints a token for the given identity, valid for ttl.
func (v *Verifier) Issue(identity uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   identity.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token string and returns the caller it
// identifies.
func (v *Verifier) Verify(tokenString string) (*Caller, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("invalid signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	identity, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}

	return &Caller{ID: identity}, nil
}

// Middleware returns an HTTP middleware that verifies bearer tokens and
// stores the caller in the request context. Requests without a valid
// token are rejected with 401.
func (v *Verifier) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				log.Warn().Msg("Missing Authorization header")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			caller, err := v.Verify(tokenString)
			if err != nil {
				log.Debug().Err(err).Msg("JWT verification failed")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// extractBearerToken pulls the token out of the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}

	return token
}
