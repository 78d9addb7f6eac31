package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"
	"golang.org/x/crypto/bcrypt"
)

// AdminSubject is the subject claim of admin tokens
const AdminSubject = "admin"

// Auth issues and checks admin tokens. The single admin account is a
// bcrypt password hash.
type Auth struct {
	tokens       *jwtauth.JWTAuth
	passwordHash []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewAuth returns an Auth signing HS256 tokens with secret
func NewAuth(passwordHash, secret string, ttl time.Duration) (*Auth, error) {
	if passwordHash == "" {
		return nil, errors.New("password hash is required")
	}
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Auth{
		tokens:       jwtauth.New("HS256", []byte(secret), nil),
		passwordHash: []byte(passwordHash),
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// HashPassword returns the bcrypt hash stored as ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks password and issues a token
func (a *Auth) Login(password string) (string, time.Time, error) {
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, errUnauthorized
	}
	return a.Issue()
}

// Issue returns a fresh admin token and its expiry
func (a *Auth) Issue() (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl).Truncate(time.Second).UTC()

	claims := map[string]interface{}{"sub": AdminSubject}
	jwtauth.SetIssuedAt(claims, now)
	jwtauth.SetExpiry(claims, expiresAt)

	_, token, err := a.tokens.Encode(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verifier finds and validates a bearer token on the request
func (a *Auth) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(a.tokens)
}

// Authenticator rejects requests without a valid admin token. It must run
// after Verifier.
func (a *Auth) Authenticator(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				writeError(w, r, logger, errUnauthorized)
				return
			}
			if sub, _ := claims["sub"].(string); sub != AdminSubject {
				writeError(w, r, logger, errUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
