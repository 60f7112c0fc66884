// Package security implements session authentication: a signed JWT carried
// in an HTTP cookie, holding the current user's identity.
package security

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/foodgram/v2/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session errors
var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
)

// Claims is the session payload embedded in the JWT
type Claims struct {
	UserID    uuid.UUID `json:"uid"`
	Username  string    `json:"username"`
	Superuser bool      `json:"superuser"`
	jwt.RegisteredClaims
}

// SessionManager issues and reads session cookies
type SessionManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

// NewSessionManager creates a session manager from auth configuration
func NewSessionManager(cfg config.AuthConfig) *SessionManager {
	return &SessionManager{
		secret:     []byte(cfg.JWTSecret),
		ttl:        cfg.SessionTTL,
		cookieName: cfg.CookieName,
		secure:     cfg.CookieSecure,
	}
}

// CookieName returns the session cookie's name
func (m *SessionManager) CookieName() string { return m.cookieName }

// IssueToken signs a session token for the given identity
func (m *SessionManager) IssueToken(userID uuid.UUID, username string, superuser bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Username:  username,
		Superuser: superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns its claims
func (m *SessionManager) ParseToken(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// SetSessionCookie writes the session cookie onto the response
func (m *SessionManager) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie
func (m *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromRequest extracts and validates the session from the request
func (m *SessionManager) SessionFromRequest(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	return m.ParseToken(cookie.Value)
}
