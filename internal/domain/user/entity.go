// Package user contains the user domain entity. The platform treats
// authentication as an ambient concern; handlers receive an already-resolved
// current user, and this entity only carries identity and credentials.
package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Validation errors
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooLong  = errors.New("username must not exceed 150 characters")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

// User represents a registered account. Authors are plain users that have
// published recipes; superusers bypass ownership checks.
type User struct {
	id           uuid.UUID
	username     string
	email        string
	passwordHash string
	superuser    bool
	createdAt    time.Time
}

// NewUser creates a user with a bcrypt-hashed password
func NewUser(username, email, password string) (*User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(username) > 150 {
		return nil, ErrUsernameTooLong
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		id:           uuid.New(),
		username:     username,
		email:        email,
		passwordHash: string(hash),
		createdAt:    time.Now(),
	}, nil
}

// Restore rebuilds a User from persisted state. Used by repositories only.
func Restore(id uuid.UUID, username, email, passwordHash string, superuser bool, createdAt time.Time) *User {
	return &User{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		superuser:    superuser,
		createdAt:    createdAt,
	}
}

// ID returns the user's unique identifier
func (u *User) ID() uuid.UUID { return u.id }

// Username returns the user's login name
func (u *User) Username() string { return u.username }

// Email returns the user's email address
func (u *User) Email() string { return u.email }

// PasswordHash returns the stored bcrypt hash
func (u *User) PasswordHash() string { return u.passwordHash }

// IsSuperuser reports whether the user bypasses ownership checks
func (u *User) IsSuperuser() bool { return u.superuser }

// CreatedAt returns when the account was created
func (u *User) CreatedAt() time.Time { return u.createdAt }

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

// PromoteToSuperuser grants superuser rights
func (u *User) PromoteToSuperuser() {
	u.superuser = true
}
