package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_HashesPassword(t *testing.T) {
	u, err := NewUser("alice", "alice@example.com", "correct horse battery")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse battery", u.PasswordHash())
	assert.True(t, u.CheckPassword("correct horse battery"))
	assert.False(t, u.CheckPassword("wrong password"))
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser("", "a@example.com", "password123")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = NewUser("alice", "", "password123")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = NewUser("alice", "a@example.com", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestPromoteToSuperuser(t *testing.T) {
	u, err := NewUser("admin", "admin@example.com", "password123")
	require.NoError(t, err)

	assert.False(t, u.IsSuperuser())
	u.PromoteToSuperuser()
	assert.True(t, u.IsSuperuser())
}
