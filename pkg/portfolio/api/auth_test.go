package api

import (
	"errors"
	"testing"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	auth, err := NewAuth(hash, "signing-secret", time.Hour)
	require.NoError(t, err)

	_, _, err = auth.Login("wrong")
	assert.True(t, errors.Is(err, errUnauthorized))

	token, expiresAt, err := auth.Login("s3cret")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	parsed, err := auth.tokens.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, AdminSubject, parsed.Subject())

	other := jwtauth.New("HS256", []byte("other-secret"), nil)
	_, err = other.Decode(token)
	assert.Error(t, err)
}

func TestNewAuthRejectsBadInput(t *testing.T) {
	_, err := NewAuth("", "secret", time.Hour)
	assert.Error(t, err)

	_, err = NewAuth("plaintext", "secret", time.Hour)
	assert.Error(t, err)

	hash, err := HashPassword("pw")
	require.NoError(t, err)
	_, err = NewAuth(hash, "", time.Hour)
	assert.Error(t, err)

	_, err = HashPassword("")
	assert.Error(t, err)
}
