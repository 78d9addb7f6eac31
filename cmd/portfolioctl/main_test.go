package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "memory")
	t.Setenv("STORAGE_URL", "memory://")

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	out, err := execute(t, "from-stdin\n", "hash-password")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("from-stdin")))

	out, err = execute(t, "", "hash-password", "from-arg")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("from-arg")))
}

func TestTokenRequiresAdmin(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	_, err := execute(t, "", "token")
	assert.Error(t, err)
}

func TestSkillsSeed(t *testing.T) {
	out, err := execute(t, "", "skills", "seed")
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(out, "added "))
}

func TestProjectsListRejectsUnknownCategory(t *testing.T) {
	_, err := execute(t, "", "projects", "list", "--category", "poetry")
	assert.Error(t, err)

	out, err := execute(t, "", "projects", "list", "--category", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
}

func TestMarkReadRejectsBadID(t *testing.T) {
	_, err := execute(t, "", "messages", "mark-read", "nope")
	assert.Error(t, err)
}
