package objectkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitLikeGenerator(t *testing.T) {
	gen := NewGitLikeGenerator()
	ref := "987fcdeb-51a2-43d1-9f12-345678901234"

	key := gen.Key(ref)
	assert.Equal(t, "uploads/98/7fcdeb-51a2-43d1-9f12-345678901234", key)

	got, err := gen.Ref(key)
	require.NoError(t, err)
	assert.Equal(t, ref, got)
}

func TestGitLikeGenerator_ShortRef(t *testing.T) {
	gen := NewGitLikeGenerator()

	key := gen.Key("a")
	assert.Equal(t, "uploads/_/a", key)

	got, err := gen.Ref(key)
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestGitLikeGenerator_InvalidKeys(t *testing.T) {
	gen := NewGitLikeGenerator()

	tests := []struct {
		name string
		key  string
	}{
		{"wrong prefix", "originals/98/7fcdeb"},
		{"missing shard", "uploads/987fcdeb"},
		{"bad shard length", "uploads/987/fcdeb"},
		{"traversal", "uploads/../etc"},
		{"nested", "uploads/98/7f/cdeb"},
		{"empty", ""},
		{"dot segment", "uploads/98/.."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.Ref(tt.key)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestGitLikeGenerator_SanitizesRef(t *testing.T) {
	gen := NewGitLikeGenerator()
	assert.Equal(t, "uploads/ab/____c", gen.Key("ab/../c"))
}

func TestFlatGenerator(t *testing.T) {
	gen := NewFlatGenerator("files")

	key := gen.Key("abc-123")
	assert.Equal(t, "files/abc-123", key)

	got, err := gen.Ref(key)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", got)

	_, err = gen.Ref("other/abc-123")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestFlatGenerator_NoPrefix(t *testing.T) {
	gen := NewFlatGenerator("")
	assert.Equal(t, "abc", gen.Key("abc"))

	got, err := gen.Ref("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}
