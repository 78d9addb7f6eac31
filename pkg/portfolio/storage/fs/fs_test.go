package fs_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/presigned"
	"github.com/tendant/simple-portfolio/pkg/portfolio/storage/fs"
)

func TestFSBackend_BasicOps(t *testing.T) {
	tmp := t.TempDir()
	backend, err := fs.New(fs.Config{BaseDir: tmp})
	require.NoError(t, err)

	ctx := context.Background()
	key := "uploads/ab/cdef"

	err = backend.UploadWithParams(ctx, bytes.NewReader([]byte("hello fs")), portfolio.UploadParams{
		ObjectKey: key,
		MimeType:  "video/mp4",
	})
	require.NoError(t, err)

	meta, err := backend.GetObjectMeta(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(8), meta.Size)
	assert.Equal(t, "video/mp4", meta.ContentType)

	rc, err := backend.Download(ctx, key)
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello fs", string(got))

	require.NoError(t, backend.Delete(ctx, key))
	require.NoError(t, backend.Delete(ctx, key), "delete is idempotent")

	_, err = os.Stat(filepath.Join(tmp, "uploads"))
	assert.True(t, os.IsNotExist(err), "empty shard directories are removed")

	_, err = backend.Download(ctx, key)
	assert.ErrorIs(t, err, portfolio.ErrFileNotFound)
}

func TestFSBackend_SniffsContentType(t *testing.T) {
	backend, err := fs.New(fs.Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "k", strings.NewReader("plain text body")))
	meta, err := backend.GetObjectMeta(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", meta.ContentType)
}

func TestFSBackend_RejectsEscapingKeys(t *testing.T) {
	backend, err := fs.New(fs.Config{BaseDir: t.TempDir()})
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"../outside", "a/../../outside", "", "k.type"} {
		err := backend.Upload(ctx, key, strings.NewReader("x"))
		assert.Error(t, err, key)
	}
}

func TestFSBackend_URLs(t *testing.T) {
	ctx := context.Background()

	t.Run("without builder", func(t *testing.T) {
		backend, err := fs.New(fs.Config{BaseDir: t.TempDir()})
		require.NoError(t, err)
		_, err = backend.GetUploadURL(ctx, "k")
		assert.Error(t, err)
	})

	t.Run("unsigned builder", func(t *testing.T) {
		backend, err := fs.New(fs.Config{
			BaseDir: t.TempDir(),
			URLs:    presigned.NewURLBuilder(presigned.New(), "http://files.local/"),
		})
		require.NoError(t, err)

		up, err := backend.GetUploadURL(ctx, "uploads/ab/cd")
		require.NoError(t, err)
		assert.Equal(t, "http://files.local/files/upload/uploads/ab/cd", up.URL)

		_, err = backend.GetDownloadURL(ctx, "uploads/ab/cd")
		assert.ErrorIs(t, err, portfolio.ErrFileNotFound)

		require.NoError(t, backend.Upload(ctx, "uploads/ab/cd", strings.NewReader("x")))
		down, err := backend.GetDownloadURL(ctx, "uploads/ab/cd")
		require.NoError(t, err)
		assert.Equal(t, "http://files.local/files/download/uploads/ab/cd", down)
	})
}
