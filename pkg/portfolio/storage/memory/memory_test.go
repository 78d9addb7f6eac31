package memory_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/presigned"
	"github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
)

func TestMemoryBackend_BasicOps(t *testing.T) {
	backend := memory.New(nil)
	ctx := context.Background()
	key := "uploads/ab/cdef"

	err := backend.UploadWithParams(ctx, bytes.NewReader([]byte("hello")), portfolio.UploadParams{
		ObjectKey: key,
		MimeType:  "image/png",
	})
	require.NoError(t, err)

	meta, err := backend.GetObjectMeta(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(5), meta.Size)
	assert.Equal(t, "image/png", meta.ContentType)

	rc, err := backend.Download(ctx, key)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(data))

	require.NoError(t, backend.Delete(ctx, key))
	require.NoError(t, backend.Delete(ctx, key), "delete is idempotent")

	_, err = backend.Download(ctx, key)
	assert.ErrorIs(t, err, portfolio.ErrFileNotFound)
	_, err = backend.GetObjectMeta(ctx, key)
	assert.ErrorIs(t, err, portfolio.ErrFileNotFound)
}

func TestMemoryBackend_DefaultMimeType(t *testing.T) {
	backend := memory.New(nil)
	ctx := context.Background()

	require.NoError(t, backend.Upload(ctx, "k", strings.NewReader("x")))
	meta, err := backend.GetObjectMeta(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", meta.ContentType)
}

func TestMemoryBackend_URLs(t *testing.T) {
	ctx := context.Background()

	t.Run("without builder", func(t *testing.T) {
		backend := memory.New(nil)
		_, err := backend.GetUploadURL(ctx, "k")
		assert.Error(t, err)
	})

	t.Run("with builder", func(t *testing.T) {
		urls := presigned.NewURLBuilder(presigned.New(presigned.WithSecretKey("secret")), "http://localhost:8080")
		backend := memory.New(urls)

		up, err := backend.GetUploadURL(ctx, "uploads/ab/cd")
		require.NoError(t, err)
		assert.Equal(t, "POST", up.Method)
		assert.True(t, strings.HasPrefix(up.URL, "http://localhost:8080/files/upload/uploads/ab/cd?signature="))

		_, err = backend.GetDownloadURL(ctx, "uploads/ab/cd")
		assert.ErrorIs(t, err, portfolio.ErrFileNotFound)

		require.NoError(t, backend.Upload(ctx, "uploads/ab/cd", strings.NewReader("x")))
		down, err := backend.GetDownloadURL(ctx, "uploads/ab/cd")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(down, "http://localhost:8080/files/download/uploads/ab/cd?signature="))
	})
}
