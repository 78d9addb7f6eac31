package s3

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

func newOfflineBackend(t *testing.T) *Backend {
	t.Helper()
	backend, err := New(context.Background(), Config{
		Region:          "us-east-1",
		Bucket:          "portfolio-test",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
		PresignDuration: 10 * time.Minute,
	})
	require.NoError(t, err)
	return backend
}

func TestS3Backend_Configuration(t *testing.T) {
	t.Run("EmptyBucket", func(t *testing.T) {
		_, err := New(context.Background(), Config{Region: "us-east-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket name is required")
	})

	t.Run("Defaults", func(t *testing.T) {
		backend, err := New(context.Background(), Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "us-east-1", backend.config.Region)
		assert.Equal(t, 15*time.Minute, backend.presignDuration)
	})
}

func TestS3Backend_PresignUpload(t *testing.T) {
	backend := newOfflineBackend(t)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	backend.now = func() time.Time { return fixed }

	target, err := backend.GetUploadURL(context.Background(), "uploads/ab/cdef")
	require.NoError(t, err)

	assert.Equal(t, "PUT", target.Method)
	assert.True(t, fixed.Add(10*time.Minute).Equal(target.ExpiresAt))

	u, err := url.Parse(target.URL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/portfolio-test/uploads/ab/cdef", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestS3Backend_PresignDownload(t *testing.T) {
	backend := newOfflineBackend(t)

	raw, err := backend.presignGet(context.Background(), "uploads/ab/cdef")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/portfolio-test/uploads/ab/cdef", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

// TestS3Backend_Integration runs against an S3-compatible server such as
// MinIO when TEST_S3_ENDPOINT is set.
func TestS3Backend_Integration(t *testing.T) {
	endpoint := os.Getenv("TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("TEST_S3_ENDPOINT not set")
	}

	ctx := context.Background()
	backend, err := New(ctx, Config{
		Region:                 "us-east-1",
		Bucket:                 envOr("TEST_S3_BUCKET", "portfolio-test"),
		AccessKeyID:            envOr("TEST_S3_ACCESS_KEY", "minioadmin"),
		SecretAccessKey:        envOr("TEST_S3_SECRET_KEY", "minioadmin"),
		Endpoint:               endpoint,
		UsePathStyle:           true,
		CreateBucketIfNotExist: true,
	})
	require.NoError(t, err)

	key := "uploads/it/" + uuid.NewString()

	_, err = backend.GetDownloadURL(ctx, key)
	assert.ErrorIs(t, err, portfolio.ErrFileNotFound)

	err = backend.UploadWithParams(ctx, bytes.NewReader([]byte("hello")), portfolio.UploadParams{
		ObjectKey: key,
		MimeType:  "text/plain",
	})
	require.NoError(t, err)

	meta, err := backend.GetObjectMeta(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(5), meta.Size)
	assert.Equal(t, "text/plain", meta.ContentType)

	u, err := backend.GetDownloadURL(ctx, key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, endpoint))

	rc, err := backend.Download(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, backend.Delete(ctx, key))
	require.NoError(t, backend.Delete(ctx, key))

	_, err = backend.Download(ctx, key)
	assert.ErrorIs(t, err, portfolio.ErrFileNotFound)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
