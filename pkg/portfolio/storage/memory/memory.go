package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// URLBuilder issues the URLs the backend hands out
type URLBuilder interface {
	UploadURL(objectKey string) (*portfolio.PresignedURL, error)
	DownloadURL(objectKey string) (string, error)
}

type object struct {
	data      []byte
	mimeType  string
	updatedAt time.Time
}

// Backend is an in-memory implementation of the portfolio.BlobStore interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string]*object
	urls    URLBuilder
}

// New creates a new in-memory storage backend. Without urls the backend
// supports direct upload and download only.
func New(urls URLBuilder) *Backend {
	return &Backend{
		objects: make(map[string]*object),
		urls:    urls,
	}
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*portfolio.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, portfolio.ErrFileNotFound
	}

	return &portfolio.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(obj.data)),
		ContentType: obj.mimeType,
		UpdatedAt:   obj.updatedAt,
	}, nil
}

// GetUploadURL returns a presigned URL served by the upload handlers
func (b *Backend) GetUploadURL(ctx context.Context, objectKey string) (*portfolio.PresignedURL, error) {
	if b.urls == nil {
		return nil, errors.New("direct upload required for memory backend")
	}
	return b.urls.UploadURL(objectKey)
}

// Upload uploads content directly
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return b.UploadWithParams(ctx, reader, portfolio.UploadParams{ObjectKey: objectKey})
}

// UploadWithParams uploads content with parameters
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params portfolio.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}

	mimeType := params.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[params.ObjectKey] = &object{
		data:      data,
		mimeType:  mimeType,
		updatedAt: time.Now().UTC(),
	}
	return nil
}

// GetDownloadURL returns a presigned URL for an existing object
func (b *Backend) GetDownloadURL(ctx context.Context, objectKey string) (string, error) {
	b.mu.RLock()
	_, exists := b.objects[objectKey]
	b.mu.RUnlock()
	if !exists {
		return "", portfolio.ErrFileNotFound
	}

	if b.urls == nil {
		return "", errors.New("direct download required for memory backend")
	}
	return b.urls.DownloadURL(objectKey)
}

// Download downloads content directly
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, portfolio.ErrFileNotFound
	}

	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete deletes content. Missing objects are ignored.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, objectKey)
	return nil
}

var _ portfolio.BlobStore = (*Backend)(nil)
