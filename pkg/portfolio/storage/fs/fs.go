package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// typeSuffix names the sidecar file holding an object's content type.
const typeSuffix = ".type"

// URLBuilder issues the URLs the backend hands out
type URLBuilder interface {
	UploadURL(objectKey string) (*portfolio.PresignedURL, error)
	DownloadURL(objectKey string) (string, error)
}

// Backend is a filesystem implementation of the portfolio.BlobStore interface
type Backend struct {
	baseDir string
	urls    URLBuilder
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string     // Base directory for storing files
	URLs    URLBuilder // Optional; without it only direct transfer works
}

// New creates a new filesystem storage backend
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	baseDir, err := filepath.Abs(config.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir: baseDir,
		urls:    config.URLs,
	}, nil
}

// path maps an object key inside baseDir, rejecting keys that escape it.
func (b *Backend) path(objectKey string) (string, error) {
	if objectKey == "" || strings.HasSuffix(objectKey, typeSuffix) {
		return "", fmt.Errorf("invalid object key %q", objectKey)
	}
	p := filepath.Join(b.baseDir, filepath.FromSlash(objectKey))
	if !strings.HasPrefix(p, b.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", objectKey)
	}
	return p, nil
}

// GetObjectMeta retrieves metadata for an object in the filesystem
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*portfolio.ObjectMeta, error) {
	filePath, err := b.path(objectKey)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, portfolio.ErrFileNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	return &portfolio.ObjectMeta{
		Key:         objectKey,
		Size:        info.Size(),
		ContentType: b.contentType(filePath),
		UpdatedAt:   info.ModTime().UTC(),
	}, nil
}

// contentType reads the stored type, falling back to sniffing the file.
func (b *Backend) contentType(filePath string) string {
	if data, err := os.ReadFile(filePath + typeSuffix); err == nil && len(data) > 0 {
		return strings.TrimSpace(string(data))
	}

	contentType := "application/octet-stream"
	if file, err := os.Open(filePath); err == nil {
		defer file.Close()
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil {
			contentType = http.DetectContentType(buffer[:n])
		}
	}
	return contentType
}

// GetUploadURL returns a presigned URL served by the upload handlers
func (b *Backend) GetUploadURL(ctx context.Context, objectKey string) (*portfolio.PresignedURL, error) {
	if b.urls == nil {
		return nil, errors.New("direct upload required for filesystem backend")
	}
	if _, err := b.path(objectKey); err != nil {
		return nil, err
	}
	return b.urls.UploadURL(objectKey)
}

// Upload uploads content directly to the filesystem
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return b.UploadWithParams(ctx, reader, portfolio.UploadParams{ObjectKey: objectKey})
}

// UploadWithParams writes the object through a temporary file so readers
// never observe a partial upload.
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params portfolio.UploadParams) error {
	filePath, err := b.path(params.ObjectKey)
	if err != nil {
		return err
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if params.MimeType != "" {
		if err := os.WriteFile(filePath+typeSuffix, []byte(params.MimeType), 0644); err != nil {
			return fmt.Errorf("failed to write content type: %w", err)
		}
	} else {
		os.Remove(filePath + typeSuffix)
	}

	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}
	return nil
}

// GetDownloadURL returns a presigned URL for an existing object
func (b *Backend) GetDownloadURL(ctx context.Context, objectKey string) (string, error) {
	filePath, err := b.path(objectKey)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return "", portfolio.ErrFileNotFound
	} else if err != nil {
		return "", fmt.Errorf("failed to get file info: %w", err)
	}

	if b.urls == nil {
		return "", errors.New("direct download required for filesystem backend")
	}
	return b.urls.DownloadURL(objectKey)
}

// Download downloads content directly from the filesystem
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	filePath, err := b.path(objectKey)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, portfolio.ErrFileNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete deletes content from the filesystem. Missing files are ignored.
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath, err := b.path(objectKey)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	os.Remove(filePath + typeSuffix)

	b.cleanupEmptyDirectories(filepath.Dir(filePath))
	return nil
}

// cleanupEmptyDirectories recursively removes empty directories up to baseDir
func (b *Backend) cleanupEmptyDirectories(dir string) {
	if dir == b.baseDir || !strings.HasPrefix(dir, b.baseDir) {
		return
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}

var _ portfolio.BlobStore = (*Backend)(nil)
