package presigned

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// Client pushes file bytes to upload targets
type Client struct {
	httpClient    *http.Client
	retryAttempts int
	retryDelay    time.Duration
	progressFunc  ProgressFunc
}

// ProgressFunc is called during upload with the number of bytes sent so far
type ProgressFunc func(bytesUploaded int64)

// ClientOption is a functional option for configuring a Client
type ClientOption func(*Client)

// NewClient creates a new upload client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Minute,
		},
		retryAttempts: 3,
		retryDelay:    1 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRetry configures retry behavior
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *Client) {
		if attempts < 1 {
			attempts = 1
		}
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// WithProgress sets a progress callback function
func WithProgress(fn ProgressFunc) ClientOption {
	return func(c *Client) {
		c.progressFunc = fn
	}
}

// Upload sends data to target and returns the storage id to reference the
// file with. The body is rewound before each retry. Server errors are
// retried; client errors are not.
func (c *Client) Upload(ctx context.Context, target *portfolio.UploadTarget, data io.ReadSeeker, contentType string) (portfolio.FileRef, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	method := target.Method
	if method == "" {
		method = http.MethodPut
	}

	size, err := data.Seek(0, io.SeekEnd)
	if err != nil {
		return "", fmt.Errorf("failed to size body: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}
		if _, err := data.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("failed to rewind body: %w", err)
		}

		var body io.Reader = data
		if c.progressFunc != nil {
			body = &progressReader{reader: data, callback: c.progressFunc}
		}
		if size == 0 {
			body = http.NoBody
		}

		req, err := http.NewRequestWithContext(ctx, method, target.URL, body)
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.ContentLength = size
		req.Header.Set("Content-Type", contentType)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("upload failed: %w", err)
			continue
		}

		ref, err := readStorageID(resp, target.StorageID)
		if err == nil {
			return ref, nil
		}
		lastErr = err

		// Don't retry on client errors (4xx)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", lastErr
		}
	}

	return "", fmt.Errorf("upload failed after %d attempts: %w", c.retryAttempts, lastErr)
}

// readStorageID consumes resp. Targets that answer without a JSON body
// (S3 presigned PUT) keep the id the target was issued with.
func readStorageID(resp *http.Response, fallback portfolio.FileRef) (portfolio.FileRef, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload failed with status: %s", resp.Status)
	}

	var out UploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&out); err != nil || out.StorageID == "" {
		return fallback, nil
	}
	return portfolio.FileRef(out.StorageID), nil
}

// progressReader wraps an io.Reader to track upload progress
type progressReader struct {
	reader    io.Reader
	bytesRead int64
	callback  ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.callback != nil && n > 0 {
		pr.callback(pr.bytesRead)
	}
	return n, err
}
