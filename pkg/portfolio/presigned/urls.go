package presigned

import (
	"net/http"
	"strings"
	"time"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// Route prefixes served by Handlers.
const (
	UploadPrefix   = "/files/upload/"
	DownloadPrefix = "/files/download/"
)

// UploadMethod is the HTTP method upload URLs are signed for.
const UploadMethod = http.MethodPost

// URLBuilder produces upload and download URLs for object keys.
type URLBuilder struct {
	signer  *Signer
	baseURL string
}

// NewURLBuilder returns a URLBuilder. baseURL is the public origin of the
// server, for example "https://portfolio.example.com"; empty yields
// host-relative URLs.
func NewURLBuilder(signer *Signer, baseURL string) *URLBuilder {
	if signer == nil {
		signer = New()
	}
	return &URLBuilder{signer: signer, baseURL: strings.TrimRight(baseURL, "/")}
}

// UploadURL returns a URL that accepts the bytes of key.
func (b *URLBuilder) UploadURL(key string) (*portfolio.PresignedURL, error) {
	u, expiresAt, err := b.sign(UploadMethod, UploadPrefix+key)
	if err != nil {
		return nil, err
	}
	return &portfolio.PresignedURL{URL: u, Method: UploadMethod, ExpiresAt: expiresAt}, nil
}

// DownloadURL returns a URL that serves the bytes of key.
func (b *URLBuilder) DownloadURL(key string) (string, error) {
	u, _, err := b.sign(http.MethodGet, DownloadPrefix+key)
	return u, err
}

func (b *URLBuilder) sign(method, path string) (string, time.Time, error) {
	if !b.signer.IsEnabled() {
		return b.baseURL + path, b.signer.now().Add(b.signer.defaultExpiration).UTC(), nil
	}
	signed, expiresAt, err := b.signer.SignURL(method, path, 0)
	if err != nil {
		return "", time.Time{}, err
	}
	return b.baseURL + signed, expiresAt, nil
}
