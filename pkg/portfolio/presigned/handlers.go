package presigned

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/objectkey"
)

// DefaultMaxUploadBytes caps a single upload when no limit is configured.
const DefaultMaxUploadBytes int64 = 100 << 20

// Handlers serves presigned upload and download URLs for a BlobStore
type Handlers struct {
	store    portfolio.BlobStore
	signer   *Signer
	keys     objectkey.Generator
	maxBytes int64
	logger   *slog.Logger
}

// HandlersOption configures Handlers
type HandlersOption func(*Handlers)

// WithMaxUploadBytes caps the request body of an upload
func WithMaxUploadBytes(n int64) HandlersOption {
	return func(h *Handlers) {
		if n > 0 {
			h.maxBytes = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) HandlersOption {
	return func(h *Handlers) {
		h.logger = logger
	}
}

// NewHandlers creates presigned URL handlers over store. keys must be the
// generator the service uses so uploaded keys map back to storage ids.
func NewHandlers(store portfolio.BlobStore, signer *Signer, keys objectkey.Generator, opts ...HandlersOption) *Handlers {
	h := &Handlers{
		store:    store,
		signer:   signer,
		keys:     keys,
		maxBytes: DefaultMaxUploadBytes,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// UploadResponse is returned after a successful upload
type UploadResponse struct {
	StorageID string `json:"storageId"`
}

// HandleUpload stores the raw request body under the key in the URL path.
// URL format: POST /files/upload/{objectKey...}?signature={hmac}&expires={timestamp}
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	objectKey := chi.URLParam(r, "*")
	ref, err := h.keys.Ref(objectKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_object_key", "object key is not valid")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body := http.MaxBytesReader(w, r.Body, h.maxBytes)
	err = h.store.UploadWithParams(r.Context(), body, portfolio.UploadParams{
		ObjectKey: objectKey,
		MimeType:  contentType,
	})
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large",
				"upload exceeds "+strconv.FormatInt(h.maxBytes, 10)+" bytes")
			return
		}
		h.logger.ErrorContext(r.Context(), "presigned upload failed", "object_key", objectKey, "err", err)
		writeError(w, http.StatusInternalServerError, "upload_failed", "failed to store file")
		return
	}

	h.logger.InfoContext(r.Context(), "presigned upload stored", "object_key", objectKey, "content_type", contentType)
	render.Status(r, http.StatusOK)
	render.JSON(w, r, UploadResponse{StorageID: ref})
}

// HandleDownload streams the object named in the URL path.
// URL format: GET /files/download/{objectKey...}?signature={hmac}&expires={timestamp}
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	objectKey := chi.URLParam(r, "*")
	if _, err := h.keys.Ref(objectKey); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_object_key", "object key is not valid")
		return
	}

	meta, err := h.store.GetObjectMeta(r.Context(), objectKey)
	if err != nil {
		if errors.Is(err, portfolio.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "object not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "presigned download failed", "object_key", objectKey, "err", err)
		writeError(w, http.StatusInternalServerError, "download_failed", "failed to read file")
		return
	}

	rc, err := h.store.Download(r.Context(), objectKey)
	if err != nil {
		if errors.Is(err, portfolio.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "object not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "presigned download failed", "object_key", objectKey, "err", err)
		writeError(w, http.StatusInternalServerError, "download_failed", "failed to read file")
		return
	}
	defer rc.Close()

	if meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	w.Header().Set("Cache-Control", "private, max-age=300")

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.WarnContext(r.Context(), "presigned download copy error", "object_key", objectKey, "err", err)
	}
}

// Mount registers the upload and download routes behind signature checks
func (h *Handlers) Mount(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(Verify(h.signer, h.logger))
		r.Post(UploadPrefix+"*", h.HandleUpload)
		r.Get(DownloadPrefix+"*", h.HandleDownload)
	})
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Code: code, Message: message}})
}
