package presigned

import (
	"errors"
	"log/slog"
	"net/http"
)

// Verify returns middleware that rejects requests without a valid signature.
// With no secret key configured it passes every request through.
func Verify(signer *Signer, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := signer.ValidateRequest(r); err != nil {
				logger.WarnContext(r.Context(), "presigned request rejected",
					"method", r.Method, "path", r.URL.Path, "err", err)
				handleValidationError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// handleValidationError writes an appropriate HTTP error response based on the validation error
func handleValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMissingSignature):
		writeError(w, http.StatusUnauthorized, "missing_signature", "signature parameter is required")
	case errors.Is(err, ErrMissingExpiration):
		writeError(w, http.StatusUnauthorized, "missing_expires", "expires parameter is required")
	case errors.Is(err, ErrInvalidExpiration):
		writeError(w, http.StatusBadRequest, "invalid_expires", "expires parameter must be a unix timestamp")
	case errors.Is(err, ErrExpired):
		writeError(w, http.StatusForbidden, "expired", "presigned URL has expired")
	case errors.Is(err, ErrInvalidSignature):
		writeError(w, http.StatusForbidden, "invalid_signature", "invalid signature")
	default:
		writeError(w, http.StatusForbidden, "forbidden", "authentication failed")
	}
}
