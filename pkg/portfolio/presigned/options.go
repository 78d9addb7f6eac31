package presigned

import "time"

// Option is a functional option for configuring a Signer
type Option func(*Signer)

// WithSecretKey sets the secret key used for HMAC signing.
// The key should be at least 32 bytes.
func WithSecretKey(key string) Option {
	return func(s *Signer) {
		s.secretKey = []byte(key)
	}
}

// WithDefaultExpiration sets how long signed URLs stay valid.
// Default is 15 minutes.
func WithDefaultExpiration(duration time.Duration) Option {
	return func(s *Signer) {
		if duration > 0 {
			s.defaultExpiration = duration
		}
	}
}

// WithNow replaces the clock used for expiry checks
func WithNow(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}
