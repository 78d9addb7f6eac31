package portfolio

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/tendant/simple-portfolio/pkg/portfolio/objectkey"
)

// Resolver maps file references to URLs and manages the files behind them.
type Resolver struct {
	store  BlobStore
	keys   objectkey.Generator
	cache  *cache.Cache
	logger *slog.Logger
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithKeyGenerator sets how references map to object keys
func WithKeyGenerator(g objectkey.Generator) ResolverOption {
	return func(r *Resolver) {
		r.keys = g
	}
}

// WithResolverCache caches resolved URLs for ttl. The ttl should be shorter
// than the store's URL lifetime.
func WithResolverCache(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		if ttl > 0 {
			r.cache = cache.New(ttl, 2*ttl)
		}
	}
}

// WithResolverLogger sets the logger
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver returns a Resolver over store.
func NewResolver(store BlobStore, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:  store,
		keys:   objectkey.NewGitLikeGenerator(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the object key backing ref.
func (r *Resolver) Key(ref FileRef) string {
	return r.keys.Key(ref.String())
}

// Ref recovers the reference from an object key.
func (r *Resolver) Ref(key string) (FileRef, error) {
	ref, err := r.keys.Ref(key)
	if err != nil {
		return "", err
	}
	return FileRef(ref), nil
}

// ResolveURL returns a fetch URL for ref, or nil when ref is nil or cannot
// be resolved. Failures are logged, never returned.
func (r *Resolver) ResolveURL(ctx context.Context, ref *FileRef) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	if r.cache != nil {
		if v, ok := r.cache.Get(ref.String()); ok {
			u := v.(string)
			return &u
		}
	}

	u, err := r.store.GetDownloadURL(ctx, r.Key(*ref))
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			r.logger.DebugContext(ctx, "file reference points at a missing file", "ref", *ref)
		} else {
			r.logger.WarnContext(ctx, "failed to resolve file url", "ref", *ref, "err", err)
		}
		return nil
	}

	if r.cache != nil {
		r.cache.SetDefault(ref.String(), u)
	}
	return &u
}

// Delete removes the file behind ref. A missing file is not an error.
func (r *Resolver) Delete(ctx context.Context, ref FileRef) error {
	if r.cache != nil {
		r.cache.Delete(ref.String())
	}
	key := r.Key(ref)
	if err := r.store.Delete(ctx, key); err != nil && !errors.Is(err, ErrFileNotFound) {
		return &StorageError{Key: key, Op: "delete", Err: err}
	}
	return nil
}

// BeginUpload reserves a new reference and returns where to send its bytes.
func (r *Resolver) BeginUpload(ctx context.Context) (*UploadTarget, error) {
	ref := NewFileRef()
	key := r.Key(ref)

	u, err := r.store.GetUploadURL(ctx, key)
	if err != nil {
		return nil, &StorageError{Key: key, Op: "upload_url", Err: err}
	}
	return &UploadTarget{
		URL:       u.URL,
		Method:    u.Method,
		StorageID: ref,
		ExpiresAt: u.ExpiresAt,
	}, nil
}
