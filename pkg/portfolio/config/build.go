package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/objectkey"
	"github.com/tendant/simple-portfolio/pkg/portfolio/presigned"
	"github.com/tendant/simple-portfolio/pkg/portfolio/repo/memory"
	repopg "github.com/tendant/simple-portfolio/pkg/portfolio/repo/postgres"
	fsstorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/fs"
	memorystorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
	s3storage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/s3"
)

// Runtime is a wired service together with the pieces the HTTP layer and
// tooling need alongside it.
type Runtime struct {
	Service    portfolio.Service
	Repository portfolio.Repository
	BlobStore  portfolio.BlobStore
	Keys       objectkey.Generator
	Signer     *presigned.Signer

	// Files serves signed upload and download URLs. It is nil for S3, which
	// hands out its own presigned URLs.
	Files *presigned.Handlers

	closers []func()
}

// Close releases the database pool, if any
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// Build creates the repository, blob store and service described by the
// configuration
func (c *ServerConfig) Build(ctx context.Context, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rt := &Runtime{
		Keys: objectkey.NewGitLikeGenerator(),
		Signer: presigned.New(
			presigned.WithSecretKey(c.SignatureSecretKey),
			presigned.WithDefaultExpiration(c.PresignExpiry()),
		),
	}

	repo, err := c.buildRepository(ctx, rt)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	rt.Repository = repo

	store, err := c.buildStorageBackend(ctx, presigned.NewURLBuilder(rt.Signer, c.PublicBaseURL))
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to build storage backend %s: %w", c.Storage.Type, err)
	}
	rt.BlobStore = store

	if c.Storage.Type != "s3" {
		rt.Files = presigned.NewHandlers(store, rt.Signer, rt.Keys,
			presigned.WithMaxUploadBytes(c.MaxUploadBytes),
			presigned.WithLogger(logger),
		)
	}

	options := []portfolio.Option{
		portfolio.WithRepository(repo),
		portfolio.WithBlobStore(store),
		portfolio.WithObjectKeys(rt.Keys),
		portfolio.WithLogger(logger),
		portfolio.WithURLCache(c.urlCacheTTL()),
	}
	if c.EnableEventLogging {
		options = append(options, portfolio.WithEventSink(portfolio.NewLoggingEventSink(logger)))
	}

	svc, err := portfolio.New(options...)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Service = svc

	return rt, nil
}

// urlCacheTTL keeps cached URLs from outliving their signature
func (c *ServerConfig) urlCacheTTL() time.Duration {
	ttl := c.URLCacheTTL
	if limit := c.PresignExpiry() / 2; ttl > limit {
		ttl = limit
	}
	return ttl
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context, rt *Runtime) (portfolio.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, errors.New("database_url is required for postgres")
		}
		pool, err := NewPool(ctx, c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, pool.Close)

		if c.AutoMigrate {
			if c.DBSchema != "" {
				if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{c.DBSchema}.Sanitize()); err != nil {
					return nil, fmt.Errorf("create schema: %w", err)
				}
			}
			if err := repopg.Migrate(ctx, pool); err != nil {
				return nil, err
			}
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// NewPool opens a pgx pool whose sessions use schema as search_path.
func NewPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		ident := pgx.Identifier{schema}.Sanitize()
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+ident)
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return pool, nil
}

// buildStorageBackend creates a BlobStore based on the storage configuration
func (c *ServerConfig) buildStorageBackend(ctx context.Context, urls *presigned.URLBuilder) (portfolio.BlobStore, error) {
	switch c.Storage.Type {
	case "memory":
		return memorystorage.New(urls), nil

	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir: c.Storage.BaseDir,
			URLs:    urls,
		})

	case "s3":
		return s3storage.New(ctx, s3storage.Config{
			Region:                 c.Storage.Region,
			Bucket:                 c.Storage.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.Storage.Endpoint,
			UsePathStyle:           c.Storage.UsePathStyle || c.S3.UsePathStyle,
			PresignDuration:        c.PresignExpiry(),
			EnableSSE:              c.S3.EnableSSE,
			SSEAlgorithm:           c.S3.SSEAlgorithm,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})

	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", c.Storage.Type)
	}
}
