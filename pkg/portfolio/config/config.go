package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:                  "8080",
		Environment:           "development",
		DatabaseType:          "memory",
		DBSchema:              "portfolio",
		StorageURL:            "memory://",
		Storage:               StorageConfig{Type: "memory"},
		PresignExpiresSeconds: 900,
		URLCacheTTL:           time.Minute,
		MaxUploadBytes:        100 << 20,
		JWTTTL:                12 * time.Hour,
		CORSAllowedOrigins:    []string{"*"},
		EnableEventLogging:    true,
	}
}

// ServerConfig represents server configuration for the portfolio service.
// The env tags are read by WithEnv.
type ServerConfig struct {
	Port        string `env:"PORT"`
	Environment string `env:"ENVIRONMENT"` // development, production, testing

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string // "memory", "postgres"; derived from DatabaseURL
	DBSchema     string `env:"DB_SCHEMA"`
	AutoMigrate  bool   `env:"AUTO_MIGRATE"`

	// Storage configuration
	StorageURL string `env:"STORAGE_URL"`
	Storage    StorageConfig

	// File URLs
	PublicBaseURL         string        `env:"PUBLIC_BASE_URL"`
	SignatureSecretKey    string        `env:"SIGNATURE_SECRET_KEY"`
	PresignExpiresSeconds int           `env:"PRESIGN_EXPIRES_SECONDS"`
	URLCacheTTL           time.Duration `env:"URL_CACHE_TTL"`
	MaxUploadBytes        int64         `env:"MAX_UPLOAD_BYTES"`

	// Admin access
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string        `env:"JWT_SECRET"`
	JWTTTL            time.Duration `env:"JWT_TTL"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:","`

	S3 S3Credentials

	EnableEventLogging bool `env:"ENABLE_EVENT_LOGGING"`
}

// StorageConfig is the parsed form of STORAGE_URL
type StorageConfig struct {
	Type string // "memory", "fs", "s3"

	// fs
	BaseDir string

	// s3
	Bucket       string
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// S3Credentials holds S3 settings that do not belong in STORAGE_URL
type S3Credentials struct {
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `env:"S3_USE_PATH_STYLE"`
	CreateBucket    bool   `env:"S3_CREATE_BUCKET"`
	EnableSSE       bool   `env:"S3_ENABLE_SSE"`
	SSEAlgorithm    string `env:"S3_SSE_ALGORITHM"`
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.Storage.Type {
	case "memory":
	case "fs":
		if c.Storage.BaseDir == "" {
			return errors.New("filesystem storage requires a base directory")
		}
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("s3 storage requires a bucket")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	if c.PresignExpiresSeconds <= 0 {
		return fmt.Errorf("presign_expires_seconds must be positive, got: %d", c.PresignExpiresSeconds)
	}

	if c.AdminPasswordHash != "" && c.JWTSecret == "" {
		return errors.New("jwt_secret is required when admin access is enabled")
	}

	if c.IsProduction() && c.Storage.Type != "s3" && c.SignatureSecretKey == "" {
		return errors.New("signature_secret_key is required in production")
	}

	return nil
}

// IsProduction reports whether the server runs in production
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// AdminEnabled reports whether admin login is configured
func (c *ServerConfig) AdminEnabled() bool {
	return c.AdminPasswordHash != ""
}

// PresignExpiry returns the lifetime of signed file URLs
func (c *ServerConfig) PresignExpiry() time.Duration {
	return time.Duration(c.PresignExpiresSeconds) * time.Second
}

// databaseType derives the database type from a DATABASE_URL value
func databaseType(dbURL string) (string, error) {
	switch {
	case dbURL == "" || dbURL == "memory":
		return "memory", nil
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return "postgres", nil
	}
	return "", fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgres://...')", dbURL)
}

// ParseStorageURL parses a storage connection string. Accepted forms:
//
//	memory://
//	file:///var/lib/portfolio
//	s3://bucket?region=us-east-1&endpoint=http://localhost:9000&path_style=true
func ParseStorageURL(raw string) (StorageConfig, error) {
	if raw == "" || raw == "memory" || raw == "memory://" {
		return StorageConfig{Type: "memory"}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return StorageConfig{}, fmt.Errorf("invalid STORAGE_URL: %w", err)
	}

	switch u.Scheme {
	case "file":
		// file://./data parses with "." as the host
		dir := u.Host + u.Path
		if dir == "" {
			return StorageConfig{}, errors.New("filesystem path cannot be empty in STORAGE_URL")
		}
		return StorageConfig{Type: "fs", BaseDir: dir}, nil

	case "s3":
		if u.Host == "" {
			return StorageConfig{}, errors.New("bucket cannot be empty in STORAGE_URL")
		}
		q := u.Query()
		region := q.Get("region")
		if region == "" {
			region = "us-east-1"
		}
		return StorageConfig{
			Type:         "s3",
			Bucket:       u.Host,
			Region:       region,
			Endpoint:     q.Get("endpoint"),
			UsePathStyle: q.Get("path_style") == "true",
		}, nil
	}

	return StorageConfig{}, fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', or 's3://...')", raw)
}
