package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// WithEnv reads the process environment into the config. Variables that
// are unset keep the value already in place, so WithEnv goes first and
// programmatic options after it win.
//
//	PORT, ENVIRONMENT
//	DATABASE_URL          "memory" (default) or "postgres://..."
//	DB_SCHEMA, AUTO_MIGRATE
//	STORAGE_URL           "memory://", "file:///path" or "s3://bucket?region=..."
//	PUBLIC_BASE_URL, SIGNATURE_SECRET_KEY, PRESIGN_EXPIRES_SECONDS
//	URL_CACHE_TTL, MAX_UPLOAD_BYTES
//	ADMIN_PASSWORD_HASH, JWT_SECRET, JWT_TTL
//	CORS_ALLOWED_ORIGINS  comma separated
//	AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, S3_USE_PATH_STYLE, S3_CREATE_BUCKET
func WithEnv() Option {
	return func(c *ServerConfig) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("read environment: %w", err)
		}
		if err := applyDatabaseURL(c, c.DatabaseURL); err != nil {
			return err
		}
		return applyStorageURL(c, c.StorageURL)
	}
}

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the database from a URL. "memory" or an empty
// URL selects the in-memory store.
func WithDatabase(url string) Option {
	return func(c *ServerConfig) error {
		return applyDatabaseURL(c, url)
	}
}

// WithDatabaseSchema sets the database schema (for Postgres)
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithAutoMigrate applies the Postgres schema on startup
func WithAutoMigrate(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.AutoMigrate = enabled
		return nil
	}
}

// WithStorageURL configures the blob store from a storage URL
func WithStorageURL(url string) Option {
	return func(c *ServerConfig) error {
		return applyStorageURL(c, url)
	}
}

// WithS3Credentials sets static credentials for S3 storage
func WithS3Credentials(accessKeyID, secretAccessKey string) Option {
	return func(c *ServerConfig) error {
		c.S3.AccessKeyID = accessKeyID
		c.S3.SecretAccessKey = secretAccessKey
		return nil
	}
}

// WithSignatureSecret sets the HMAC key for file URLs served by this server
func WithSignatureSecret(secret string) Option {
	return func(c *ServerConfig) error {
		c.SignatureSecretKey = secret
		return nil
	}
}

// WithPresignExpiry sets the lifetime of signed file URLs
func WithPresignExpiry(seconds int) Option {
	return func(c *ServerConfig) error {
		if seconds <= 0 {
			return fmt.Errorf("expiry seconds must be positive, got: %d", seconds)
		}
		c.PresignExpiresSeconds = seconds
		return nil
	}
}

// WithPublicBaseURL sets the origin used in file URLs
func WithPublicBaseURL(baseURL string) Option {
	return func(c *ServerConfig) error {
		c.PublicBaseURL = baseURL
		return nil
	}
}

// WithAdmin enables admin login with a bcrypt password hash and a JWT
// signing secret
func WithAdmin(passwordHash, jwtSecret string) Option {
	return func(c *ServerConfig) error {
		if passwordHash == "" {
			return fmt.Errorf("admin password hash cannot be empty")
		}
		if jwtSecret == "" {
			return fmt.Errorf("jwt secret cannot be empty")
		}
		c.AdminPasswordHash = passwordHash
		c.JWTSecret = jwtSecret
		return nil
	}
}

// WithCORSOrigins replaces the allowed CORS origins
func WithCORSOrigins(origins ...string) Option {
	return func(c *ServerConfig) error {
		c.CORSAllowedOrigins = origins
		return nil
	}
}

func applyDatabaseURL(c *ServerConfig, url string) error {
	dbType, err := databaseType(url)
	if err != nil {
		return err
	}
	c.DatabaseType = dbType
	c.DatabaseURL = url
	if dbType == "memory" {
		c.DatabaseURL = ""
	}
	return nil
}

func applyStorageURL(c *ServerConfig, url string) error {
	storage, err := ParseStorageURL(url)
	if err != nil {
		return err
	}
	c.StorageURL = url
	c.Storage = storage
	return nil
}
