package config

import (
	"fmt"
	"strings"
	"time"
)

// WithPort sets the server port.
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port != "" {
			c.Port = port
		}
		return nil
	}
}

// WithEnvironment sets the runtime environment name.
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env != "" {
			c.Environment = env
		}
		return nil
	}
}

// WithDatabaseURL configures the repository from a connection string:
// "memory" or a postgresql:// URL.
func WithDatabaseURL(url string) Option {
	return func(c *ServerConfig) error {
		return applyDatabaseURL(c, url)
	}
}

// WithStorageURL configures blob storage from a connection string:
// "memory://" or "s3://bucket?region=...&endpoint=...".
func WithStorageURL(url string) Option {
	return func(c *ServerConfig) error {
		return applyStorageURL(c, url)
	}
}

// WithPublicBaseURL sets the public-read bucket base used by recovery
// fetches.
func WithPublicBaseURL(url string) Option {
	return func(c *ServerConfig) error {
		c.PublicBaseURL = url
		return nil
	}
}

// WithFetchTimeout bounds each recovery fetch attempt.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *ServerConfig) error {
		if d > 0 {
			c.FetchTimeout = d
		}
		return nil
	}
}

// WithRelocationConcurrency bounds the relocation copy/delete fan-out.
func WithRelocationConcurrency(n int) Option {
	return func(c *ServerConfig) error {
		if n > 0 {
			c.RelocationConcurrency = n
		}
		return nil
	}
}

func applyDatabaseURL(c *ServerConfig, dbURL string) error {
	if dbURL == "" || dbURL == "memory" {
		c.DatabaseType = "memory"
		c.DatabaseURL = ""
		return nil
	}
	if strings.HasPrefix(dbURL, "postgresql://") || strings.HasPrefix(dbURL, "postgres://") {
		c.DatabaseType = "postgres"
		c.DatabaseURL = dbURL
		return nil
	}
	return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
}

func applyStorageURL(c *ServerConfig, storageURL string) error {
	if storageURL == "" || storageURL == "memory://" || storageURL == "memory" {
		c.StorageType = "memory"
		return nil
	}
	if rest, ok := strings.CutPrefix(storageURL, "s3://"); ok {
		bucket, query, _ := strings.Cut(rest, "?")
		if bucket == "" {
			return fmt.Errorf("s3 storage URL requires a bucket: %s", storageURL)
		}
		c.StorageType = "s3"
		c.S3.Bucket = bucket
		for _, pair := range strings.Split(query, "&") {
			key, value, _ := strings.Cut(pair, "=")
			switch key {
			case "region":
				c.S3.Region = value
			case "endpoint":
				c.S3.Endpoint = value
			case "path_style":
				c.S3.UsePathStyle = value == "true"
			case "create_bucket":
				c.S3.CreateBucket = value == "true"
			}
		}
		return nil
	}
	return fmt.Errorf("unsupported storage URL format: %s (use 'memory://' or 's3://bucket')", storageURL)
}
