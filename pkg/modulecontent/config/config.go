package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trainware/module-content/pkg/modulecontent"
	repomemory "github.com/trainware/module-content/pkg/modulecontent/repo/memory"
	repopg "github.com/trainware/module-content/pkg/modulecontent/repo/postgres"
	memorystorage "github.com/trainware/module-content/pkg/modulecontent/storage/memory"
	s3storage "github.com/trainware/module-content/pkg/modulecontent/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
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
		StorageType:           "memory",
		FetchTimeout:          3 * time.Second,
		RelocationConcurrency: 8,
	}
}

// ServerConfig represents server configuration for the module-content service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Storage configuration
	StorageType string // "memory", "s3"
	S3          S3Config

	// PublicBaseURL is the public-read base of the bucket; the recovery
	// chain fetches snapshots and legacy exports against it over plain HTTP.
	// When empty, recovery reads go through the storage gateway.
	PublicBaseURL string

	FetchTimeout          time.Duration
	RelocationConcurrency int
}

// S3Config holds the S3/MinIO settings used when StorageType is "s3".
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	UseSSL          bool
	UsePathStyle    bool
	CreateBucket    bool
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

	if c.StorageType != "memory" && c.StorageType != "s3" {
		return errors.New("storage_type must be 'memory' or 's3'")
	}

	if c.StorageType == "s3" && c.S3.Bucket == "" {
		return errors.New("s3 bucket is required when using s3 storage")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (modulecontent.Service, error) {
	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, err
	}

	store, err := c.buildBlobStore()
	if err != nil {
		return nil, err
	}

	options := []modulecontent.Option{
		modulecontent.WithRepository(repo),
		modulecontent.WithBlobStore(store),
		modulecontent.WithNotifier(modulecontent.NewLogNotifier(logger)),
		modulecontent.WithLogger(logger),
		modulecontent.WithFetchTimeout(c.FetchTimeout),
		modulecontent.WithRelocationConcurrency(c.RelocationConcurrency),
	}
	if c.PublicBaseURL != "" {
		options = append(options,
			modulecontent.WithFetcher(modulecontent.NewHTTPFetcher(c.PublicBaseURL, c.FetchTimeout)))
	}

	return modulecontent.New(options...)
}

func (c *ServerConfig) buildRepository(ctx context.Context) (modulecontent.Repository, error) {
	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return repomemory.New(), nil
	}
}

func (c *ServerConfig) buildBlobStore() (modulecontent.BlobStore, error) {
	switch c.StorageType {
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UseSSL:                 c.S3.UseSSL,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	default:
		return memorystorage.New(), nil
	}
}
