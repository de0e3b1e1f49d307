package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emrgen/pagepurge/internal/blob"
	"github.com/emrgen/pagepurge/internal/cache"
	"github.com/emrgen/pagepurge/internal/compress"
	"github.com/emrgen/pagepurge/internal/filerepo"
	"github.com/emrgen/pagepurge/internal/module"
	"github.com/emrgen/pagepurge/internal/queue"
	"github.com/emrgen/pagepurge/internal/service"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConfigureLogging applies the logging section to the standard logrus logger.
func ConfigureLogging(cfg LoggingConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	switch cfg.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer
	switch cfg.Output {
	case "stdout", "":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = file
	}
	logrus.SetOutput(out)

	return nil
}

// GetDb opens the wiki database.
func GetDb(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Type {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "sqlite":
		if dir := filepath.Dir(cfg.Database.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.Database.DSN + "?_busy_timeout=5000&_foreign_keys=off")
	default:
		return nil, fmt.Errorf("unknown database type: %q", cfg.Database.Type)
	}

	logLevel := logger.Warn
	if cfg.Logging.Level == "DEBUG" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Database.Type, err)
	}

	return db, nil
}

// PurgeOptions converts the purge section into engine options.
func PurgeOptions(cfg *Config) service.Options {
	return service.Options{
		Namespaces:    cfg.Purge.Namespaces,
		DeleteContent: cfg.Purge.DeleteContent,
		SearchIndex:   cfg.Database.SearchIndex,
		Reason:        cfg.Purge.Reason,
	}
}

// S3Options is the option map shared by the s3 repository and the external
// blob store.
type S3Options struct {
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	KeyPrefix       string `mapstructure:"key_prefix"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	MaxRetries      int    `mapstructure:"max_retries"`
}

// NewS3Client builds an S3 client from an option map. A custom endpoint
// switches to path style addressing for MinIO and Localstack.
func NewS3Client(ctx context.Context, options map[string]any) (*s3.Client, *S3Options, error) {
	var opts S3Options
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, nil, fmt.Errorf("failed to decode s3 config: %w", err)
	}
	if opts.Region == "" {
		return nil, nil, fmt.Errorf("s3: region is required")
	}

	loadOptions := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(opts.Region),
	}

	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOptions = append(loadOptions, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 5
	}
	loadOptions = append(loadOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return client, &opts, nil
}

// CreateRepository builds the binary repository selected by cfg.Type.
func CreateRepository(ctx context.Context, cfg *RepositoryConfig) (*filerepo.Repo, error) {
	var (
		backend filerepo.Backend
		err     error
	)

	switch cfg.Type {
	case "memory":
		backend = filerepo.NewMemoryBackend()
	case "filesystem":
		var opts struct {
			Path string `mapstructure:"path"`
		}
		if err := mapstructure.Decode(cfg.Filesystem, &opts); err != nil {
			return nil, fmt.Errorf("failed to decode filesystem repository config: %w", err)
		}
		if opts.Path == "" {
			return nil, fmt.Errorf("filesystem repository: path is required")
		}
		backend, err = filerepo.NewFSBackend(opts.Path)
	case "s3":
		client, opts, cerr := NewS3Client(ctx, cfg.S3)
		if cerr != nil {
			return nil, cerr
		}
		backend, err = filerepo.NewS3Backend(filerepo.S3BackendConfig{
			Client:    client,
			Bucket:    opts.Bucket,
			KeyPrefix: opts.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown repository type: %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	logrus.Infof("%s file repository initialized (read only: %v)", cfg.Type, cfg.ReadOnly)

	return filerepo.New(backend, filerepo.WithReadOnly(cfg.ReadOnly)), nil
}

// CreateBlobStore builds the blob store. Without an external section only
// text table addresses can be resolved.
func CreateBlobStore(ctx context.Context, cfg *BlobsConfig) (*blob.Store, error) {
	codec, err := compress.New(cfg.Compression)
	if err != nil {
		return nil, err
	}

	if len(cfg.External.S3) == 0 {
		return blob.NewStore(nil, codec), nil
	}

	client, _, err := NewS3Client(ctx, cfg.External.S3)
	if err != nil {
		return nil, err
	}

	return blob.NewStore(blob.NewS3External(client), codec), nil
}

// CreateExistenceCache builds the title existence cache.
func CreateExistenceCache(cfg *CacheConfig) (cache.ExistenceCache, error) {
	switch cfg.Type {
	case "memory":
		return cache.NewMemoryExistenceCache(), nil
	case "redis":
		opts, err := decodeRedisOptions(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisExistenceCache(cache.NewRedisClient(opts)), nil
	default:
		return nil, fmt.Errorf("unknown cache type: %q", cfg.Type)
	}
}

// CreateTaskQueue builds the queue carrying deferred tasks to workers. The
// local backend has no queue and returns nil.
func CreateTaskQueue(cfg *JobsConfig) (queue.TaskQueue, error) {
	switch cfg.Backend {
	case "local":
		return nil, nil
	case "redis":
		opts, err := decodeRedisOptions(cfg.Redis)
		if err != nil {
			return nil, err
		}
		var name struct {
			Queue string `mapstructure:"queue"`
		}
		if err := mapstructure.Decode(cfg.Redis, &name); err != nil {
			return nil, err
		}
		return queue.NewRedisQueue(cache.NewRedisClient(opts), name.Queue), nil
	case "kafka":
		var opts queue.KafkaOptions
		if err := mapstructure.Decode(cfg.Kafka, &opts); err != nil {
			return nil, fmt.Errorf("failed to decode kafka config: %w", err)
		}
		if opts.Brokers == "" {
			return nil, fmt.Errorf("kafka: brokers are required")
		}
		return queue.NewKafkaQueue(opts), nil
	default:
		return nil, fmt.Errorf("unknown jobs backend: %q", cfg.Backend)
	}
}

// decodeRedisOptions ignores keys that are not connection options.
// TokenVerifier builds the bearer token table for the purge api.
func TokenVerifier(cfg *ServerConfig) module.TokenVerifier {
	tokens := make(module.StaticTokens, len(cfg.Tokens))
	for _, t := range cfg.Tokens {
		tokens[t.Token] = t.Actor
	}

	return tokens
}

func decodeRedisOptions(options map[string]any) (cache.RedisOptions, error) {
	var opts cache.RedisOptions
	if err := mapstructure.Decode(options, &opts); err != nil {
		return opts, fmt.Errorf("failed to decode redis config: %w", err)
	}
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}

	return opts, nil
}

// Duration parses a duration option, zero when unset.
func Duration(value string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0
	}

	return d
}
