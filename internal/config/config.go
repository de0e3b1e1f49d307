package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

const appName = "pagepurge"

// Config is the complete pagepurge configuration.
//
// Sources, highest precedence first: PAGEPURGE_* environment variables (a
// .env file in the working directory is loaded into the environment), the
// config file, defaults.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Purge      PurgeConfig      `mapstructure:"purge"`
	Rights     RightsConfig     `mapstructure:"rights"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Blobs      BlobsConfig      `mapstructure:"blobs"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Jobs       JobsConfig       `mapstructure:"jobs"`
	Server     ServerConfig     `mapstructure:"server"`
}

type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
	// Format is text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
	// Output is stdout, stderr or a file path.
	Output string `mapstructure:"output" validate:"required"`
}

type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	DSN  string `mapstructure:"dsn" validate:"required"`
	// SearchIndex is set when the searchindex table is maintained.
	SearchIndex bool `mapstructure:"search_index"`
}

type PurgeConfig struct {
	// Namespaces maps namespace ids to their eligibility.
	Namespaces    map[int]bool `mapstructure:"namespaces"`
	DeleteContent bool         `mapstructure:"delete_content"`
	Reason        string       `mapstructure:"reason"`
}

type RightsConfig struct {
	// Groups maps group names to the rights they grant.
	Groups map[string][]string `mapstructure:"groups"`
}

// RepositoryConfig selects the binary repository backend. Only the section
// matching Type is used.
type RepositoryConfig struct {
	Type       string         `mapstructure:"type" validate:"required,oneof=filesystem s3 memory"`
	ReadOnly   bool           `mapstructure:"read_only"`
	Filesystem map[string]any `mapstructure:"filesystem"`
	S3         map[string]any `mapstructure:"s3"`
}

type BlobsConfig struct {
	// Compression is used for text rows written by tooling.
	Compression string             `mapstructure:"compression" validate:"omitempty,oneof=none gzip brotli lz4"`
	External    ExternalBlobConfig `mapstructure:"external"`
}

// ExternalBlobConfig configures the store behind es:s3:// addresses. An empty
// section leaves external blobs unsupported.
type ExternalBlobConfig struct {
	S3 map[string]any `mapstructure:"s3"`
}

type CacheConfig struct {
	Type  string         `mapstructure:"type" validate:"required,oneof=memory redis"`
	Redis map[string]any `mapstructure:"redis"`
}

type JobsConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=local redis kafka"`
	Workers int    `mapstructure:"workers" validate:"gte=1"`
	// Poll is the cron spec the worker drains the queue on.
	Poll  string         `mapstructure:"poll" validate:"required"`
	Batch int            `mapstructure:"batch" validate:"gte=1"`
	Redis map[string]any `mapstructure:"redis"`
	Kafka map[string]any `mapstructure:"kafka"`
	// SweepInterval is how often the worker removes orphan content. Zero
	// disables the sweeper.
	SweepInterval string `mapstructure:"sweep_interval"`
}

type ServerConfig struct {
	HTTPPort string `mapstructure:"http_port" validate:"required,numeric"`
	// ShutdownTimeout bounds the graceful shutdown.
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
	// Tokens authenticate purge requests. With none configured every purge
	// request is rejected.
	Tokens []TokenConfig `mapstructure:"tokens" validate:"dive"`
}

// TokenConfig binds a bearer token to the wiki user it acts as.
type TokenConfig struct {
	Actor string `mapstructure:"actor" validate:"required"`
	Token string `mapstructure:"token" validate:"required,min=16"`
}

// Load reads the configuration from configPath, or from the default location
// when configPath is empty, then applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	// PAGEPURGE_DATABASE_DSN overrides database.dsn
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	v.AddConfigPath(GetConfigDir())
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// envKeys are bound explicitly so AutomaticEnv sees them during Unmarshal
// even when the config file does not mention them.
var envKeys = []string{
	"logging.level",
	"logging.format",
	"logging.output",
	"database.type",
	"database.dsn",
	"database.search_index",
	"purge.delete_content",
	"purge.reason",
	"repository.type",
	"repository.read_only",
	"blobs.compression",
	"cache.type",
	"jobs.backend",
	"jobs.workers",
	"jobs.poll",
	"server.http_port",
}

func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}

	return fmt.Errorf("failed to read config file: %w", err)
}

// GetConfigDir returns $XDG_CONFIG_HOME/pagepurge.
func GetConfigDir() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, appName)
}

// GetDataDir returns $XDG_DATA_HOME/pagepurge, home of the default sqlite
// database and filesystem repository.
func GetDataDir() string {
	xdg.Reload()
	return filepath.Join(xdg.DataHome, appName)
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}
