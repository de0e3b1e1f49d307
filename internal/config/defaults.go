package config

import (
	"path/filepath"
	"strings"

	"github.com/emrgen/pagepurge/internal/model"
	"github.com/emrgen/pagepurge/internal/service"
)

// ApplyDefaults fills unset fields. Explicit values are kept.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyDatabaseDefaults(&cfg.Database)
	applyPurgeDefaults(&cfg.Purge)
	applyRightsDefaults(&cfg.Rights)
	applyRepositoryDefaults(&cfg.Repository)
	applyCacheDefaults(&cfg.Cache)
	applyJobsDefaults(&cfg.Jobs)
	applyServerDefaults(&cfg.Server)

	if cfg.Blobs.Compression == "" {
		cfg.Blobs.Compression = "none"
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyDatabaseDefaults(cfg *DatabaseConfig) {
	if cfg.Type == "" {
		cfg.Type = "sqlite"
	}
	if cfg.DSN == "" && cfg.Type == "sqlite" {
		cfg.DSN = filepath.Join(GetDataDir(), "wiki.db")
	}
}

func applyPurgeDefaults(cfg *PurgeConfig) {
	if cfg.Namespaces == nil {
		cfg.Namespaces = map[int]bool{}
	}
	if cfg.Reason == "" {
		cfg.Reason = service.DefaultReason
	}
}

func applyRightsDefaults(cfg *RightsConfig) {
	if len(cfg.Groups) == 0 {
		cfg.Groups = map[string][]string{
			"sysop": {service.RightDeletePerm},
		}
	}
}

func applyRepositoryDefaults(cfg *RepositoryConfig) {
	if cfg.Type == "" {
		cfg.Type = "filesystem"
	}
	if cfg.Type == "filesystem" {
		if cfg.Filesystem == nil {
			cfg.Filesystem = map[string]any{}
		}
		if _, ok := cfg.Filesystem["path"]; !ok {
			cfg.Filesystem["path"] = filepath.Join(GetDataDir(), "images")
		}
	}
}

func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.Type == "" {
		cfg.Type = "memory"
	}
}

func applyJobsDefaults(cfg *JobsConfig) {
	if cfg.Backend == "" {
		cfg.Backend = "local"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 2
	}
	if cfg.Poll == "" {
		cfg.Poll = "*/5 * * * * *"
	}
	if cfg.Batch == 0 {
		cfg.Batch = 100
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}
	if cfg.ShutdownTimeout == "" {
		cfg.ShutdownTimeout = "10s"
	}
}

// GetDefaultConfig returns a configuration with every default applied and
// the main and file namespaces eligible.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Purge: PurgeConfig{
			Namespaces: map[int]bool{
				model.NamespaceMain: true,
				model.NamespaceFile: true,
			},
			DeleteContent: true,
		},
	}
	ApplyDefaults(cfg)

	return cfg
}
