package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/emrgen/pagepurge/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks struct tags first, then the rules tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

func validateCustomRules(cfg *Config) error {
	if cfg.Purge.Namespaces[model.NamespaceSpecial] || cfg.Purge.Namespaces[model.NamespaceMedia] {
		return errors.New("purge.namespaces: virtual namespaces cannot be eligible")
	}

	if cfg.Server.ShutdownTimeout != "" {
		if _, err := time.ParseDuration(cfg.Server.ShutdownTimeout); err != nil {
			return fmt.Errorf("server.shutdown_timeout: %w", err)
		}
	}

	if cfg.Jobs.SweepInterval != "" {
		if _, err := time.ParseDuration(cfg.Jobs.SweepInterval); err != nil {
			return fmt.Errorf("jobs.sweep_interval: %w", err)
		}
	}

	seen := make(map[string]bool, len(cfg.Server.Tokens))
	for _, t := range cfg.Server.Tokens {
		if seen[t.Token] {
			return fmt.Errorf("server.tokens: token for %s is used more than once", t.Actor)
		}
		seen[t.Token] = true
	}

	if cfg.Repository.Type == "s3" && len(cfg.Repository.S3) == 0 {
		return errors.New("repository.s3: section is required for the s3 repository")
	}

	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)", e.Namespace(), e.Tag(), e.Value())
	}

	return err
}
