// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRequiredConfig marks a required setting that resolved to nothing
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Validator checks one aspect of the loaded configuration
type Validator interface {
	Validate(cfg *Config) error
}

// validatorsFor returns the validator chain for the given environment
func validatorsFor(env string) []Validator {
	validators := []Validator{&BasicValidator{}}
	if env == "production" {
		validators = append(validators, &SecurityValidator{}, &ProductionValidator{})
	}
	return validators
}

// BasicValidator checks required fields and numeric ranges in every environment
type BasicValidator struct{}

func (v *BasicValidator) Validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("%w: database host", ErrMissingRequiredConfig)
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("%w: database name", ErrMissingRequiredConfig)
	}
	if cfg.Server.Port == "" {
		return fmt.Errorf("%w: server port", ErrMissingRequiredConfig)
	}

	if cfg.Database.MaxConnections < cfg.Database.MinConnections {
		return fmt.Errorf("database max_connections must be >= min_connections")
	}
	if cfg.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis pool_size must be positive")
	}
	if cfg.Security.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive")
	}

	if cfg.Sync.MaxBatchOps <= 0 {
		return fmt.Errorf("sync max_batch_ops must be positive")
	}
	if cfg.Sync.DownloadPageLimit <= 0 {
		return fmt.Errorf("sync download_page_limit must be positive")
	}
	if cfg.Sync.LedgerRetention <= 0 {
		return fmt.Errorf("sync ledger_retention must be positive")
	}
	if cfg.Sync.JobRetention <= 0 {
		return fmt.Errorf("sync job_retention must be positive")
	}
	if cfg.Sync.ReplayLockTTL <= 0 {
		return fmt.Errorf("sync replay_lock_ttl must be positive")
	}

	return nil
}

// ProductionValidator enforces settings that must hold in production
type ProductionValidator struct{}

func (v *ProductionValidator) Validate(cfg *Config) error {
	if cfg.Database.Password == "" || strings.Contains(cfg.Database.Password, "MISSING_") {
		return fmt.Errorf("%w: database password", ErrMissingRequiredConfig)
	}
	if cfg.Security.JWTSecret == "" || strings.Contains(cfg.Security.JWTSecret, "MISSING_") {
		return fmt.Errorf("%w: JWT secret", ErrMissingRequiredConfig)
	}
	if cfg.Security.JWTSecret == "development-secret-change-in-production" {
		return fmt.Errorf("default JWT secret cannot be used in production")
	}

	if cfg.Database.SSLMode == "disable" {
		return fmt.Errorf("database SSL must be enabled in production")
	}
	if !cfg.Security.SecureHeaders {
		return fmt.Errorf("secure headers must be enabled in production")
	}
	if len(cfg.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed origins must be configured in production")
	}

	if cfg.Server.TLSEnabled {
		if cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "" {
			return fmt.Errorf("TLS cert and key files must be provided when TLS is enabled")
		}
	}

	return nil
}

// SecurityValidator checks security settings regardless of where they came from
type SecurityValidator struct{}

func (v *SecurityValidator) Validate(cfg *Config) error {
	if len(cfg.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	if cfg.Security.BcryptCost < 10 {
		return fmt.Errorf("bcrypt cost must be at least 10")
	}
	if cfg.Security.BcryptCost > 15 {
		return fmt.Errorf("bcrypt cost should not exceed 15 for performance reasons")
	}

	for _, origin := range cfg.Security.AllowedOrigins {
		if origin == "*" && cfg.IsProduction() {
			return fmt.Errorf("wildcard origin (*) not allowed in production")
		}
	}

	return nil
}
