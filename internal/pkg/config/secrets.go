// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManager resolves sensitive settings that must not live in env files
type SecretsManager interface {
	GetSecret(ctx context.Context, key string) (string, error)
	GetSecrets(ctx context.Context, keys []string) (map[string]string, error)
}

// secretKeys are the settings overlaid from the secrets backend in production
var secretKeys = []string{
	"DB_PASSWORD",
	"REDIS_PASSWORD",
	"JWT_SECRET",
	"AWS_SECRET_ACCESS_KEY",
}

// AWSSecretsManager reads a single JSON secret from AWS Secrets Manager and
// caches the parsed key/value map.
type AWSSecretsManager struct {
	client     *secretsmanager.Client
	secretName string
	cache      map[string]string
	cacheMu    sync.RWMutex
	lastFetch  time.Time
	ttl        time.Duration
	logger     *slog.Logger
}

// NewAWSSecretsManager creates a Secrets Manager client for the named secret
func NewAWSSecretsManager(region, secretName string, logger *slog.Logger) (*AWSSecretsManager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSecretsManager{
		client:     secretsmanager.NewFromConfig(cfg),
		secretName: secretName,
		cache:      make(map[string]string),
		ttl:        5 * time.Minute,
		logger:     logger,
	}, nil
}

// GetSecret retrieves a single secret value
func (sm *AWSSecretsManager) GetSecret(ctx context.Context, key string) (string, error) {
	secrets, err := sm.GetSecrets(ctx, []string{key})
	if err != nil {
		return "", err
	}

	val, ok := secrets[key]
	if !ok {
		return "", fmt.Errorf("secret key %s not found", key)
	}
	return val, nil
}

// GetSecrets retrieves multiple secret values, hitting AWS at most once per TTL
func (sm *AWSSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	sm.cacheMu.RLock()
	if time.Since(sm.lastFetch) < sm.ttl && len(sm.cache) > 0 {
		cached := make(map[string]string)
		for _, key := range keys {
			if val, ok := sm.cache[key]; ok {
				cached[key] = val
			}
		}
		sm.cacheMu.RUnlock()

		if len(cached) == len(keys) {
			return cached, nil
		}
	} else {
		sm.cacheMu.RUnlock()
	}

	sm.logger.Info("fetching secrets from AWS Secrets Manager",
		slog.String("secret_name", sm.secretName))

	result, err := sm.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret value: %w", err)
	}

	var secretData map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &secretData); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	sm.cacheMu.Lock()
	sm.cache = secretData
	sm.lastFetch = time.Now()
	sm.cacheMu.Unlock()

	filtered := make(map[string]string)
	for _, key := range keys {
		if val, ok := secretData[key]; ok {
			filtered[key] = val
		} else {
			sm.logger.Warn("secret key not found in AWS Secrets Manager",
				slog.String("key", key))
		}
	}

	return filtered, nil
}

// EnvSecretsManager reads secrets straight from environment variables. Used
// outside production and as the fallback when no secrets backend is
// configured.
type EnvSecretsManager struct{}

// NewEnvSecretsManager creates an environment-backed secrets manager
func NewEnvSecretsManager() *EnvSecretsManager {
	return &EnvSecretsManager{}
}

// GetSecret retrieves a secret from the environment
func (em *EnvSecretsManager) GetSecret(ctx context.Context, key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("environment variable %s not set", key)
	}
	return val, nil
}

// GetSecrets retrieves multiple secrets from the environment, skipping unset keys
func (em *EnvSecretsManager) GetSecrets(ctx context.Context, keys []string) (map[string]string, error) {
	secrets := make(map[string]string)
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			secrets[key] = val
		}
	}
	return secrets, nil
}

// newSecretsManager picks a backend from SECRETS_SOURCE
func newSecretsManager(logger *slog.Logger) (SecretsManager, error) {
	switch os.Getenv("SECRETS_SOURCE") {
	case "aws":
		region := getEnv("AWS_REGION", "us-east-1")
		name := os.Getenv("SECRETS_NAME")
		if name == "" {
			return nil, fmt.Errorf("SECRETS_NAME is required when SECRETS_SOURCE=aws")
		}
		return NewAWSSecretsManager(region, name, logger)
	default:
		return NewEnvSecretsManager(), nil
	}
}

// applySecrets overlays resolved secrets onto the already-built config
func (c *Config) applySecrets(ctx context.Context, sm SecretsManager, logger *slog.Logger) error {
	secrets, err := sm.GetSecrets(ctx, secretKeys)
	if err != nil {
		return fmt.Errorf("failed to resolve secrets: %w", err)
	}

	if v, ok := secrets["DB_PASSWORD"]; ok {
		c.Database.Password = v
	}
	if v, ok := secrets["REDIS_PASSWORD"]; ok {
		c.Redis.Password = v
		c.Asynq.RedisPassword = v
	}
	if v, ok := secrets["JWT_SECRET"]; ok {
		c.Security.JWTSecret = v
	}
	if v, ok := secrets["AWS_SECRET_ACCESS_KEY"]; ok {
		c.AWS.SecretAccessKey = v
	}

	logger.Debug("secrets overlay applied", slog.Int("resolved", len(secrets)))
	return nil
}
