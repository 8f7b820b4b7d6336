// test/helpers/test_helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mkarlin/stocksync-be/internal/adapters/db"
	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	// Pull PostgreSQL image
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_stocksync",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	// Clean up on test completion
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	// Get connection details
	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_stocksync",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		StatementCacheMode: "describe",
		EnableQueryLogging: testing.Verbose(),
	}

	// Wait for database to be ready
	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	// Run migrations
	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		SourcePath: "../../migrations",
		TableName:  "schema_migrations",
		SchemaName: "public",
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_stocksync",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Sync: config.SyncConfig{
			MaxBatchOps:       500,
			DeltaCacheTTL:     30 * time.Second,
			DownloadPageLimit: 5000,
			LedgerRetention:   90 * 24 * time.Hour,
			JobRetention:      30 * 24 * time.Hour,
			ReplayLockTTL:     15 * time.Minute,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret",
			JWTExpiration:     24 * time.Hour,
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestDevice creates a test device
func CreateTestDevice(overrides ...func(*domain.Device)) *domain.Device {
	device := &domain.Device{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		DeviceID: "test-device-001",
		Name:     "Test Tablet",
		LastSeen: time.Now(),
		Metadata: map[string]interface{}{"platform": "android"},
	}

	for _, override := range overrides {
		override(device)
	}

	return device
}

// CreateTestJob creates a pending sync job ready for replay
func CreateTestJob(overrides ...func(*domain.SyncJob)) *domain.SyncJob {
	job := &domain.SyncJob{
		ID:          uuid.New(),
		TenantID:    uuid.New(),
		SubmittedBy: uuid.New(),
		Status:      domain.JobStatusPending,
		CreatedAt:   time.Now(),
		TempIDMap:   make(map[string]int64),
	}

	for _, override := range overrides {
		override(job)
	}

	return job
}

// CreateTestOperation creates a single sync operation bound to the given job
func CreateTestOperation(jobID uuid.UUID, overrides ...func(*domain.SyncOperation)) *domain.SyncOperation {
	op := &domain.SyncOperation{
		ID:             uuid.New(),
		JobID:          jobID,
		ClientChangeID: "chg-001",
		EntityType:     "product",
		Action:         domain.ActionCreate,
		Payload: map[string]interface{}{
			"name":     "Test Widget",
			"sku":      "SKU-TEST-0001",
			"price":    "19.99",
			"quantity": float64(10),
		},
	}

	for _, override := range overrides {
		override(op)
	}

	return op
}

// CreateTestClientOperations builds an upload batch of create operations
func CreateTestClientOperations(count int) []ports.ClientOperation {
	ops := make([]ports.ClientOperation, count)
	for i := 0; i < count; i++ {
		ops[i] = ports.ClientOperation{
			ClientChangeID: fmt.Sprintf("chg-%03d", i+1),
			EntityType:     "product",
			Action:         "create",
			Payload: map[string]interface{}{
				"name":     fmt.Sprintf("Test Widget %d", i+1),
				"sku":      fmt.Sprintf("SKU-TEST-%04d", i+1),
				"price":    "19.99",
				"quantity": float64(10),
			},
		}
	}
	return ops
}

// CreateTestChangeEntry creates a ledger entry for the given tenant
func CreateTestChangeEntry(tenantID uuid.UUID, version int64, overrides ...func(*domain.ChangeEntry)) domain.ChangeEntry {
	entityID := version
	entry := domain.ChangeEntry{
		Version:    version,
		TenantID:   tenantID,
		EntityType: "product",
		EntityID:   &entityID,
		Action:     string(domain.ActionCreate),
		Payload:    map[string]interface{}{"name": fmt.Sprintf("Widget %d", version)},
		CreatedAt:  time.Now(),
	}

	for _, override := range overrides {
		override(&entry)
	}

	return entry
}

// LoadFixture loads a test fixture file
func LoadFixture(t *testing.T, filename string) []byte {
	t.Helper()

	path := fmt.Sprintf("../../test/fixtures/%s", filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "Failed to load fixture: %s", filename)

	return data
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"sync_conflicts",
		"sync_operations",
		"sync_jobs",
		"sync_cursors",
		"change_ledger",
		"products",
		"categories",
		"suppliers",
		"devices",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}

// SeedDevice inserts a device row directly for integration tests
func SeedDevice(t *testing.T, db *pgxpool.Pool, device *domain.Device) {
	t.Helper()

	ctx := context.Background()
	query := `
		INSERT INTO devices (id, tenant_id, user_id, device_id, name, last_seen, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := db.Exec(ctx, query,
		device.ID, device.TenantID, device.UserID, device.DeviceID,
		device.Name, device.LastSeen, device.Metadata,
	)
	require.NoError(t, err, "Failed to seed device")
}
