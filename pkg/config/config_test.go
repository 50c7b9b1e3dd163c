package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnvVars clears all tasklist-related environment variables for the test.
func clearEnvVars(t *testing.T) {
	t.Helper()
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "LOG_FORMAT", "SERVICE_VERSION", "OTEL_ENDPOINT",
		"HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT",
		"CORS_ALLOWED_ORIGINS", "JWT_SECRET", "TOKEN_TTL", "BCRYPT_COST",
		"DATABASE_URL", "SQLITE_PATH", "DATABASE_MAX_CONNS", "AUTO_MIGRATE",
		"EVENT_BROKER", "RABBITMQ_URL", "RABBITMQ_EXCHANGE", "REDIS_URL", "REDIS_STREAM",
		"OUTBOX_POLL_INTERVAL", "OUTBOX_BATCH_SIZE", "OUTBOX_MAX_RETRIES",
		"OUTBOX_STATS_INTERVAL", "OUTBOX_RETENTION_DAYS", "OUTBOX_CLEANUP_INTERVAL",
		"OUTBOX_PROCESSOR_ENABLED", "BREAKER_MAX_FAILURES", "BREAKER_TIMEOUT",
		"WORKER_HEALTH_ADDR",
	}
	for _, v := range envVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Duration(0), cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)

	assert.True(t, cfg.UsesSQLite())
	assert.NotEmpty(t, cfg.SQLitePath)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, BrokerNone, cfg.EventBroker)

	assert.Equal(t, 100*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.Equal(t, 14, cfg.OutboxRetentionDays)
	assert.Equal(t, 24*time.Hour, cfg.OutboxCleanupInterval)
	assert.False(t, cfg.OutboxProcessorEnabled)
	assert.Equal(t, uint32(5), cfg.BreakerMaxFailures)
	assert.Equal(t, "0.0.0.0:8081", cfg.WorkerHealthAddr)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("DATABASE_URL", "postgres://tasklist@localhost/tasklist")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("EVENT_BROKER", " RabbitMQ ")
	t.Setenv("OUTBOX_BATCH_SIZE", "25")
	t.Setenv("BREAKER_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.UsesSQLite())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, BrokerRabbitMQ, cfg.EventBroker)
	assert.Equal(t, 25, cfg.OutboxBatchSize)
	assert.Equal(t, 5*time.Second, cfg.BreakerTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("OUTBOX_BATCH_SIZE", "many")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWTSecret:          "x",
			BcryptCost:         10,
			EventBroker:        BrokerNone,
			OutboxBatchSize:    10,
			OutboxPollInterval: time.Second,
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := valid()
		cfg.JWTSecret = ""
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	})

	t.Run("bcrypt cost out of range", func(t *testing.T) {
		cfg := valid()
		cfg.BcryptCost = 2
		assert.ErrorContains(t, cfg.Validate(), "BCRYPT_COST")
	})

	t.Run("unknown broker", func(t *testing.T) {
		cfg := valid()
		cfg.EventBroker = "kafka"
		assert.ErrorContains(t, cfg.Validate(), "EVENT_BROKER")
	})

	t.Run("zero poll interval", func(t *testing.T) {
		cfg := valid()
		cfg.OutboxPollInterval = 0
		assert.ErrorContains(t, cfg.Validate(), "OUTBOX_POLL_INTERVAL")
	})

	t.Run("negative cleanup interval", func(t *testing.T) {
		cfg := valid()
		cfg.OutboxCleanupInterval = -time.Hour
		assert.ErrorContains(t, cfg.Validate(), "OUTBOX_CLEANUP_INTERVAL")
	})
}

func TestLoad_DefaultsPassValidation(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidSettingsFailValidation(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BCRYPT_COST", "99")
	t.Setenv("OUTBOX_BATCH_SIZE", "0")
	t.Setenv("OUTBOX_POLL_INTERVAL", "0s")

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	assert.ErrorContains(t, err, "BCRYPT_COST")
	assert.ErrorContains(t, err, "OUTBOX_BATCH_SIZE")
	assert.ErrorContains(t, err, "OUTBOX_POLL_INTERVAL")
}
