package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "localhost", cfg.DBConfig.Host)
	assert.Equal(t, "booking", cfg.DBConfig.DBName)
	assert.Empty(t, cfg.KafkaConfig.Brokers)
	assert.Empty(t, cfg.RedisConfig.Addr)
	assert.Equal(t, 5*time.Minute, cfg.RedisConfig.TTL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 40, cfg.RateLimit.Burst)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOOKING_SERVICE_PORT", ":9090")
	t.Setenv("BOOKING_STORE", "MEMORY")
	t.Setenv("BOOKING_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("BOOKING_REDIS_ADDR", "redis:6379")
	t.Setenv("BOOKING_REDIS_TTL", "30s")
	t.Setenv("BOOKING_RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, "redis:6379", cfg.RedisConfig.Addr)
	assert.Equal(t, 30*time.Second, cfg.RedisConfig.TTL)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoad_UnknownStore(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BOOKING_STORE", "sqlite")

	_, err := Load()
	assert.ErrorContains(t, err, `unknown store "sqlite"`)
}
