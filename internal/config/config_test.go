package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "wind-extremes-fits", cfg.KafkaFitTopic)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, 64, cfg.SweepCacheSize)
	assert.Equal(t, 2000, cfg.SweepMaxPoints)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_FIT_TOPIC", "custom-fits")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("SWEEP_CACHE_SIZE", "16")
	t.Setenv("SWEEP_MAX_POINTS", "800")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-fits", cfg.KafkaFitTopic)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, 16, cfg.SweepCacheSize)
	assert.Equal(t, 800, cfg.SweepMaxPoints)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidSweepSettingsFallBack(t *testing.T) {
	t.Setenv("SWEEP_CACHE_SIZE", "-5")
	t.Setenv("SWEEP_MAX_POINTS", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.SweepCacheSize)
	assert.Equal(t, 2000, cfg.SweepMaxPoints)
}
