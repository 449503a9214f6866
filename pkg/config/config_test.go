package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WATCH_HISTORY_LIMIT", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("MONGO_DATABASE", "")

	cfg := Load()
	assert.Equal(t, 50, cfg.WatchHistoryLimit)
	assert.Equal(t, BackendMongo, cfg.StoreBackend)
	assert.Equal(t, "vidtube", cfg.MongoDatabase)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WATCH_HISTORY_LIMIT", "3")
	t.Setenv("STORE_BACKEND", BackendMemory)
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SAMPLING_RATE", "0.25")

	cfg := Load()
	assert.Equal(t, 3, cfg.WatchHistoryLimit)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.True(t, cfg.OTelEnabled)
	assert.InDelta(t, 0.25, cfg.OTelSamplingRate, 1e-9)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("WATCH_HISTORY_LIMIT", "-4")
	t.Setenv("OTEL_SAMPLING_RATE", "7")

	cfg := Load()
	assert.Equal(t, 50, cfg.WatchHistoryLimit)
	assert.InDelta(t, 1.0, cfg.OTelSamplingRate, 1e-9)
}
