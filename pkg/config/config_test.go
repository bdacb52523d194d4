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

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 30*time.Second, cfg.Workers.SyncInterval)
	assert.Equal(t, 60*time.Second, cfg.Workers.ReorderInterval)
	assert.Equal(t, 50*time.Millisecond, cfg.Hardware.ScanGap)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 500*time.Millisecond, cfg.DB.SlowQuery)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SYNC_INTERVAL_SECONDS", "5")
	t.Setenv("HARDWARE_CARD_DECLINE_OVER", "500000")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 5*time.Second, cfg.Workers.SyncInterval)
	assert.Equal(t, int64(500000), cfg.Hardware.CardDeclineOver)
	assert.InDelta(t, 2.5, cfg.RateLimit.RPS, 0.0001)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss:w/rd", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%3Aw%2Frd@db:5432/pos?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
