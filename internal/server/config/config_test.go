package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, DriverMemory, c.Driver)
	assert.Empty(t, c.DatabaseDSN)
	assert.Empty(t, c.RedisAddr)
	assert.Equal(t, 5*time.Minute, c.TokenCacheTTL)
	assert.Equal(t, 25, c.DefaultPageLimit)
	assert.Equal(t, 10*time.Second, c.ReadTimeout)
	assert.Equal(t, 10*time.Second, c.WriteTimeout)
	assert.Equal(t, 5*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "memory ok", mutate: func(c *Config) {}},
		{name: "sqlite with dsn", mutate: func(c *Config) { c.Driver, c.DatabaseDSN = DriverSQLite, "file:tb.db" }},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Driver = DriverPostgres }, wantErr: `driver "postgres" requires a database DSN`},
		{name: "unknown driver", mutate: func(c *Config) { c.Driver = "mongo" }, wantErr: `unknown storage driver "mongo"`},
		{name: "redis with postgres", mutate: func(c *Config) { c.Driver, c.DatabaseDSN, c.RedisAddr = DriverPostgres, "postgres://db", "redis:6379" }},
		{name: "redis with sqlite file", mutate: func(c *Config) { c.Driver, c.DatabaseDSN, c.RedisAddr = DriverSQLite, "file:tb.db", "redis:6379" }},
		{name: "redis with memory", mutate: func(c *Config) { c.RedisAddr = "redis:6379" }, wantErr: `redis token cache requires durable storage, driver "memory" with DSN "" restarts ids on every start`},
		{name: "redis with sqlite in memory", mutate: func(c *Config) { c.Driver, c.DatabaseDSN, c.RedisAddr = DriverSQLite, ":memory:", "redis:6379" }, wantErr: `redis token cache requires durable storage, driver "sqlite" with DSN ":memory:" restarts ids on every start`},
		{name: "redis with shared-cache memory sqlite", mutate: func(c *Config) { c.Driver, c.DatabaseDSN, c.RedisAddr = DriverSQLite, "file:tb?mode=memory&cache=shared", "redis:6379" }, wantErr: `redis token cache requires durable storage, driver "sqlite" with DSN "file:tb?mode=memory&cache=shared" restarts ids on every start`},
		{name: "zero limit", mutate: func(c *Config) { c.DefaultPageLimit = 0 }, wantErr: "default page limit must be positive, got 0"},
		{name: "negative ttl", mutate: func(c *Config) { c.TokenCacheTTL = -time.Second }, wantErr: "token cache ttl must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestLoad_FlagsWin(t *testing.T) {
	t.Setenv("TASKBOARD_HTTP_ADDR", ":7000")
	t.Setenv("TASKBOARD_PAGE_LIMIT", "50")

	c, err := Load([]string{"-a", ":9999", "-s", "memory", "-test.v"})
	require.NoError(t, err)
	assert.Equal(t, ":9999", c.HTTPAddr)
	assert.Equal(t, 50, c.DefaultPageLimit)
}

func TestLoad_InvalidResult(t *testing.T) {
	_, err := Load([]string{"-s", "postgres", "-d", ""})
	require.Error(t, err)
}
