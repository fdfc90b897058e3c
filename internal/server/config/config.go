// Package config handles configuration for the server component:
// defaults, a JSON file overlay, environment variables and command-line flags,
// applied in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds runtime settings for the task board server.
//
// Fields:
//   - HTTPAddr: bind address of the HTTP API.
//   - Driver: storage backend, one of memory, postgres or sqlite.
//   - DatabaseDSN: connection string for the SQL drivers.
//   - RedisAddr / RedisDB: Redis token cache; empty address disables it.
//     Only allowed with durable storage (see DurableStorage).
//   - TokenCacheTTL: lifetime of cached token lookups. Zero with no Redis
//     address disables token caching altogether.
//   - DefaultPageLimit: page size when a request has no limit parameter.
//   - ReadTimeout / WriteTimeout / ShutdownTimeout: HTTP server timeouts.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	HTTPAddr         string
	Driver           string
	DatabaseDSN      string
	RedisAddr        string
	RedisDB          int
	TokenCacheTTL    time.Duration
	DefaultPageLimit int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	LogLevel         string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.Driver = DriverMemory
	c.DatabaseDSN = ""
	c.RedisAddr = ""
	c.RedisDB = 0
	c.TokenCacheTTL = 5 * time.Minute
	c.DefaultPageLimit = 25
	c.ReadTimeout = 10 * time.Second
	c.WriteTimeout = 10 * time.Second
	c.ShutdownTimeout = 5 * time.Second
	c.LogLevel = "info"
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("driver %q requires a database DSN", c.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	if c.RedisAddr != "" && !c.DurableStorage() {
		return fmt.Errorf("redis token cache requires durable storage, driver %q with DSN %q restarts ids on every start", c.Driver, c.DatabaseDSN)
	}
	if c.DefaultPageLimit <= 0 {
		return fmt.Errorf("default page limit must be positive, got %d", c.DefaultPageLimit)
	}
	if c.TokenCacheTTL < 0 {
		return fmt.Errorf("token cache ttl must not be negative")
	}
	return nil
}

// DurableStorage reports whether user ids survive a restart and are shared
// by every instance. Only such stores can back a shared token cache.
func (c *Config) DurableStorage() bool {
	switch c.Driver {
	case DriverPostgres:
		return true
	case DriverSQLite:
		dsn := strings.ToLower(c.DatabaseDSN)
		return !strings.Contains(dsn, ":memory:") && !strings.Contains(dsn, "mode=memory")
	default:
		return false
	}
}

// Load builds a Config from defaults, the JSON file named by -c/-config,
// the environment (a .env file in the working directory included) and args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, ".env", os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
