package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/taskboard/internal/flagx"
	"github.com/dmitrijs2005/taskboard/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept "1s" style strings or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr         string          `json:"http_addr"`
	Driver           string          `json:"driver"`
	DatabaseDSN      string          `json:"database_dsn"`
	RedisAddr        string          `json:"redis_addr"`
	RedisDB          *int            `json:"redis_db"`
	TokenCacheTTL    *timex.Duration `json:"token_cache_ttl"`
	DefaultPageLimit int             `json:"default_page_limit"`
	ReadTimeout      timex.Duration  `json:"read_timeout"`
	WriteTimeout     timex.Duration  `json:"write_timeout"`
	ShutdownTimeout  timex.Duration  `json:"shutdown_timeout"`
	LogLevel         string          `json:"log_level"`
}

// parseJSON overlays the fields present in the file named by -c or -config.
// Without either flag nothing is loaded.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.Driver, c.Driver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisAddr, c.RedisAddr)
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	// an explicit zero TTL turns caching off
	if c.TokenCacheTTL != nil {
		config.TokenCacheTTL = c.TokenCacheTTL.Duration
	}
	if c.DefaultPageLimit != 0 {
		config.DefaultPageLimit = c.DefaultPageLimit
	}
	if c.ReadTimeout.Duration != 0 {
		config.ReadTimeout = c.ReadTimeout.Duration
	}
	if c.WriteTimeout.Duration != 0 {
		config.WriteTimeout = c.WriteTimeout.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
