package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "TASKBOARD_"

// parseEnv overlays TASKBOARD_* variables. Values come from lookup first and
// from the dotenv file second; a missing dotenv file is not an error.
// DATABASE_URL is honoured when TASKBOARD_DATABASE_DSN is unset.
func parseEnv(config *Config, dotenv string, lookup func(string) (string, bool)) error {
	fileVars := map[string]string{}
	if dotenv != "" {
		vars, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", dotenv, err)
		}
	}

	get := func(name string) (string, bool) {
		if v, ok := lookup(name); ok {
			return v, true
		}
		v, ok := fileVars[name]
		return v, ok
	}

	if v, ok := get("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}

	strs := map[string]*string{
		"HTTP_ADDR":    &config.HTTPAddr,
		"DRIVER":       &config.Driver,
		"DATABASE_DSN": &config.DatabaseDSN,
		"REDIS_ADDR":   &config.RedisAddr,
		"LOG_LEVEL":    &config.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := get(envPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"REDIS_DB":   &config.RedisDB,
		"PAGE_LIMIT": &config.DefaultPageLimit,
	}
	for name, dst := range ints {
		if v, ok := get(envPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"TOKEN_CACHE_TTL":  &config.TokenCacheTTL,
		"READ_TIMEOUT":     &config.ReadTimeout,
		"WRITE_TIMEOUT":    &config.WriteTimeout,
		"SHUTDOWN_TIMEOUT": &config.ShutdownTimeout,
	}
	for name, dst := range durations {
		if v, ok := get(envPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = d
		}
	}
	return nil
}
