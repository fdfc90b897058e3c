package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/taskboard/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-s string     storage driver: memory, postgres or sqlite
//	-d string     database DSN
//	-r string     Redis address for the token cache
//	-n int        Redis database number
//	-t duration   token cache TTL (e.g., "5m"; "0" disables the in-process cache)
//	-l int        default page limit
//	-v string     log level
//
// args are filtered with flagx.FilterArgs first, so flags owned by other
// components (-c, -test.*) do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-d", "-r", "-n", "-t", "-l", "-v"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.Driver, "s", config.Driver, "storage driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.IntVar(&config.RedisDB, "n", config.RedisDB, "redis database")
	fs.DurationVar(&config.TokenCacheTTL, "t", config.TokenCacheTTL, "token cache ttl")
	fs.IntVar(&config.DefaultPageLimit, "l", config.DefaultPageLimit, "default page limit")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	return fs.Parse(args)
}
