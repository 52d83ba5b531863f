// Package config binds the process's command-line flags and environment
// into a single Config, the way cmd/ wires every subcommand's viper
// instance before handing off to the rest of the program.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved set of settings a hunkdepd process needs,
// regardless of which subcommand is running.
type Config struct {
	// PGURI is the Postgres connection string backing pkg/store. Empty
	// means run with an in-memory-only tracker and no cache.
	PGURI string

	// ListenAddr is the address the "serve" subcommand binds its HTTP
	// API to.
	ListenAddr string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// BindFlags registers the flags common to every subcommand on fs and
// binds them into v, so From can resolve them from flags, environment,
// or defaults in that order.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String("pg-uri", "", "Postgres connection URI for the hunk range cache")
	fs.String("listen-addr", ":8080", "address for the HTTP API to listen on")
	fs.String("log-level", "info", "log level: debug, info, warn, error")

	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix("HUNKDEP")
	v.AutomaticEnv()

	return nil
}

// From reads a Config out of v after BindFlags has registered its keys.
func From(v *viper.Viper) Config {
	return Config{
		PGURI:      v.GetString("pg-uri"),
		ListenAddr: v.GetString("listen-addr"),
		LogLevel:   v.GetString("log-level"),
	}
}
