// Package config loads the two configuration layers of pubindex: server
// settings from the environment and site settings from a YAML file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every server environment variable.
const EnvPrefix = "PUBINDEX_"

// Server holds process-level settings, read from PUBINDEX_* variables.
type Server struct {
	Addr       string `env:"ADDR" envDefault:":3000" validate:"required"`
	SiteConfig string `env:"SITE_CONFIG" envDefault:"site.yaml"`
	Env        string `env:"ENV" envDefault:"development" validate:"oneof=development production"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFile  string `env:"LOG_FILE"` // optional JSON log file, rotated

	// Preview image cache: "sqlite", "redis" or "none".
	Cache        string        `env:"CACHE" envDefault:"sqlite" validate:"oneof=sqlite redis none"`
	DatabasePath string        `env:"DB_PATH" envDefault:"data/pubindex.db"`
	RedisURL     string        `env:"REDIS_URL" validate:"required_if=Cache redis"`
	CachePrefix  string        `env:"CACHE_PREFIX" envDefault:"pubindex:"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"0s"` // 0 keeps entries forever

	ReloadSchedule string `env:"RELOAD_SCHEDULE" envDefault:"@every 5m"` // cron spec, empty disables

	RenderLimit   int           `env:"RENDER_LIMIT" envDefault:"30" validate:"gte=1"`
	RenderWindow  time.Duration `env:"RENDER_WINDOW" envDefault:"1m" validate:"gt=0"`
	RenderWorkers int           `env:"RENDER_WORKERS" envDefault:"4" validate:"gte=1"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// IsDevelopment reports whether the server runs in development mode.
func (s Server) IsDevelopment() bool {
	return s.Env == "development"
}

// LoadServer parses the process environment.
func LoadServer() (*Server, error) {
	return loadServer(env.Options{Prefix: EnvPrefix})
}

// LoadServerFrom parses the given variables instead of the process
// environment. Keys carry the PUBINDEX_ prefix.
func LoadServerFrom(vars map[string]string) (*Server, error) {
	return loadServer(env.Options{Prefix: EnvPrefix, Environment: vars})
}

func loadServer(opts env.Options) (*Server, error) {
	cfg := &Server{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := validateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	return cfg, nil
}
