package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all registry settings, populated from environment variables.
type Config struct {
	DataFile        string
	LogLevel        string
	LogFormat       string
	MetricsAddr     string // empty disables the health/metrics endpoint
	ShutdownTimeout time.Duration

	// SpatialIndex enables the R-tree prefilter for nearby queries.
	SpatialIndex bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	spatialIndex, err := parseBool("SPATIAL_INDEX", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataFile:        sharedcfg.EnvOrDefault("RELATOS_FILE", "relatos.txt"),
		LogLevel:        strings.ToLower(sharedcfg.EnvOrDefault("LOG_LEVEL", "warn")),
		LogFormat:       strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", "text")),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,
		SpatialIndex:    spatialIndex,
	}

	if strings.TrimSpace(cfg.DataFile) == "" {
		return nil, errors.New("RELATOS_FILE must not be empty")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}

	return cfg, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
