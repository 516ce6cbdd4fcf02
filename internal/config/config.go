// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/logger"
	"github.com/hammamikhairi/bulkferm/internal/units"
)

// Env var names.
const (
	EnvUnit           = "BULKFERM_UNIT"
	EnvLogFile        = "BULKFERM_LOG_FILE"
	EnvLogLevel       = "BULKFERM_LOG_LEVEL"
	EnvDataset        = "BULKFERM_DATASET"
	EnvChime          = "BULKFERM_CHIME"
	EnvTick           = "BULKFERM_TICK"
	EnvNotifyCooldown = "BULKFERM_NOTIFY_COOLDOWN"
	EnvMaxEscalation  = "BULKFERM_MAX_ESCALATION"
	EnvWatchInterval  = "BULKFERM_WATCH_INTERVAL"
)

// Config holds all configuration values.
type Config struct {
	// Display unit for temperatures.
	Unit units.Unit

	// Logging
	LogFile  string // "" or "stderr" logs to the console only
	LogLevel logger.Level

	// Optional YAML table replacing the built-in dataset.
	DatasetPath string

	// Batch watching
	Chime          bool
	TickInterval   time.Duration
	NotifyCooldown time.Duration
	MaxEscalation  int
	WatchInterval  time.Duration // progress updates while fermenting
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Unit:           units.Fahrenheit,
		LogFile:        ".bulkferm/bulkferm.log",
		LogLevel:       logger.LevelNormal,
		Chime:          true,
		TickInterval:   time.Second,
		NotifyCooldown: 5 * time.Minute,
		MaxEscalation:  3,
		WatchInterval:  time.Hour,
	}
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Unset keys keep their
// defaults; malformed values are reported with ErrInvalidConfig.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	var err error
	if cfg.Unit, err = units.ParseUnit(get(EnvUnit, string(cfg.Unit))); err != nil {
		return cfg, invalid(EnvUnit, err)
	}
	if cfg.LogLevel, err = logger.ParseLevel(get(EnvLogLevel, cfg.LogLevel.String())); err != nil {
		return cfg, invalid(EnvLogLevel, err)
	}
	cfg.LogFile = get(EnvLogFile, cfg.LogFile)
	cfg.DatasetPath = get(EnvDataset, "")

	if cfg.Chime, err = strconv.ParseBool(get(EnvChime, strconv.FormatBool(cfg.Chime))); err != nil {
		return cfg, invalid(EnvChime, err)
	}
	if cfg.TickInterval, err = positiveDuration(get(EnvTick, cfg.TickInterval.String())); err != nil {
		return cfg, invalid(EnvTick, err)
	}
	if cfg.NotifyCooldown, err = positiveDuration(get(EnvNotifyCooldown, cfg.NotifyCooldown.String())); err != nil {
		return cfg, invalid(EnvNotifyCooldown, err)
	}
	if cfg.MaxEscalation, err = strconv.Atoi(get(EnvMaxEscalation, strconv.Itoa(cfg.MaxEscalation))); err != nil {
		return cfg, invalid(EnvMaxEscalation, err)
	}
	if cfg.MaxEscalation < 0 {
		return cfg, invalid(EnvMaxEscalation, fmt.Errorf("must not be negative"))
	}
	if cfg.WatchInterval, err = positiveDuration(get(EnvWatchInterval, cfg.WatchInterval.String())); err != nil {
		return cfg, invalid(EnvWatchInterval, err)
	}

	return cfg, nil
}

func positiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

func invalid(key string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, key, err)
}
