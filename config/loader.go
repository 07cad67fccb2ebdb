package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the global application configuration
var Config AppConfig

// DefaultPort is used when server.port is unset
const DefaultPort = 16181

// LoadAppConfig loads and validates the application configuration from
// config.yml, falling back to built-in defaults when no file exists.
func LoadAppConfig() error {
	paths := []string{"config.yml", "./config/config.yml"}
	for _, p := range paths {
		cfg, err := LoadFromFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		Config = cfg
		return nil
	}
	cfg := Default()
	applyEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return err
	}
	Config = cfg
	return nil
}

// LoadFromFile reads, defaults and validates the file at path.
func LoadFromFile(path string) (AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, err
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML, applies defaults and env overrides, then validates.
func LoadFromBytes(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	applyEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks struct tags on the whole tree.
func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file is present.
func Default() AppConfig {
	var cfg AppConfig
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Providers.TimeoutMS == 0 {
		cfg.Providers.TimeoutMS = 5000
	}
	if cfg.Simulator.InitialDelayMS == 0 {
		cfg.Simulator.InitialDelayMS = 3000
	}
	if cfg.Simulator.MinStepMS == 0 && cfg.Simulator.MaxStepMS == 0 {
		cfg.Simulator.MinStepMS = 8000
		cfg.Simulator.MaxStepMS = 12000
	}
	if cfg.Cache.Policy == "" {
		cfg.Cache.Policy = "none"
	}
}

// env overrides, applied after the file
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("YATRIQ_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("YATRIQ_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("YATRIQ_BOOKINGS_DB"); v != "" {
		cfg.Bookings.SQLitePath = v
	}
	if v := os.Getenv("YATRIQ_TRACKING_FEED"); v != "" {
		cfg.Tracking.FeedURL = v
	}
	if v := os.Getenv("YATRIQ_TRACKING_GTFS"); v != "" {
		cfg.Tracking.GTFSPath = v
	}
}
