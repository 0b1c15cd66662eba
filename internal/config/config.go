package config

import (
	"errors"
	"fmt"
	"os"
	"store-route-assistant/internal/domain"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const defaultConfigName = ".store-route"

// Config holds the runtime settings shared by the server and the CLI.
type Config struct {
	PlannerURL    string
	StoreLayout   string
	Port          string
	LogLevel      string
	CachePath     string
	CacheMaxAge   time.Duration
	DatabaseURL   string
	HTTPTimeout   time.Duration
	RetryMax      int
	FrameInterval time.Duration
	NoticeTTL     time.Duration
	RegistryFile  string
	Offline       bool

	// Where the section registry comes from: planner, file, db or builtin.
	RegistrySource string

	// File the settings were read from, empty when none was found.
	Source string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PLANNER_URL", "http://localhost:5000")
	v.SetDefault("STORE_LAYOUT", domain.DefaultStoreLayout)
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CACHE_PATH", "")
	v.SetDefault("CACHE_MAX_AGE", "24h")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("RETRY_MAX", 2)
	v.SetDefault("FRAME_INTERVAL", "16ms")
	v.SetDefault("NOTICE_TTL", "5s")
	v.SetDefault("REGISTRY_FILE", "")
	v.SetDefault("REGISTRY_SOURCE", "")
	v.SetDefault("OFFLINE", false)
}

// Load reads settings from .env, environment variables and a YAML file.
// Environment variables win over the file. An empty path means
// $HOME/.store-route.yaml, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load config: read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return Config{}, fmt.Errorf("load config: find home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
	}

	source := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	} else {
		source = v.ConfigFileUsed()
	}

	cfg := Config{
		PlannerURL:    strings.TrimSpace(v.GetString("PLANNER_URL")),
		StoreLayout:   strings.TrimSpace(v.GetString("STORE_LAYOUT")),
		Port:          strings.TrimSpace(v.GetString("PORT")),
		LogLevel:      v.GetString("LOG_LEVEL"),
		CachePath:     strings.TrimSpace(v.GetString("CACHE_PATH")),
		CacheMaxAge:   v.GetDuration("CACHE_MAX_AGE"),
		DatabaseURL:   strings.TrimSpace(v.GetString("DATABASE_URL")),
		HTTPTimeout:   v.GetDuration("HTTP_TIMEOUT"),
		RetryMax:      v.GetInt("RETRY_MAX"),
		FrameInterval: v.GetDuration("FRAME_INTERVAL"),
		NoticeTTL:     v.GetDuration("NOTICE_TTL"),
		RegistryFile:  strings.TrimSpace(v.GetString("REGISTRY_FILE")),
		Offline:       v.GetBool("OFFLINE"),
		Source:        source,
	}
	cfg.RegistrySource = registrySource(strings.ToLower(strings.TrimSpace(v.GetString("REGISTRY_SOURCE"))), cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if !c.Offline && c.PlannerURL == "" {
		return errors.New("PLANNER_URL is required unless OFFLINE is set")
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("RETRY_MAX must be >= 0, got %d", c.RetryMax)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("FRAME_INTERVAL must be positive, got %s", c.FrameInterval)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.NoticeTTL < 0 {
		return fmt.Errorf("NOTICE_TTL must not be negative, got %s", c.NoticeTTL)
	}

	switch c.RegistrySource {
	case RegistryPlanner:
		if c.Offline {
			return errors.New("REGISTRY_SOURCE=planner needs the planner backend; unset OFFLINE")
		}
	case RegistryFile:
		if c.RegistryFile == "" {
			return errors.New("REGISTRY_SOURCE=file needs REGISTRY_FILE")
		}
	case RegistryDB:
		if c.DatabaseURL == "" && c.CachePath == "" {
			return errors.New("REGISTRY_SOURCE=db needs DATABASE_URL or CACHE_PATH")
		}
	case RegistryBuiltin:
	default:
		return fmt.Errorf("unknown REGISTRY_SOURCE %q", c.RegistrySource)
	}
	return nil
}

const (
	RegistryPlanner = "planner"
	RegistryFile    = "file"
	RegistryDB      = "db"
	RegistryBuiltin = "builtin"
)

// registrySource fills in the default source when none is configured: a
// registry file when one is named, otherwise the backend, or the built-in
// store when running offline.
func registrySource(explicit string, c Config) string {
	switch {
	case explicit != "":
		return explicit
	case c.RegistryFile != "":
		return RegistryFile
	case c.Offline:
		return RegistryBuiltin
	default:
		return RegistryPlanner
	}
}

// Get returns the environment value for key, or fallback when it is unset
// or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
