package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds every setting of the kitchen service
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Engine   EngineConfig   `yaml:"engine"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// Timeouts in seconds
	ReadTimeout     int `yaml:"read_timeout"`
	WriteTimeout    int `yaml:"write_timeout"`
	ShutdownTimeout int `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Driver is "postgres", "sqlite" or "memory"
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type EngineConfig struct {
	Locale            string `yaml:"locale"`
	OptimisticLocking bool   `yaml:"optimistic_locking"`
	DefaultListLimit  int    `yaml:"default_list_limit"`
	MaxListLimit      int    `yaml:"max_list_limit"`
	// EventRetention bounds the in-process event log; 0 keeps every event
	EventRetention int `yaml:"event_retention"`
}

type LogConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			AllowedOrigins:  []string{"*"},
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			DSN:          "kitchen.db",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Engine: EngineConfig{
			Locale:           "fr",
			DefaultListLimit: 50,
			MaxListLimit:     500,
			EventRetention:   10000,
		},
		Log: LogConfig{
			Env:   "development",
			Level: "info",
		},
	}
}

// Load reads the optional .env file, then the optional YAML file at path,
// then applies environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getenvDefault("PORT", c.Server.Port)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	c.Database.Driver = getenvDefault("DATABASE_DRIVER", c.Database.Driver)
	c.Database.DSN = getenvDefault("DATABASE_URL", c.Database.DSN)

	c.Engine.Locale = getenvDefault("KITCHEN_LOCALE", c.Engine.Locale)
	if v := os.Getenv("KITCHEN_OPTIMISTIC_LOCKING"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("KITCHEN_OPTIMISTIC_LOCKING: %w", err)
		}
		c.Engine.OptimisticLocking = enabled
	}

	if v := os.Getenv("KITCHEN_EVENT_RETENTION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KITCHEN_EVENT_RETENTION: %w", err)
		}
		c.Engine.EventRetention = n
	}

	c.Log.Env = getenvDefault("ENV", c.Log.Env)
	c.Log.Level = getenvDefault("LOG_LEVEL", c.Log.Level)
	return nil
}

// Validate rejects settings the service cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite", "memory":
	default:
		return fmt.Errorf("database.driver must be postgres, sqlite or memory, got %q", c.Database.Driver)
	}
	if c.Database.Driver != "memory" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for driver %s", c.Database.Driver)
	}
	switch c.Engine.Locale {
	case "fr", "en":
	default:
		return fmt.Errorf("engine.locale must be fr or en, got %q", c.Engine.Locale)
	}
	if c.Engine.EventRetention < 0 {
		return fmt.Errorf("engine.event_retention cannot be negative, got %d", c.Engine.EventRetention)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server.port cannot be empty")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
