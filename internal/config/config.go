package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds everything the server needs at startup. Values come from an
// optional yaml file, with environment variables taking precedence so that
// deployments can override without touching the file.
type Config struct {
	Port string `yaml:"port"`

	DB struct {
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Name     string `yaml:"name"`
	} `yaml:"db"`

	SteamAPIKey   string `yaml:"steam_api_key"`
	CSFloatAPIKey string `yaml:"csfloat_api_key"`
	BuffSession   string `yaml:"buff_session"`

	// RedisAddr switches the price cache memory tier from an in-process map
	// to a shared Redis instance. Empty means in-process.
	RedisAddr string `yaml:"redis_addr"`

	// PriceStaleAfterHours is the persistent-tier staleness window. Two
	// policies have been run in production (1h and 72h), so it is explicit.
	PriceStaleAfterHours int `yaml:"price_stale_after_hours"`
}

// Load reads the yaml file at path (missing file is fine) and applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Port = "8080"
	cfg.PriceStaleAfterHours = 1

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg.Port, "PORT")
	applyEnv(&cfg.DB.User, "DB_USER")
	applyEnv(&cfg.DB.Password, "DB_PASSWORD")
	applyEnv(&cfg.DB.Host, "DB_HOST")
	applyEnv(&cfg.DB.Port, "DB_PORT")
	applyEnv(&cfg.DB.Name, "DB_NAME")
	applyEnv(&cfg.SteamAPIKey, "STEAM_API_KEY")
	applyEnv(&cfg.CSFloatAPIKey, "CSFLOAT_API_KEY")
	applyEnv(&cfg.BuffSession, "BUFF_SESSION")
	applyEnv(&cfg.RedisAddr, "REDIS_ADDR")

	if raw := os.Getenv("PRICE_STALE_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("invalid PRICE_STALE_HOURS value %q", raw)
		}
		cfg.PriceStaleAfterHours = hours
	}

	return cfg, nil
}

// PriceStaleAfter returns the persistent-tier staleness window as a duration.
func (c *Config) PriceStaleAfter() time.Duration {
	return time.Duration(c.PriceStaleAfterHours) * time.Hour
}

// DatabaseURL builds the postgres connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
