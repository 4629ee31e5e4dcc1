// Package config loads server and tool settings from defaults, an optional
// YAML file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/hebcal-api/internal/display"
)

// Config holds all application settings. The yaml keys are the ones
// accepted in CONFIG_FILE.
type Config struct {
	Port         int    `yaml:"port"`
	Env          string `yaml:"env"` // development, staging, production
	DatabasePath string `yaml:"database_path"`
	APIKey       string `yaml:"api_key"` // guards the saved-date endpoints
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"` // json, text

	// Display defaults, mirroring the date picker settings.
	DefaultLocale          string       `yaml:"default_locale"`
	DisplayFormat          string       `yaml:"display_format"` // e.g. "j בM Y"
	ShowYearInGematria     bool         `yaml:"show_year_in_gematria"`
	ShowDayInHebrew        bool         `yaml:"show_day_in_hebrew"`
	AshkenaziPronunciation bool         `yaml:"use_ashkenazi_pronunciation"`
	FirstDayOfWeek         time.Weekday `yaml:"first_day_of_week"` // 0 Sunday, 1 Monday

	// Hebrew years the API and importer accept.
	MinYear int `yaml:"min_year"`
	MaxYear int `yaml:"max_year"`
	// Memoized new-year computations; 0 disables the cache.
	NewYearCacheSize int `yaml:"new_year_cache_size"`

	// Per client address.
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Defaults returns the settings used when nothing overrides them.
func Defaults() *Config {
	return &Config{
		Port:             8080,
		Env:              EnvDevelopment,
		DatabasePath:     "./data/hebcal.db",
		LogLevel:         "info",
		LogFormat:        "text",
		DefaultLocale:    display.LocaleHebrew,
		DisplayFormat:    display.PatternHebrew,
		FirstDayOfWeek:   time.Sunday,
		MinYear:          5000,
		MaxYear:          6000,
		NewYearCacheSize: 4096,
		RateLimitRPS:     20,
		RateLimitBurst:   40,
	}
}

// Load builds the configuration. A .env file, when present, seeds the
// environment first; CONFIG_FILE names an optional YAML file whose keys
// override the defaults; environment variables override both.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// loadEnv applies set environment variables. Values that fail to parse
// leave the field unchanged.
func (c *Config) loadEnv() {
	envString("ENV", &c.Env)
	envInt("PORT", &c.Port)
	envString("DATABASE_PATH", &c.DatabasePath)
	envString("API_KEY", &c.APIKey)
	envString("LOG_LEVEL", &c.LogLevel)
	envString("LOG_FORMAT", &c.LogFormat)

	envString("DEFAULT_LOCALE", &c.DefaultLocale)
	envString("DISPLAY_FORMAT", &c.DisplayFormat)
	envBool("SHOW_YEAR_IN_GEMATRIA", &c.ShowYearInGematria)
	envBool("SHOW_DAY_IN_HEBREW", &c.ShowDayInHebrew)
	envBool("USE_ASHKENAZI_PRONUNCIATION", &c.AshkenaziPronunciation)
	first := int(c.FirstDayOfWeek)
	envInt("FIRST_DAY_OF_WEEK", &first)
	c.FirstDayOfWeek = time.Weekday(first)

	envInt("MIN_YEAR", &c.MinYear)
	envInt("MAX_YEAR", &c.MaxYear)
	envInt("NEW_YEAR_CACHE_SIZE", &c.NewYearCacheSize)

	envFloat("RATE_LIMIT_RPS", &c.RateLimitRPS)
	envInt("RATE_LIMIT_BURST", &c.RateLimitBurst)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Port < 1 || c.Port > 65535 {
		fail("PORT must be between 1 and 65535, got %d", c.Port)
	}
	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		fail("ENV must be one of: development, staging, production; got %q", c.Env)
	}
	if c.DatabasePath == "" {
		fail("DATABASE_PATH is required")
	}
	if c.Env == EnvProduction && c.APIKey == "" {
		fail("API_KEY is required in production")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		fail("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		fail("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat)
	}

	if !display.IsSupportedLocale(c.DefaultLocale) {
		fail("DEFAULT_LOCALE must be one of: he, en; got %q", c.DefaultLocale)
	}
	if c.DisplayFormat == "" {
		fail("DISPLAY_FORMAT must not be empty")
	}
	if c.FirstDayOfWeek != time.Sunday && c.FirstDayOfWeek != time.Monday {
		fail("FIRST_DAY_OF_WEEK must be 0 (Sunday) or 1 (Monday), got %d", int(c.FirstDayOfWeek))
	}

	if c.MinYear < 1 {
		fail("MIN_YEAR must be at least 1, got %d", c.MinYear)
	}
	if c.MaxYear < c.MinYear {
		fail("MAX_YEAR (%d) must not be below MIN_YEAR (%d)", c.MaxYear, c.MinYear)
	}
	if c.NewYearCacheSize < 0 {
		fail("NEW_YEAR_CACHE_SIZE must not be negative, got %d", c.NewYearCacheSize)
	}
	if c.RateLimitRPS <= 0 {
		fail("RATE_LIMIT_RPS must be positive, got %g", c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		fail("RATE_LIMIT_BURST must be at least 1, got %d", c.RateLimitBurst)
	}

	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// YearInRange reports whether year lies inside [MinYear, MaxYear].
func (c *Config) YearInRange(year int) bool {
	return year >= c.MinYear && year <= c.MaxYear
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		*dst = n
	}
}

func envBool(key string, dst *bool) {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		*dst = b
	}
}

func envFloat(key string, dst *float64) {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		*dst = f
	}
}
