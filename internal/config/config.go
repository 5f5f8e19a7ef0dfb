package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// configPathEnv names an optional YAML file applied before environment
// variables. Environment variables always win.
const configPathEnv = "ANALYZER_CONFIG"

// Export targets.
const (
	TargetSheets   = "sheets"
	TargetCSV      = "csv"
	TargetPostgres = "postgres"
	TargetNone     = "none"
)

type Config struct {
	Port        string `yaml:"port"`
	LogLevel    string `yaml:"logLevel"`
	Environment string `yaml:"environment"`
	CORSOrigins string `yaml:"corsOrigins"`

	ApifyToken   string        `yaml:"apifyToken"`
	ApifyActor   string        `yaml:"apifyActor"`
	ApifyBaseURL string        `yaml:"apifyBaseUrl"`
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
	FetchRate    float64       `yaml:"fetchRatePerSec"`
	Concurrency  int           `yaml:"channelConcurrency"`

	ExportTarget    string `yaml:"exportTarget"`
	SpreadsheetID   string `yaml:"googleSheetsId"`
	GoogleTokenJSON string `yaml:"googleTokenJson"`
	GoogleTokenFile string `yaml:"googleTokenFile"`
	CSVDir          string `yaml:"csvDir"`

	DatabaseURL string        `yaml:"databaseUrl"`
	RedisURL    string        `yaml:"redisUrl"`
	CacheTTL    time.Duration `yaml:"cacheTtl"`

	JobWorkers   int `yaml:"jobWorkers"`
	JobQueueSize int `yaml:"jobQueueSize"`
}

func defaults() *Config {
	return &Config{
		Port:            "8080",
		LogLevel:        "info",
		Environment:     "development",
		CORSOrigins:     "*",
		ApifyActor:      "streamers/youtube-scraper",
		ApifyBaseURL:    "https://api.apify.com",
		FetchTimeout:    5 * time.Minute,
		Concurrency:     1,
		ExportTarget:    TargetSheets,
		GoogleTokenFile: "token.json",
		CSVDir:          "exports",
		CacheTTL:        15 * time.Minute,
		JobWorkers:      2,
		JobQueueSize:    100,
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by ANALYZER_CONFIG, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.ApifyToken = getEnv("APIFY_API_TOKEN", cfg.ApifyToken)
	cfg.ApifyActor = getEnv("APIFY_ACTOR", cfg.ApifyActor)
	cfg.ApifyBaseURL = getEnv("APIFY_BASE_URL", cfg.ApifyBaseURL)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", cfg.FetchTimeout)
	cfg.FetchRate = getEnvFloat("FETCH_RATE_PER_SEC", cfg.FetchRate)
	cfg.Concurrency = getEnvInt("CHANNEL_CONCURRENCY", cfg.Concurrency)

	cfg.ExportTarget = getEnv("EXPORT_TARGET", cfg.ExportTarget)
	cfg.SpreadsheetID = getEnv("GOOGLE_SHEETS_ID", cfg.SpreadsheetID)
	cfg.GoogleTokenJSON = getEnv("GOOGLE_TOKEN_JSON", cfg.GoogleTokenJSON)
	cfg.GoogleTokenFile = getEnv("GOOGLE_TOKEN_FILE", cfg.GoogleTokenFile)
	cfg.CSVDir = getEnv("CSV_DIR", cfg.CSVDir)

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.CacheTTL = getEnvDuration("CACHE_TTL", cfg.CacheTTL)

	cfg.JobWorkers = getEnvInt("JOB_WORKERS", cfg.JobWorkers)
	cfg.JobQueueSize = getEnvInt("JOB_QUEUE_SIZE", cfg.JobQueueSize)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.ExportTarget {
	case TargetSheets, TargetCSV, TargetNone:
	case TargetPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: EXPORT_TARGET=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("config: unknown EXPORT_TARGET %q (want sheets, csv, postgres or none)", c.ExportTarget)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("config: CHANNEL_CONCURRENCY must be at least 1")
	}
	if c.FetchRate < 0 {
		return fmt.Errorf("config: FETCH_RATE_PER_SEC must not be negative")
	}
	return nil
}

// SheetsConfigured reports whether a default spreadsheet is set.
func (c *Config) SheetsConfigured() bool {
	return c.SpreadsheetID != ""
}

// GoogleCredentialsConfigured reports whether Google credentials are
// available inline or in the token file.
func (c *Config) GoogleCredentialsConfigured() bool {
	if c.GoogleTokenJSON != "" {
		return true
	}
	_, err := os.Stat(c.GoogleTokenFile)
	return c.GoogleTokenFile != "" && err == nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
