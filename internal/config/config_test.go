package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		configPathEnv, "PORT", "LOG_LEVEL", "ENVIRONMENT", "CORS_ORIGINS",
		"APIFY_API_TOKEN", "APIFY_ACTOR", "APIFY_BASE_URL", "FETCH_TIMEOUT",
		"FETCH_RATE_PER_SEC", "CHANNEL_CONCURRENCY", "EXPORT_TARGET",
		"GOOGLE_SHEETS_ID", "GOOGLE_TOKEN_JSON", "GOOGLE_TOKEN_FILE", "CSV_DIR",
		"DATABASE_URL", "REDIS_URL", "CACHE_TTL", "JOB_WORKERS", "JOB_QUEUE_SIZE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.ExportTarget != TargetSheets {
		t.Errorf("export target = %q, want sheets", cfg.ExportTarget)
	}
	if cfg.FetchTimeout != 5*time.Minute {
		t.Errorf("fetch timeout = %s, want 5m", cfg.FetchTimeout)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("cache ttl = %s, want 15m", cfg.CacheTTL)
	}
	if cfg.Concurrency != 1 {
		t.Errorf("concurrency = %d, want 1", cfg.Concurrency)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	yml := "port: \"9000\"\nexportTarget: csv\ncsvDir: /tmp/out\ncacheTtl: 2m\nchannelConcurrency: 3\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("port = %q, want env value 9100", cfg.Port)
	}
	if cfg.ExportTarget != TargetCSV || cfg.CSVDir != "/tmp/out" {
		t.Errorf("export = %q %q, want csv /tmp/out", cfg.ExportTarget, cfg.CSVDir)
	}
	if cfg.CacheTTL != 2*time.Minute {
		t.Errorf("cache ttl = %s, want 2m", cfg.CacheTTL)
	}
	if cfg.Concurrency != 3 {
		t.Errorf("concurrency = %d, want 3", cfg.Concurrency)
	}
	if cfg.GoogleTokenFile != "token.json" {
		t.Errorf("unset keys should keep defaults, got token file %q", cfg.GoogleTokenFile)
	}
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_EnvParsing(t *testing.T) {
	clearEnv(t)
	t.Setenv("FETCH_TIMEOUT", "90s")
	t.Setenv("FETCH_RATE_PER_SEC", "0.5")
	t.Setenv("JOB_WORKERS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FetchTimeout != 90*time.Second {
		t.Errorf("fetch timeout = %s, want 90s", cfg.FetchTimeout)
	}
	if cfg.FetchRate != 0.5 {
		t.Errorf("fetch rate = %v, want 0.5", cfg.FetchRate)
	}
	if cfg.JobWorkers != 2 {
		t.Errorf("job workers = %d, want default 2 on bad input", cfg.JobWorkers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"none target", func(c *Config) { c.ExportTarget = TargetNone }, false},
		{"unknown target", func(c *Config) { c.ExportTarget = "excel" }, true},
		{"postgres without url", func(c *Config) { c.ExportTarget = TargetPostgres }, true},
		{"postgres with url", func(c *Config) {
			c.ExportTarget = TargetPostgres
			c.DatabaseURL = "postgres://localhost/standout"
		}, false},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, true},
		{"negative rate", func(c *Config) { c.FetchRate = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSheetsAndCredentialsConfigured(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(tokenFile, []byte(`{}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		cfg       Config
		wantSheet bool
		wantCreds bool
	}{
		{"nothing", Config{GoogleTokenFile: filepath.Join(t.TempDir(), "missing.json")}, false, false},
		{"sheet id only", Config{SpreadsheetID: "s1"}, true, false},
		{"inline token", Config{GoogleTokenJSON: `{"refresh_token":"r"}`}, false, true},
		{"token file", Config{SpreadsheetID: "s1", GoogleTokenFile: tokenFile}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.SheetsConfigured(); got != tt.wantSheet {
				t.Errorf("SheetsConfigured = %v, want %v", got, tt.wantSheet)
			}
			if got := tt.cfg.GoogleCredentialsConfigured(); got != tt.wantCreds {
				t.Errorf("GoogleCredentialsConfigured = %v, want %v", got, tt.wantCreds)
			}
		})
	}
}
