package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvGROBIDURL, EnvListen, EnvCache, EnvLogLevel, EnvMaxUpload} {
		t.Setenv(k, "")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := Path(), "/custom/config/teiparse/config.yml"; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := Path(), filepath.Join(home, ".config", "teiparse", "config.yml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestLoad_NotFound(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte(`grobid_url: http://grobid:8070
grobid_timeout: 30s
grobid_rate_limit: 1.5
consolidate_citations: true
listen: ":9000"
cache_path: /var/cache/teiparse.db
log_level: debug
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GROBIDURL != "http://grobid:8070" || cfg.GROBIDTimeout != 30*time.Second || cfg.GROBIDRateLimit != 1.5 {
		t.Errorf("GROBID settings = %+v", cfg)
	}
	if !cfg.ConsolidateCitations || cfg.ConsolidateHeader {
		t.Errorf("consolidation = %v/%v", cfg.ConsolidateHeader, cfg.ConsolidateCitations)
	}
	if cfg.MaxUploadBytes != Default().MaxUploadBytes {
		t.Errorf("MaxUploadBytes = %d, want default", cfg.MaxUploadBytes)
	}
	if cfg.Level() != zerolog.DebugLevel {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}

	t.Setenv(EnvGROBIDURL, "https://grobid.example.org")
	t.Setenv(EnvListen, "127.0.0.1:8080")
	t.Setenv(EnvMaxUpload, "1024")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GROBIDURL != "https://grobid.example.org" || cfg.Listen != "127.0.0.1:8080" || cfg.MaxUploadBytes != 1024 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.CachePath != "/var/cache/teiparse.db" {
		t.Errorf("CachePath = %q, want file value", cfg.CachePath)
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("grobid_url: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}

	t.Setenv(EnvMaxUpload, "lots")
	if _, err := Load(filepath.Join(t.TempDir(), "none.yml")); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative URL", func(c *Config) { c.GROBIDURL = "grobid:8070" }},
		{"ftp URL", func(c *Config) { c.GROBIDURL = "ftp://grobid" }},
		{"zero timeout", func(c *Config) { c.GROBIDTimeout = 0 }},
		{"negative rate", func(c *Config) { c.GROBIDRateLimit = -1 }},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := ExpandPath("~/cache.db"), filepath.Join(home, "cache.db"); got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}
	if got := ExpandPath("/abs/cache.db"); got != "/abs/cache.db" {
		t.Errorf("ExpandPath() = %q, want unchanged", got)
	}
}
