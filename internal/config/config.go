// Package config loads teiparse settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the settings file stored at ~/.config/teiparse/config.yml.
type Config struct {
	GROBIDURL            string        `yaml:"grobid_url"`
	GROBIDTimeout        time.Duration `yaml:"grobid_timeout"`
	GROBIDRateLimit      float64       `yaml:"grobid_rate_limit"` // Requests per second; 0 disables limiting
	ConsolidateHeader    bool          `yaml:"consolidate_header"`
	ConsolidateCitations bool          `yaml:"consolidate_citations"`
	Listen               string        `yaml:"listen"`
	CachePath            string        `yaml:"cache_path"` // Empty disables the TEI cache
	LogLevel             string        `yaml:"log_level"`
	MaxUploadBytes       int64         `yaml:"max_upload_bytes"`
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "teiparse"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
)

// Environment variables that override the file.
const (
	EnvGROBIDURL = "GROBID_URL"
	EnvListen    = "TEIPARSE_LISTEN"
	EnvCache     = "TEIPARSE_CACHE"
	EnvLogLevel  = "TEIPARSE_LOG_LEVEL"
	EnvMaxUpload = "TEIPARSE_MAX_UPLOAD_BYTES"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		GROBIDURL:       "http://localhost:8070",
		GROBIDTimeout:   2 * time.Minute,
		GROBIDRateLimit: 4,
		Listen:          ":8000",
		LogLevel:        "info",
		MaxUploadBytes:  50 << 20,
	}
}

// Path returns the path to the config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/teiparse/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the config file at path (Path() when empty) over the defaults,
// then applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = Path()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.CachePath = ExpandPath(cfg.CachePath)
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvGROBIDURL); v != "" {
		c.GROBIDURL = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(EnvCache); v != "" {
		c.CachePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvMaxUpload); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, EnvMaxUpload, v)
		}
		c.MaxUploadBytes = n
	}
	return nil
}

// Validate checks the settings for values no component can work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.GROBIDURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: grobid_url %q must be an http(s) URL", ErrInvalid, c.GROBIDURL)
	}
	if c.GROBIDTimeout <= 0 {
		return fmt.Errorf("%w: grobid_timeout must be positive", ErrInvalid)
	}
	if c.GROBIDRateLimit < 0 {
		return fmt.Errorf("%w: grobid_rate_limit must not be negative", ErrInvalid)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalid)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// Level returns the configured log level, or info when it does not parse.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
