package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"movie-catalog/common"
)

const (
	// DefaultSheetURL is the published spreadsheet the catalog is read from
	DefaultSheetURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vTnA2o76a9hq2EF_8oqupcxaaAYa6h4MpQgCIlLk8lmt3vGnLesviQ53UcjaYqTmgZ9ML5h7HQ92jY6/pub?output=csv"

	DefaultPort         = "8080"
	DefaultFormat       = "csv"
	DefaultTimeout      = 20 * time.Second
	DefaultMaxBytes     = 10 << 20
	DefaultHeroInterval = 15 * time.Second
	DefaultMinReload    = 10 * time.Second
	DefaultDBPath       = "data/catalog.db"
	DefaultUserAgent    = "movie-catalog/1.0"
)

// Formats the source can be read as
var Formats = []string{"csv", "ndjson"}

// ErrInvalid wraps every validation failure returned by Load
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Source   SourceConfig   `yaml:"source"`
	Reload   ReloadConfig   `yaml:"reload"`
	Hero     HeroConfig     `yaml:"hero"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type SourceConfig struct {
	URL       string        `yaml:"url"`
	Format    string        `yaml:"format"` // csv or ndjson
	Timeout   time.Duration `yaml:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes"`
	UserAgent string        `yaml:"user_agent"`
}

type ReloadConfig struct {
	// Interval re-runs ingestion periodically; 0 disables it
	Interval time.Duration `yaml:"interval"`
	// MinInterval throttles manual reloads
	MinInterval time.Duration `yaml:"min_interval"`
}

type HeroConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server: ServerConfig{Port: DefaultPort},
		Source: SourceConfig{
			URL:       DefaultSheetURL,
			Format:    DefaultFormat,
			Timeout:   DefaultTimeout,
			MaxBytes:  DefaultMaxBytes,
			UserAgent: DefaultUserAgent,
		},
		Reload:   ReloadConfig{MinInterval: DefaultMinReload},
		Hero:     HeroConfig{Interval: DefaultHeroInterval},
		Database: DatabaseConfig{Path: DefaultDBPath},
		Log:      LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, in that order of precedence (lowest first).
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
		}
	}

	applyEnv(&cfg, os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		cfg.Server.Port = v
	}
	if v := strings.TrimSpace(getenv("SHEET_URL")); v != "" {
		cfg.Source.URL = v
	}
	if v := strings.TrimSpace(getenv("SHEET_FORMAT")); v != "" {
		cfg.Source.Format = v
	}
	if v := strings.TrimSpace(getenv("DB_PATH")); v != "" {
		cfg.Database.Path = v
	}
	if v := strings.TrimSpace(getenv("LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks field values and fills zero durations with defaults
func (c *Config) Validate() error {
	c.Source.URL = strings.TrimSpace(c.Source.URL)
	if c.Source.URL == "" {
		return fmt.Errorf("%w: source.url is required", ErrInvalid)
	}
	u, err := url.Parse(c.Source.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: source.url must be an absolute http(s) URL: %q", ErrInvalid, c.Source.URL)
	}

	c.Source.Format = strings.ToLower(strings.TrimSpace(c.Source.Format))
	if verr := common.ValidateEnum("source.format", c.Source.Format, Formats); verr != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, verr.Message)
	}

	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = DefaultTimeout
	}
	if c.Source.MaxBytes <= 0 {
		c.Source.MaxBytes = DefaultMaxBytes
	}
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = DefaultUserAgent
	}
	if c.Hero.Interval <= 0 {
		c.Hero.Interval = DefaultHeroInterval
	}
	if c.Reload.Interval < 0 {
		return fmt.Errorf("%w: reload.interval must not be negative", ErrInvalid)
	}
	if c.Reload.MinInterval < 0 {
		return fmt.Errorf("%w: reload.min_interval must not be negative", ErrInvalid)
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDBPath
	}
	return nil
}
