// Package config loads the YAML configuration shared by nui and nsh.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv overrides api_key from the file when set
const APIKeyEnv = "NUSH_API_KEY"

const (
	DefaultEndpoint  = "https://api.themoviedb.org/3"
	DefaultLanguage  = "en"
	DefaultSettle    = 300 * time.Millisecond
	DefaultCacheSize = 256
)

// Supported catalog languages
var Supported = []language.Tag{language.English, language.Romanian}

var matcher = language.NewMatcher(Supported)

// Config holds catalog connection and UI settings
type Config struct {
	Endpoint    string        `yaml:"endpoint"`
	APIKey      string        `yaml:"api_key"`
	Language    string        `yaml:"language"`
	Settle      time.Duration `yaml:"settle"`
	CacheSize   *int          `yaml:"cache_size"`
	LogFile     string        `yaml:"log_file"`
	LogLevel    string        `yaml:"log_level"`
	LibraryFile string        `yaml:"library_file"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file, applies defaults and the
// environment override, then validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Cache returns the configured suggestion cache size; 0 means unbounded
func (c *Config) Cache() int {
	if c.CacheSize == nil {
		return DefaultCacheSize
	}
	return *c.CacheSize
}

// Validate checks required fields and normalizes the language
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("config missing required field: endpoint")
	}
	if c.APIKey == "" {
		return fmt.Errorf("config missing required field: api_key (or set %s)", APIKeyEnv)
	}
	if c.Settle < 0 {
		return fmt.Errorf("config field settle must not be negative: %v", c.Settle)
	}
	if c.CacheSize != nil && *c.CacheSize < 0 {
		return fmt.Errorf("config field cache_size must not be negative: %d", *c.CacheSize)
	}
	lang, err := MatchLanguage(c.Language)
	if err != nil {
		return err
	}
	c.Language = lang
	return nil
}

// MatchLanguage resolves a BCP-47 tag to a supported catalog language
func MatchLanguage(lang string) (string, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", lang, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("unsupported language %q", lang)
	}
	base, _ := Supported[idx].Base()
	return base.String(), nil
}

func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	c.Endpoint = strings.TrimRight(c.Endpoint, "/")
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Settle == 0 {
		c.Settle = DefaultSettle
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if key := os.Getenv(APIKeyEnv); key != "" {
		c.APIKey = key
	}
	if dir, err := os.UserCacheDir(); err == nil {
		if c.LogFile == "" {
			c.LogFile = filepath.Join(dir, "nushcenume", "nui.log")
		}
		if c.LibraryFile == "" {
			c.LibraryFile = filepath.Join(dir, "nushcenume", "library.json")
		}
	}
}
