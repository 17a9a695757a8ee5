package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/getman/packages/http"
)

// Config represents the getman configuration
type Config struct {
	URL             string   `yaml:"url,omitempty"`
	Method          string   `yaml:"method,omitempty"`
	Headers         []string `yaml:"headers,omitempty"` // "Key: Value" lines sent with every request
	Timeout         string   `yaml:"timeout,omitempty"` // duration, e.g. "30s"; empty means none
	FollowRedirects *bool    `yaml:"followRedirects,omitempty"`
	MaxRedirects    int      `yaml:"maxRedirects,omitempty"`
	NoColor         *bool    `yaml:"noColor,omitempty"`
	Output          string   `yaml:"output,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetTimeout parses Timeout. An empty value means no timeout.
func (c *Config) GetTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", c.Timeout)
	}
	return d, nil
}

// HeaderFields parses the configured default headers.
func (c *Config) HeaderFields() []http.HeaderField {
	return http.ParseHeaders(strings.Join(c.Headers, "\n"))
}

// Validate reports settings that can never work.
func (c *Config) Validate() error {
	if c.Method != "" {
		if _, err := http.ParseMethod(c.Method); err != nil {
			return fmt.Errorf("method %q: %w", c.Method, err)
		}
	}
	if _, err := c.GetTimeout(); err != nil {
		return err
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("maxRedirects must not be negative")
	}
	return nil
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".getman.yaml",
	"getman.yaml",
	".getmanrc",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.URL != "" {
		result.URL = other.URL
	}
	if other.Method != "" {
		result.Method = other.Method
	}
	if other.Timeout != "" {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Output != "" {
		result.Output = other.Output
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	// Headers accumulate; later lines win on send
	if len(other.Headers) > 0 {
		result.Headers = append(append([]string{}, c.Headers...), other.Headers...)
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
