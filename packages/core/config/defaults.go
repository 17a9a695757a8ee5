package config

import (
	"github.com/abdul-hamid-achik/getman/packages/http"
)

const (
	// DefaultURL is the address a fresh form starts with
	DefaultURL = "https://httpbin.org/get"
	// DefaultMethod is the method a fresh form starts with
	DefaultMethod = "GET"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		URL:             DefaultURL,
		Method:          DefaultMethod,
		Timeout:         "",
		FollowRedirects: BoolPtr(true),
		MaxRedirects:    http.DefaultMaxRedirects,
		NoColor:         BoolPtr(false),
		Output:          "text",
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.URL == defaults.URL &&
		c.Method == defaults.Method &&
		len(c.Headers) == 0 &&
		c.Timeout == defaults.Timeout &&
		c.GetFollowRedirects() == defaults.GetFollowRedirects() &&
		c.MaxRedirects == defaults.MaxRedirects &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.Output == defaults.Output
}
