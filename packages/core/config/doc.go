// Package config handles configuration loading for getman.
//
// It provides functionality for:
//   - Loading configuration from .getman.yaml, getman.yaml or .getmanrc
//   - Default configuration values
//   - Merging file settings with command line overrides
package config
