// Package config loads and validates the proxy's configuration from layered
// sources: built-in defaults, an optional TOML file, and environment
// variables, in ascending priority.
package config
