// Package config loads and validates application configuration from an
// optional YAML file merged with ENERGY_* environment variables.
// Environment values take precedence over file values; built-in defaults
// fill whatever both leave unset.
package config
