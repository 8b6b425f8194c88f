// Package config provides configuration loading and validation for the wav splitter.
// It handles YAML-based configuration layered over built-in defaults.
package config
