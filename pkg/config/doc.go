// Package config loads, validates and writes shelf's YAML configuration.
package config
