// Package config loads settings for the thumbgen tool from an optional
// YAML file with environment variable overrides. The engine itself is
// configured in code via gfx.Config; this package only covers tool-level
// concerns.
package config
