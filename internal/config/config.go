// Package config provides configuration types, defaults, and persistence
// for connmux.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zjrosen/connmux/internal/log"
	"github.com/zjrosen/connmux/internal/paths"
	"github.com/zjrosen/connmux/internal/session"
	"github.com/zjrosen/connmux/internal/split"
	"github.com/zjrosen/connmux/internal/tracing"
)

// ConnectionConfig is one saved connection, the sidebar's unit.
type ConnectionConfig struct {
	Label    string `mapstructure:"label"`
	Protocol string `mapstructure:"protocol"` // ssh, rdp, vnc, spice, local
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
}

// Spec converts the saved connection into the session layer's form.
func (c ConnectionConfig) Spec() session.ConnectionSpec {
	return session.ConnectionSpec{
		Label:    c.Label,
		Protocol: session.Protocol(c.Protocol),
		Host:     c.Host,
		Port:     c.Port,
		Username: c.Username,
	}
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Mode forces light or dark rendering. Empty uses terminal
	// detection.
	Mode string `mapstructure:"mode"`

	// Palette overrides the split container border palette. Each entry
	// is a "#rrggbb" hex color; an empty list keeps the built-in six.
	Palette []string `mapstructure:"palette"`
}

// StoreConfig holds layout persistence options.
type StoreConfig struct {
	// Path is the sqlite database for layout snapshots. Empty disables
	// persistence entirely.
	Path string `mapstructure:"path"`
}

// Config holds all configuration options for connmux.
type Config struct {
	Connections []ConnectionConfig `mapstructure:"connections"`
	Theme       ThemeConfig        `mapstructure:"theme"`
	Store       StoreConfig        `mapstructure:"store"`
	Tracing     tracing.Config     `mapstructure:"tracing"`

	// Flags holds feature flag toggles; unknown names are disabled.
	Flags map[string]bool `mapstructure:"flags"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Connections: []ConnectionConfig{
			{Label: "local shell", Protocol: "local"},
		},
		Theme:   ThemeConfig{Mode: ""},
		Store:   StoreConfig{Path: ""},
		Tracing: tracing.DefaultConfig(),
	}
}

// DefaultStorePath returns ~/.config/connmux/layouts.db, or empty when
// the home directory is unavailable.
func DefaultStorePath() string {
	dir := paths.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "layouts.db")
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if err := ValidateConnections(c.Connections); err != nil {
		return err
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateConnections checks saved connections for errors. An empty list
// is valid.
func ValidateConnections(conns []ConnectionConfig) error {
	for i, c := range conns {
		switch c.Protocol {
		case "ssh", "rdp", "vnc", "spice":
			if c.Host == "" {
				return fmt.Errorf("connection %d (%s): host is required for %s", i, c.Label, c.Protocol)
			}
			if c.Port < 0 || c.Port > 65535 {
				return fmt.Errorf("connection %d (%s): port %d out of range", i, c.Label, c.Port)
			}
		case "local":
			// Host/port unused.
		default:
			return fmt.Errorf("connection %d (%s): invalid protocol %q (must be ssh, rdp, vnc, spice or local)", i, c.Label, c.Protocol)
		}
	}
	return nil
}

// ValidateTheme checks theme configuration for errors.
func ValidateTheme(t ThemeConfig) error {
	switch t.Mode {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme.mode must be \"light\", \"dark\" or empty, got %q", t.Mode)
	}
	if len(t.Palette) > 0 {
		if len(t.Palette) < 2 {
			return fmt.Errorf("theme.palette needs at least 2 colors, got %d", len(t.Palette))
		}
		if _, err := ParsePalette(t.Palette); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}
	switch t.Exporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"stdout\" or \"otlp\", got %q", t.Exporter)
	}
	if t.Enabled && t.Exporter == "otlp" && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// ParsePalette converts "#rrggbb" strings into palette entries.
func ParsePalette(hexes []string) ([]split.RGB, error) {
	out := make([]split.RGB, 0, len(hexes))
	for i, h := range hexes {
		s := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "#")
		if len(s) != 6 {
			return nil, fmt.Errorf("theme.palette[%d]: %q is not a #rrggbb color", i, h)
		}
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("theme.palette[%d]: %q is not a #rrggbb color", i, h)
		}
		out = append(out, split.RGB{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
		})
	}
	return out, nil
}

// DefaultConfigTemplate returns the default config as YAML with comments.
func DefaultConfigTemplate() string {
	return `# Connmux Configuration

# Saved connections shown in the sidebar. Drag one onto a panel to open
# it there.
connections:
  - label: local shell
    protocol: local

  # - label: web-01
  #   protocol: ssh
  #   host: 10.0.0.5
  #   port: 22
  #   username: ops

  # - label: win-build
  #   protocol: rdp
  #   host: win-build.internal
  #   port: 3389
  #   username: admin

# Theme configuration
theme:
  # Force light or dark rendering; empty uses terminal detection.
  # mode: dark
  #
  # Override the split border palette (2 or more "#rrggbb" entries):
  # palette:
  #   - "#3584e4"
  #   - "#2ec27e"
  #   - "#ff7800"

# Layout persistence. When path is set, tab layouts survive restarts.
store:
  # path: ~/.config/connmux/layouts.db

# Feature flags (disabled unless listed)
# flags:
#   autosave-layout: true
#   session-notices: true

# Engine operation tracing
tracing:
  enabled: false
  # exporter: stdout        # "none", "stdout" or "otlp"
  # otlp_endpoint: localhost:4317
  # sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}
