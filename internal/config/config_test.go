package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/connmux/internal/split"
	"github.com/zjrosen/connmux/internal/tracing"
)

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestValidateConnections(t *testing.T) {
	require.NoError(t, ValidateConnections(nil))
	require.NoError(t, ValidateConnections([]ConnectionConfig{
		{Label: "shell", Protocol: "local"},
		{Label: "web", Protocol: "ssh", Host: "10.0.0.1", Port: 22, Username: "ops"},
	}))

	err := ValidateConnections([]ConnectionConfig{{Label: "bad", Protocol: "telnet"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid protocol")

	err = ValidateConnections([]ConnectionConfig{{Label: "nohost", Protocol: "vnc"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "host is required")

	err = ValidateConnections([]ConnectionConfig{{Label: "p", Protocol: "rdp", Host: "h", Port: 70000}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of range")
}

func TestValidateTheme(t *testing.T) {
	require.NoError(t, ValidateTheme(ThemeConfig{}))
	require.NoError(t, ValidateTheme(ThemeConfig{Mode: "dark"}))
	require.Error(t, ValidateTheme(ThemeConfig{Mode: "sepia"}))

	require.NoError(t, ValidateTheme(ThemeConfig{Palette: []string{"#3584e4", "#2ec27e"}}))
	require.Error(t, ValidateTheme(ThemeConfig{Palette: []string{"#3584e4"}}), "single color palette")
	require.Error(t, ValidateTheme(ThemeConfig{Palette: []string{"#3584e4", "notacolor"}}))
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(tracing.DefaultConfig()))
	require.Error(t, ValidateTracing(tracing.Config{SampleRate: 1.5}))
	require.Error(t, ValidateTracing(tracing.Config{Exporter: "jaeger"}))
	require.Error(t, ValidateTracing(tracing.Config{Enabled: true, Exporter: "otlp"}))
}

func TestParsePalette(t *testing.T) {
	rgb, err := ParsePalette([]string{"#3584e4", "2EC27E"})
	require.NoError(t, err)
	require.Equal(t, []split.RGB{
		{R: 0x35, G: 0x84, B: 0xe4},
		{R: 0x2e, G: 0xc2, B: 0x7e},
	}, rgb)

	_, err = ParsePalette([]string{"#12345"})
	require.Error(t, err)
	_, err = ParsePalette([]string{"#gggggg"})
	require.Error(t, err)
}

func TestConnectionConfig_Spec(t *testing.T) {
	c := ConnectionConfig{Label: "web", Protocol: "ssh", Host: "h", Port: 22, Username: "u"}
	spec := c.Spec()
	require.Equal(t, "web", spec.Label)
	require.Equal(t, "ssh://u@h:22", spec.String())
}

func TestWriteDefaultConfig_TemplateParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
}
