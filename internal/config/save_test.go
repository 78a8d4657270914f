package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSaveConnections_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	conns := []ConnectionConfig{
		{Label: "local shell", Protocol: "local"},
		{Label: "web-01", Protocol: "ssh", Host: "10.0.0.5", Port: 22, Username: "ops"},
	}
	require.NoError(t, SaveConnections(path, conns))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	require.Equal(t, conns, cfg.Connections)
}

func TestSaveConnections_PreservesOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	original := `# my settings
connections:
  - label: old
    protocol: local

# picked after much deliberation
theme:
  mode: dark
`
	require.NoError(t, os.WriteFile(path, []byte(original), 0o600))

	require.NoError(t, SaveConnections(path, []ConnectionConfig{
		{Label: "db", Protocol: "ssh", Host: "db.internal", Port: 22},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	require.Contains(t, text, "picked after much deliberation")
	require.Contains(t, text, "mode: dark")
	require.NotContains(t, text, "label: old")

	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	require.Len(t, cfg.Connections, 1)
	require.Equal(t, "db", cfg.Connections[0].Label)
	require.Equal(t, "dark", cfg.Theme.Mode)
}

func TestSaveConnections_AppendsWhenSectionMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme:\n  mode: light\n"), 0o600))

	require.NoError(t, SaveConnections(path, []ConnectionConfig{
		{Label: "shell", Protocol: "local"},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	require.Equal(t, "light", cfg.Theme.Mode)
	require.Len(t, cfg.Connections, 1)
}

func TestSaveConnections_OmitsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveConnections(path, []ConnectionConfig{
		{Label: "shell", Protocol: "local"},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "host")
	require.NotContains(t, string(data), "port")
	require.NotContains(t, string(data), "username")
}

func TestWriteAtomic_NoTempLeftover(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	require.NoError(t, writeAtomic(path, []byte("connections: []\n")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.HasPrefix(e.Name(), ".connmux.yaml.tmp"),
			"temp file %s left behind", e.Name())
	}
}
