package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcms-dev/richtext/extensions"
)

func TestInitConfigDefaults(t *testing.T) {
	cfg, err := InitConfig("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Listen)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, extensions.AllOptions(), opts)
	assert.True(t, cfg.PasteMarkdown().TransformPastedText)
}

func TestInitConfigFile(t *testing.T) {
	t.Setenv("RICHTEXT_PORT", "9090")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logLevel: debug
features: [bold, italic, image]
transformPastedText: false
assets:
  catalog: ./assets.yaml
  cacheSize: 64
server:
  listen: "0.0.0.0:${RICHTEXT_PORT}"
`), 0o600))

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Listen)
	assert.Equal(t, "./assets.yaml", cfg.Assets.Catalog)
	assert.Equal(t, int64(64), cfg.Assets.CacheSize)
	assert.False(t, cfg.PasteMarkdown().TransformPastedText)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, []extensions.Option{extensions.OptionBold, extensions.OptionItalic, extensions.OptionImage}, opts)
}

func TestInitConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown feature": "features: [emoji]",
		"bad listen":      "server:\n  listen: nowhere",
		"negative cache":  "assets:\n  cacheSize: -1",
		"bad yaml":        "server: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := InitConfig(path)
			assert.Error(t, err)
		})
	}

	_, err := InitConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
