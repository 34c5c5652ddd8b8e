package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadGlobalFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultGlobalConfig(), cfg)
}

func TestLoadFillsZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[viewer]
visible_rows = 0
padding = 0
alt_screen = false

[widths]
name = 12

[theme]
"terminal.row_hover" = "#0E7490"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadGlobalFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Viewer.VisibleRows)
	assert.Equal(t, 0, cfg.Viewer.Padding)
	assert.False(t, cfg.Viewer.AltScreen)
	assert.Equal(t, 100, cfg.Viewer.WheelDelta)
	assert.Equal(t, map[string]int{"name": 12}, cfg.Widths)
	assert.Equal(t, "#0E7490", cfg.Theme["terminal.row_hover"])
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[viewer\n"), 0o644))

	_, err := LoadGlobalFrom(path)

	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultGlobalConfig()
	require.NoError(t, cfg.SetValue("viewer.visible_rows", "25"))
	require.NoError(t, cfg.SetValue("widths.price", "9"))

	require.NoError(t, cfg.SaveTo(path))
	loaded, err := LoadGlobalFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 25, loaded.Viewer.VisibleRows)
	assert.Equal(t, 9, loaded.Widths["price"])
}

func TestSetValueValidation(t *testing.T) {
	cfg := DefaultGlobalConfig()

	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"viewer.visible_rows", "20", false},
		{"viewer.visible_rows", "0", true},
		{"viewer.visible_rows", "abc", true},
		{"viewer.wheel_delta", "300", false},
		{"viewer.padding", "-1", true},
		{"viewer.alt_screen", "false", false},
		{"viewer.alt_screen", "maybe", true},
		{"sql.timeout", "2m", false},
		{"sql.timeout", "soon", true},
		{"viewer.unknown", "1", true},
		{"widths.name", "12", false},
		{"widths.name", "0", true},
		{"widths.", "3", true},
		{"theme.html.row_odd", "#eeeeee", false},
		{"theme.html.border", "red", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := cfg.SetValue(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Equal(t, 20, cfg.Viewer.VisibleRows)
	assert.Equal(t, 2*time.Minute, cfg.QueryTimeout())
	assert.False(t, cfg.Viewer.AltScreen)
}

func TestGetValue(t *testing.T) {
	cfg := DefaultGlobalConfig()
	require.NoError(t, cfg.SetValue("theme.sort_marker", "^"))

	v, ok := cfg.GetValue("viewer.wheel_delta")
	assert.True(t, ok)
	assert.Equal(t, "100", v)

	v, ok = cfg.GetValue("viewer.alt_screen")
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	v, ok = cfg.GetValue("theme.sort_marker")
	assert.True(t, ok)
	assert.Equal(t, "^", v)

	_, ok = cfg.GetValue("widths.missing")
	assert.False(t, ok)

	_, ok = cfg.GetValue("nothing")
	assert.False(t, ok)
}

func TestUnsetValue(t *testing.T) {
	cfg := DefaultGlobalConfig()
	require.NoError(t, cfg.SetValue("widths.a", "4"))

	require.NoError(t, cfg.UnsetValue("widths.a"))
	assert.Empty(t, cfg.Widths)

	assert.Error(t, cfg.UnsetValue("widths.a"))
	assert.Error(t, cfg.UnsetValue("viewer.padding"))
}

func TestListKeys(t *testing.T) {
	keys := ListKeys()

	assert.Equal(t, []string{
		"sql.timeout",
		"sql.url",
		"viewer.alt_screen",
		"viewer.padding",
		"viewer.pixels_per_char",
		"viewer.sample_rows",
		"viewer.visible_rows",
		"viewer.wheel_delta",
	}, keys)
	assert.Contains(t, GenerateHelpText(), "viewer.wheel_delta")
}

func TestQueryTimeoutFallback(t *testing.T) {
	cfg := DefaultGlobalConfig()
	cfg.SQL.Timeout = "bogus"

	assert.Equal(t, 30*time.Second, cfg.QueryTimeout())
}
