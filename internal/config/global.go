// Package config reads and writes the global dfview settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
)

// GlobalConfig represents global dfview settings stored in user's config directory
type GlobalConfig struct {
	Viewer ViewerConfig      `toml:"viewer"`
	SQL    SQLConfig         `toml:"sql"`
	Widths map[string]int    `toml:"widths,omitempty"`
	Theme  map[string]string `toml:"theme,omitempty"`
}

// ViewerConfig contains grid and terminal settings
type ViewerConfig struct {
	VisibleRows   int  `toml:"visible_rows" config:"viewer.visible_rows" default:"10" min:"1" max:"500" desc:"Rows shown at once"`
	WheelDelta    int  `toml:"wheel_delta" config:"viewer.wheel_delta" default:"100" min:"1" max:"100000" desc:"Scroll delta per wheel notch (100 = one row)"`
	SampleRows    int  `toml:"sample_rows" config:"viewer.sample_rows" default:"0" max:"1000000" desc:"Rows measured for column widths (0 = visible_rows)"`
	Padding       int  `toml:"padding" config:"viewer.padding" default:"1" max:"20" desc:"Extra characters added to each column width"`
	PixelsPerChar int  `toml:"pixels_per_char" config:"viewer.pixels_per_char" default:"8" min:"1" max:"64" desc:"Pixel width of one character in HTML export"`
	AltScreen     bool `toml:"alt_screen" config:"viewer.alt_screen" default:"true" desc:"Run the viewer in the alternate screen"`
}

// SQLConfig contains database query settings
type SQLConfig struct {
	Timeout string `toml:"timeout" config:"sql.timeout" default:"30s" desc:"Query timeout"`
	URL     string `toml:"url" config:"sql.url" desc:"Default PostgreSQL connection URL (empty = $DATABASE_URL)"`
}

// DefaultGlobalConfig returns a new global config with default values
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Viewer: ViewerConfig{
			VisibleRows:   10,
			WheelDelta:    100,
			SampleRows:    0,
			Padding:       1,
			PixelsPerChar: 8,
			AltScreen:     true,
		},
		SQL: SQLConfig{
			Timeout: "30s",
		},
	}
}

// GlobalConfigPath returns the path to the global config file
// Follows XDG Base Directory spec on Linux, platform conventions elsewhere.
// DFVIEW_CONFIG overrides the location.
func GlobalConfigPath() string {
	if p := os.Getenv("DFVIEW_CONFIG"); p != "" {
		return p
	}

	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, "Library", "Application Support", "dfview")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "dfview")
	default: // Linux and others - follow XDG
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "dfview")
		} else {
			home, _ := os.UserHomeDir()
			configDir = filepath.Join(home, ".config", "dfview")
		}
	}

	return filepath.Join(configDir, "config.toml")
}

// LoadGlobal reads the global config file, using defaults if it doesn't exist
func LoadGlobal() (*GlobalConfig, error) {
	return LoadGlobalFrom(GlobalConfigPath())
}

// LoadGlobalFrom reads the config file at path.
func LoadGlobalFrom(path string) (*GlobalConfig, error) {
	// Start with defaults
	cfg := DefaultGlobalConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// Apply defaults for any zeroed values. sample_rows and padding accept 0.
	defaults := DefaultGlobalConfig()

	if cfg.Viewer.VisibleRows <= 0 {
		cfg.Viewer.VisibleRows = defaults.Viewer.VisibleRows
	}
	if cfg.Viewer.WheelDelta <= 0 {
		cfg.Viewer.WheelDelta = defaults.Viewer.WheelDelta
	}
	if cfg.Viewer.PixelsPerChar <= 0 {
		cfg.Viewer.PixelsPerChar = defaults.Viewer.PixelsPerChar
	}
	if cfg.SQL.Timeout == "" {
		cfg.SQL.Timeout = defaults.SQL.Timeout
	}

	return cfg, nil
}

// Save writes the global config file
func (c *GlobalConfig) Save() error {
	return c.SaveTo(GlobalConfigPath())
}

// SaveTo writes the config to path, creating its directory.
func (c *GlobalConfig) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// QueryTimeout parses sql.timeout. Invalid or non-positive values fall back
// to the default.
func (c *GlobalConfig) QueryTimeout() time.Duration {
	d, err := time.ParseDuration(c.SQL.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetValue returns a global config value by key (uses reflection)
func (c *GlobalConfig) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a global config value by key (uses reflection with validation)
func (c *GlobalConfig) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}

// UnsetValue removes a width or theme override.
func (c *GlobalConfig) UnsetValue(key string) error {
	return unsetMapValue(c, key)
}
