// Package config loads gauge configuration from defaults, an optional YAML
// file and GAUGE_ environment variables, in that order.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jwulff/gauge-go/internal/api"
	"github.com/jwulff/gauge-go/internal/gauge"
	"github.com/jwulff/gauge-go/internal/logging"
	"github.com/jwulff/gauge-go/internal/pixoo"
	"github.com/jwulff/gauge-go/internal/theme"
)

// EnvPrefix prefixes environment overrides: GAUGE_PIXOO_IP -> pixoo.ip.
const EnvPrefix = "GAUGE_"

// Config is the full configuration of the gauge tools.
type Config struct {
	Log      logging.Config       `koanf:"log"`
	Server   api.Config           `koanf:"server"`
	Store    StoreConfig          `koanf:"store"`
	Theme    string               `koanf:"theme"`
	Render   RenderConfig         `koanf:"render"`
	Pixoo    pixoo.Config         `koanf:"pixoo"`
	Contrast theme.ContrastConfig `koanf:"contrast"`
}

// StoreConfig selects the SQLite database.
type StoreConfig struct {
	Path string `koanf:"path"` // "" or ":memory:" keeps everything in memory
}

// InMemory reports whether the store lives only in memory.
func (c StoreConfig) InMemory() bool {
	return c.Path == "" || c.Path == ":memory:"
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Format   string `koanf:"format"`   // svg, png
	Size     int    `koanf:"size"`     // default width and height in pixels
	Segments int    `koanf:"segments"` // sub-arcs per gradient value arc
	Memo     int    `koanf:"memo"`     // layouts kept by the memo
}

// Load reads configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	defaults := map[string]any{
		"log.level":          "info",
		"log.format":         logging.FormatConsole,
		"server.addr":        api.DefaultAddr,
		"server.timeout":     api.DefaultTimeout,
		"store.path":         "gauge.db",
		"theme":              theme.NameDark,
		"render.format":      "svg",
		"render.size":        200,
		"render.segments":    96,
		"render.memo":        gauge.DefaultMemoSize,
		"pixoo.port":         pixoo.DefaultPort,
		"pixoo.timeout":      pixoo.DefaultTimeout,
		"pixoo.brightness":   0,
		"contrast.gray05":    theme.DefaultContrast().Gray05,
		"contrast.gray90":    theme.DefaultContrast().Gray90,
		"contrast.threshold": theme.DefaultContrast().Threshold,
	}
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// 2. Load from ENV (GAUGE_SERVER_ADDR -> server.addr)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := theme.ByName(c.Theme); err != nil {
		return err
	}
	switch c.Render.Format {
	case "svg", "png":
	default:
		return fmt.Errorf("unknown render format %q, want svg or png", c.Render.Format)
	}
	if c.Render.Size <= 0 {
		return fmt.Errorf("render size must be positive, got %d", c.Render.Size)
	}
	if c.Pixoo.Brightness < 0 || c.Pixoo.Brightness > 100 {
		return fmt.Errorf("pixoo brightness must be 0-100, got %d", c.Pixoo.Brightness)
	}
	if c.Server.Timeout < 0 || c.Pixoo.Timeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// ResolveTheme returns the configured theme with the configured contrast settings.
func (c *Config) ResolveTheme(override string) (*theme.Theme, error) {
	name := c.Theme
	if override != "" {
		name = override
	}
	th, err := theme.ByName(name)
	if err != nil {
		return nil, err
	}
	return th.WithContrast(c.Contrast), nil
}

