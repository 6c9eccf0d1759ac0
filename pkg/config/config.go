// Package config loads the optional blockify configuration file.
//
// The file is TOML. Every key is optional; anything left out keeps the
// pipeline default. Command-line flags override file values.
//
//	[render]
//	pixel_width = 32
//	mode = "auto"
//	tolerance = 3
//	formats = ["svg", "png"]
//
//	[cache]
//	dir = "/var/cache/blockify"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "72h"
//	prefix = "blockify:"
//
//	[server]
//	addr = ":8080"
//	max_body_bytes = 4194304
//
// The file is looked up at $XDG_CONFIG_HOME/blockify/config.toml, falling
// back to ~/.config/blockify/config.toml.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/cache"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/pipeline"
)

const (
	// AppName names the config and cache directories.
	AppName = "blockify"

	// FileName is the config file name inside the config directory.
	FileName = "config.toml"

	// DefaultAddr is the address the HTTP server listens on.
	DefaultAddr = ":8080"

	// DefaultMaxBodyBytes bounds uploaded sources.
	DefaultMaxBodyBytes = 8 << 20
)

// Config is the parsed configuration file.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig overrides pipeline defaults. Pointer fields distinguish
// "not set" from a zero value that is meaningful.
type RenderConfig struct {
	PixelWidth    int      `toml:"pixel_width"`
	BlockWidth    int      `toml:"block_width"`
	BlockHeight   int      `toml:"block_height"`
	MinAlpha      int      `toml:"min_alpha"`
	Mode          string   `toml:"mode"`
	Tolerance     *int     `toml:"tolerance"`
	Palette       int      `toml:"palette"`
	PaletteMethod string   `toml:"palette_method"`
	PruneStuds    *bool    `toml:"prune_studs"`
	TitleFraction float64  `toml:"title_fraction"`
	Formats       []string `toml:"formats"`
	Scale         float64  `toml:"scale"`
}

// CacheConfig selects the cache backend. A RedisURL takes precedence over
// Dir.
type CacheConfig struct {
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
	Prefix   string        `toml:"prefix"`
	Disabled bool          `toml:"disabled"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			TTL: cache.TTLArtifact,
		},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// Load reads the config file at path on fs over the defaults.
//
// An empty path means DefaultPath(); a missing file there is not an error.
// A missing file at an explicit path is FILE_NOT_FOUND. Unknown keys and
// invalid values are INVALID_CONFIG.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		if explicit {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg and validates the result. Keys not
// present in data keep their current value.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks the values that are not checked by the pipeline.
func (c *Config) Validate() error {
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must not be negative")
	}
	opts := c.Options()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render")
	}
	return nil
}

// Options returns the pipeline defaults overlaid with the [render] section.
func (c *Config) Options() pipeline.Options {
	opts := pipeline.DefaultOptions()
	r := c.Render
	if r.PixelWidth != 0 {
		opts.PixelWidth = r.PixelWidth
	}
	if r.BlockWidth != 0 {
		opts.BlockWidth = r.BlockWidth
	}
	if r.BlockHeight != 0 {
		opts.BlockHeight = r.BlockHeight
	}
	if r.MinAlpha != 0 {
		opts.MinAlpha = r.MinAlpha
	}
	if r.Mode != "" {
		opts.Mode = r.Mode
	}
	if r.Tolerance != nil {
		opts.Tolerance = *r.Tolerance
	}
	if r.Palette != 0 {
		opts.Palette = r.Palette
	}
	if r.PaletteMethod != "" {
		opts.PaletteMethod = r.PaletteMethod
	}
	if r.PruneStuds != nil {
		opts.PruneStuds = *r.PruneStuds
	}
	if r.TitleFraction != 0 {
		opts.TitleFraction = r.TitleFraction
	}
	if len(r.Formats) > 0 {
		opts.Formats = append([]string(nil), r.Formats...)
	}
	if r.Scale != 0 {
		opts.Scale = r.Scale
	}
	return opts
}

// CacheDir returns the configured cache directory or the XDG default.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the config file location using the XDG standard
// (~/.config/blockify/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/blockify/).
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
