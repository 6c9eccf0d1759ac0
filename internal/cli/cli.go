package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/buildinfo"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/cache"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/config"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels accepted by New.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Fs is where inputs, outputs, the config file and the file cache live.
	Fs afero.Fs

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a default logger on the OS filesystem.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Fs:     afero.NewOsFs(),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level. Timestamps are only shown at
// debug level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportTimestamp(level <= log.DebugLevel)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Blockify turns logos into walls of stacked bricks",
		Long: `Blockify rasterizes a logo to a small pixel grid and rebuilds it as a side view
of interlocking bricks, written as SVG, PNG or JSON.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/blockify/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.Fs, c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.config.Cache.Prefix != "" {
		keyer = cache.Prefixed(nil, c.config.Cache.Prefix)
	}
	runner := pipeline.NewRunner(store, keyer, nil, c.Logger)
	runner.TTL = c.config.Cache.TTL
	return runner, nil
}

// newCache picks the cache backend: none, Redis when a URL is configured,
// otherwise the file cache. A file cache that cannot be created degrades to
// no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if url := c.config.Cache.RedisURL; url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache")
		return rc, nil
	}
	dir, err := c.config.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(c.Fs, dir)
	if err != nil {
		printWarning("File cache unavailable, caching disabled: %v", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}
