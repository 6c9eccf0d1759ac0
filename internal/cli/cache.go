package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local render cache",
	}

	cmd.AddCommand(c.cacheInfoCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached rasters and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.config.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if ok, _ := afero.DirExists(c.Fs, dir); !ok {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(c.Fs, dir)
			if err != nil {
				return err
			}
			entries, size, err := fc.Usage()
			if err != nil {
				return fmt.Errorf("scan cache: %w", err)
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries (%s)", entries, humanBytes(size))
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show where the cache lives and how much it holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.config.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			entries, size := 0, int64(0)
			if ok, _ := afero.DirExists(c.Fs, dir); ok {
				fc, err := cache.NewFileCache(c.Fs, dir)
				if err != nil {
					return err
				}
				if entries, size, err = fc.Usage(); err != nil {
					return fmt.Errorf("scan cache: %w", err)
				}
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "directory  %s\n", dir)
			fmt.Fprintf(w, "entries    %d\n", entries)
			fmt.Fprintf(w, "size       %s\n", humanBytes(size))
			if c.config.Cache.TTL > 0 {
				fmt.Fprintf(w, "ttl        %s\n", c.config.Cache.TTL)
			}
			return nil
		},
	}
}

// humanBytes formats n with a binary unit, e.g. "1.5 KiB".
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
