package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/cache"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain   bool
		noCache bool
	)
	flags := newRenderFlags()

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Browse the rows and bricks of a logo",
		Long: `Build the brick wall for a logo and browse it row by row.

Each row shows its width classes and a colored preview; the selected row
lists every brick with its span and color. Use --plain for a text dump.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := flags.options(cmd, c.config.Options())
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			src, err := c.readInput(args[0])
			if err != nil {
				return err
			}
			img, _, _, err := runner.RasterizeWithCacheInfo(ctx, src, cache.Hash(src), opts)
			if err != nil {
				return fmt.Errorf("rasterize: %w", err)
			}
			doc, err := pipeline.Build(img, opts)
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}

			if plain {
				return writePlainRows(cmd.OutOrStdout(), doc)
			}
			_, err = tea.NewProgram(NewRowListModel(filepath.Base(args[0]), doc), tea.WithAltScreen()).Run()
			return err
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&plain, "plain", false, "print rows as text instead of the interactive view")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
