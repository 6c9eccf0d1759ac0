package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/pipeline"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	flags := newRenderFlags()

	cmd := &cobra.Command{
		Use:   "watch <input>...",
		Short: "Re-render logos whenever they change",
		Long: `Render the inputs once, then again every time one of them is saved.

Output naming follows the render command. Render errors are reported and
watching continues; stop with Ctrl-C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.config.Options())
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.watch(cmd.Context(), runner, args, opts, output)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, base path or directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// watchTargets resolves inputs to absolute paths and lists the directories
// to watch. Directories are watched rather than files so saves that replace
// the file are still seen.
func watchTargets(inputs []string) (map[string]string, []string, error) {
	targets := make(map[string]string, len(inputs))
	seen := make(map[string]bool)
	var dirs []string
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve %s: %w", input, err)
		}
		targets[abs] = input
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return targets, dirs, nil
}

func (c *CLI) watch(ctx context.Context, runner *pipeline.Runner, inputs []string, opts pipeline.Options, output string) error {
	targets, dirs, err := watchTargets(inputs)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Watch(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	logger := loggerFromContext(ctx)
	outputIsDir := len(inputs) > 1
	if outputIsDir && output != "" {
		if err := c.Fs.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	render := func(input string) {
		written, result, err := c.renderOne(ctx, runner, input, opts, output, outputIsDir)
		if err != nil {
			printError("%s: %s", input, err)
			return
		}
		printRendered(input, written, result)
	}

	for _, input := range inputs {
		render(input)
	}
	printInfo("Watching %d file(s), Ctrl-C to stop", len(inputs))

	pending := make(map[string]bool)
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-watcher.Event:
			if ev == nil {
				return nil
			}
			if ev.IsAttrib() || ev.IsDelete() {
				continue
			}
			input, ok := targets[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			logger.Debug("change detected", "file", input)
			pending[input] = true
			fire = time.After(watchDebounce)
		case err := <-watcher.Error:
			if err == nil {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-fire:
			for input := range pending {
				render(input)
			}
			clear(pending)
			fire = nil
		}
	}
}
