package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/palette"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/pipeline"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/segment"
)

// outputSuffix is appended to the input name when no output is given, so
// rendering logo.svg to SVG does not overwrite it.
const outputSuffix = "-bricks"

// renderFlags holds the pipeline flags shared by render, watch and inspect.
// Only flags the user actually set override the config file.
type renderFlags struct {
	pixelWidth    int
	blockWidth    int
	blockHeight   int
	minAlpha      int
	mode          segment.Mode
	tolerance     int
	palette       int
	paletteMethod palette.Method
	pruneStuds    bool
	full          bool
	titleFraction float64
	formats       string
	scale         float64
}

func newRenderFlags() *renderFlags {
	d := pipeline.DefaultOptions()
	return &renderFlags{
		pixelWidth:    d.PixelWidth,
		blockWidth:    d.BlockWidth,
		blockHeight:   d.BlockHeight,
		minAlpha:      d.MinAlpha,
		mode:          segment.Mode(d.Mode),
		tolerance:     d.Tolerance,
		paletteMethod: palette.Method(d.PaletteMethod),
		titleFraction: d.TitleFraction,
		scale:         d.Scale,
	}
}

// register adds the build flags to cmd; withOutput adds the output flags.
func (f *renderFlags) register(cmd *cobra.Command, withOutput bool) {
	fl := cmd.Flags()
	fl.IntVarP(&f.pixelWidth, "pixel-width", "w", f.pixelWidth, "grid width in cells (one brick cell per pixel)")
	fl.IntVar(&f.blockWidth, "block-width", f.blockWidth, "width of a 2-cell brick in output units")
	fl.IntVar(&f.blockHeight, "block-height", f.blockHeight, "brick height including studs")
	fl.IntVar(&f.minAlpha, "min-alpha", f.minAlpha, "alpha at or above which a pixel is opaque (1-255)")
	fl.Var(&f.mode, "mode", "brick mode: auto (default), 1x1, 2x2")
	fl.IntVar(&f.tolerance, "tolerance", f.tolerance, "per-channel color distance for merging neighbor bricks")
	fl.IntVar(&f.palette, "palette", 0, "reduce to N colors before building (0 = off)")
	fl.Var(&f.paletteMethod, "palette-method", "palette extraction: dominant (default), kmeans")
	fl.BoolVar(&f.pruneStuds, "prune-studs", false, "omit studs covered by the row above")
	fl.BoolVar(&f.full, "full", false, "brick only the title of a full logo and keep its subtitle as vector")
	fl.Float64Var(&f.titleFraction, "title-fraction", f.titleFraction, "share of the logo height treated as title (--full)")
	if withOutput {
		fl.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
		fl.Float64Var(&f.scale, "scale", f.scale, "PNG scale factor")
	}
	registerValueCompletions(cmd, withOutput)
}

// options overlays the flags the user set on the configured options.
func (f *renderFlags) options(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	opts := base
	changed := cmd.Flags().Changed
	if changed("pixel-width") {
		opts.PixelWidth = f.pixelWidth
	}
	if changed("block-width") {
		opts.BlockWidth = f.blockWidth
	}
	if changed("block-height") {
		opts.BlockHeight = f.blockHeight
	}
	if changed("min-alpha") {
		opts.MinAlpha = f.minAlpha
	}
	if changed("mode") {
		opts.Mode = string(f.mode)
	}
	if changed("tolerance") {
		opts.Tolerance = f.tolerance
	}
	if changed("palette") {
		opts.Palette = f.palette
	}
	if changed("palette-method") {
		opts.PaletteMethod = string(f.paletteMethod)
	}
	if changed("prune-studs") {
		opts.PruneStuds = f.pruneStuds
	}
	if changed("full") {
		opts.Full = f.full
	}
	if changed("title-fraction") {
		opts.TitleFraction = f.titleFraction
	}
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("scale") {
		opts.Scale = f.scale
	}
	return opts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		jobs    int
	)
	flags := newRenderFlags()

	cmd := &cobra.Command{
		Use:   "render <input>...",
		Short: "Render logos as brick walls",
		Long: `Render one or more logos (SVG, PNG, JPEG, GIF, BMP, TIFF or WebP) as brick walls.

Without --output each result is written next to its input as <name>-bricks.<format>.
With one input, --output names the file (single format) or the base path
(several formats). With several inputs, --output is a directory.

Several inputs are rendered concurrently. Results are cached locally for
faster subsequent runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.config.Options())
			opts.Refresh = refresh
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, opts, output, noCache, jobs)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, base path or directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "number of inputs rendered at once")

	return cmd
}

// runRender renders every input with one shared runner. Results are printed
// in input order once all inputs are done.
func (c *CLI) runRender(ctx context.Context, inputs []string, opts pipeline.Options, output string, noCache bool, jobs int) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if len(inputs) == 1 {
		spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(inputs[0])))
		spinner.Start()
		written, result, err := c.renderOne(ctx, runner, inputs[0], opts, output, false)
		if err != nil {
			spinner.StopWithError(failureMessage(spinner))
			return err
		}
		spinner.Stop()
		printRendered(inputs[0], written, result)
		printNextStep("Browse the rows", appName+" inspect "+inputs[0])
		return nil
	}

	if output != "" {
		if err := c.Fs.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering 0/%d...", len(inputs)))
	spinner.Start()

	type rendered struct {
		written []string
		result  *pipeline.Result
	}
	results := make([]rendered, len(inputs))
	var finished atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, input := range inputs {
		g.Go(func() error {
			written, result, err := c.renderOne(gctx, runner, input, opts, output, true)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			results[i] = rendered{written: written, result: result}
			spinner.SetMessage(fmt.Sprintf("Rendering %d/%d...", finished.Add(1), len(inputs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		spinner.StopWithError(failureMessage(spinner))
		return err
	}
	spinner.Stop()

	for i, input := range inputs {
		printRendered(input, results[i].written, results[i].result)
	}
	prog.done("rendered", "files", len(inputs), "jobs", jobs)
	return nil
}

func failureMessage(s *Spinner) string {
	if s.Cancelled() {
		return "Render cancelled"
	}
	return "Render failed"
}

// renderOne runs the pipeline for one input and writes its artifacts.
func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, input string, opts pipeline.Options, output string, outputIsDir bool) ([]string, *pipeline.Result, error) {
	if err := errors.ValidatePath(input); err != nil {
		return nil, nil, err
	}
	src, err := c.readInput(input)
	if err != nil {
		return nil, nil, err
	}

	result, err := runner.Execute(ctx, src, opts)
	if err != nil {
		return nil, nil, err
	}

	var written []string
	for _, format := range opts.Formats {
		path := outputPath(input, output, format, len(opts.Formats), outputIsDir)
		if err := afero.WriteFile(c.Fs, path, result.Artifacts[format], 0o644); err != nil {
			return nil, nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, result, nil
}

// readInput reads a source file, mapping a missing file to FILE_NOT_FOUND.
func (c *CLI) readInput(path string) ([]byte, error) {
	src, err := afero.ReadFile(c.Fs, path)
	if err != nil {
		if ok, _ := afero.Exists(c.Fs, path); !ok {
			return nil, errors.New(errors.ErrCodeFileNotFound, "input not found: %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return src, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// outputPath derives where one artifact is written.
//
//   - no output: <input without extension>-bricks.<format>
//   - output is a directory: <output>/<input name>-bricks.<format>
//   - one format: output as given
//   - several formats: <output without format extension>.<format>
func outputPath(input, output, format string, nFormats int, outputIsDir bool) string {
	name := strings.TrimSuffix(input, filepath.Ext(input)) + outputSuffix
	switch {
	case output == "":
		return name + "." + format
	case outputIsDir:
		return filepath.Join(output, filepath.Base(name)+"."+format)
	case nFormats == 1:
		return output
	default:
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			output = strings.TrimSuffix(output, ext)
		}
		return output + "." + format
	}
}
