// Package pipeline provides the brick pipeline shared by the CLI and the
// HTTP server.
//
// This package implements the complete rasterize → build → render pipeline.
// Centralizing it keeps defaults, validation and caching identical across
// all entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Rasterize: Turn the source (SVG or bitmap) into an image PixelWidth
//     pixels wide, optionally splitting off the title of a full logo first
//     and reducing the image to a palette afterwards.
//  2. Build: Classify pixels, segment rows into bricks and lay them out.
//  3. Render: Serialize the brick document as SVG, PNG or JSON.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Formats = []string{"svg", "png"}
//	result, err := runner.Execute(ctx, src, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Stages can also be run on their own:
//
//	img, split, err := pipeline.Rasterize(ctx, raster.Default(), src, opts)
//	doc, err := pipeline.Build(img, opts)
//	artifacts, err := pipeline.Render(doc, split, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/cache"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/palette"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/layout"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/segment"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/transform"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/splitter"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultPixelWidth is the width of the rasterized grid. Every pixel
	// becomes one brick cell, so this is also the wall width in cells.
	DefaultPixelWidth = 20

	// DefaultScale is the PNG scale factor.
	DefaultScale = 1.0

	// MaxScale bounds the PNG scale factor.
	MaxScale = 16.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the brick pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Rasterize options
	PixelWidth    int     `json:"pixel_width,omitempty"`
	Full          bool    `json:"full,omitempty"`           // Split a full logo and brick only its title
	TitleFraction float64 `json:"title_fraction,omitempty"` // Share of the viewBox height kept as title
	Palette       int     `json:"palette,omitempty"`        // Reduce to this many colors first (0 = off)
	PaletteMethod string  `json:"palette_method,omitempty"`

	// Build options
	BlockWidth  int    `json:"block_width,omitempty"`
	BlockHeight int    `json:"block_height,omitempty"`
	MinAlpha    int    `json:"min_alpha,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Tolerance   int    `json:"tolerance"` // Used as given; 0 merges exact colors only
	PruneStuds  bool   `json:"prune_studs,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns options with every default applied, including the
// merge tolerance, which SetRenderDefaults leaves alone.
func DefaultOptions() Options {
	o := Options{Tolerance: transform.DefaultTolerance}
	o.SetRasterDefaults()
	o.SetBuildDefaults()
	o.SetRenderDefaults()
	return o
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// SourceHash is the SHA-256 of the source document.
	SourceHash string

	// Document is the built brick wall. It is nil when every artifact came
	// from the cache.
	Document *bricks.Document

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GridWidth     int
	GridHeight    int
	Bricks        int
	RasterizeTime time.Duration
	BuildTime     time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RasterHit bool // Whether the rasterized image came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a brick mode is valid.
func ValidateMode(mode string) error {
	_, err := segment.ParseMode(mode)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and validates every field.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRaster(); err != nil {
		return err
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRasterDefaults sets default values for rasterization.
func (o *Options) SetRasterDefaults() {
	if o.PixelWidth == 0 {
		o.PixelWidth = DefaultPixelWidth
	}
	if o.TitleFraction == 0 {
		o.TitleFraction = splitter.DefaultTitleFraction
	}
	if o.PaletteMethod == "" {
		o.PaletteMethod = string(palette.MethodDominant)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRaster validates and sets defaults for rasterization.
func (o *Options) ValidateForRaster() error {
	o.SetRasterDefaults()
	if o.PixelWidth < 1 || o.PixelWidth > errors.MaxGridSide {
		return errors.New(errors.ErrCodeInvalidInput, "pixel width must be in 1..%d (got %d)", errors.MaxGridSide, o.PixelWidth)
	}
	if !(o.TitleFraction > 0 && o.TitleFraction <= 1) {
		return errors.New(errors.ErrCodeInvalidInput, "title fraction must be in (0, 1] (got %v)", o.TitleFraction)
	}
	if o.Palette < 0 || o.Palette > palette.MaxColors {
		return errors.New(errors.ErrCodeInvalidInput, "palette size must be in 0..%d (got %d)", palette.MaxColors, o.Palette)
	}
	_, err := palette.ParseMethod(o.PaletteMethod)
	return err
}

// SetBuildDefaults sets default values for brick building. Tolerance is
// not touched: zero is a valid tolerance.
func (o *Options) SetBuildDefaults() {
	if o.BlockWidth == 0 {
		o.BlockWidth = layout.DefaultBlockWidth
	}
	if o.BlockHeight == 0 {
		o.BlockHeight = layout.DefaultBlockHeight
	}
	if o.MinAlpha == 0 {
		o.MinAlpha = grid.DefaultMinAlpha
	}
	if o.Mode == "" {
		o.Mode = string(segment.ModeAuto)
	}
}

// ValidateForBuild validates and sets defaults for brick building.
func (o *Options) ValidateForBuild() error {
	o.SetBuildDefaults()
	if o.BlockWidth < layout.MinBlockWidth || o.BlockWidth > errors.MaxGridSide {
		return errors.New(errors.ErrCodeInvalidInput, "block width must be in %d..%d (got %d)", layout.MinBlockWidth, errors.MaxGridSide, o.BlockWidth)
	}
	if o.BlockHeight < layout.MinBlockHeight || o.BlockHeight > errors.MaxGridSide {
		return errors.New(errors.ErrCodeInvalidInput, "block height must be in %d..%d (got %d)", layout.MinBlockHeight, errors.MaxGridSide, o.BlockHeight)
	}
	if o.MinAlpha < 1 || o.MinAlpha > 255 {
		return errors.New(errors.ErrCodeInvalidInput, "min alpha must be in 1..255 (got %d)", o.MinAlpha)
	}
	if o.Tolerance < 0 || o.Tolerance > 255 {
		return errors.New(errors.ErrCodeInvalidInput, "tolerance must be in 0..255 (got %d)", o.Tolerance)
	}
	return ValidateMode(o.Mode)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if !(o.Scale > 0 && o.Scale <= MaxScale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %v] (got %v)", MaxScale, o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// BuildOptions converts the build fields for bricks.Build. Tolerance is
// always passed explicitly; a MinAlpha of 0 means unset, as in
// SetBuildDefaults.
func (o *Options) BuildOptions() bricks.Options {
	opts := bricks.Options{
		BlockWidth:  o.BlockWidth,
		BlockHeight: o.BlockHeight,
		Mode:        segment.Mode(o.Mode),
		Tolerance:   bricks.Value(o.Tolerance),
		PruneStuds:  o.PruneStuds,
	}
	if o.MinAlpha > 0 {
		opts.MinAlpha = bricks.Value(uint8(o.MinAlpha))
	}
	return opts
}

// RasterKeyOpts returns cache key options for rasterization.
func (o *Options) RasterKeyOpts() cache.RasterKeyOpts {
	opts := cache.RasterKeyOpts{PixelWidth: o.PixelWidth}
	if o.Full {
		opts.Full = true
		opts.TitleFraction = o.TitleFraction
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:      format,
		PixelWidth:  o.PixelWidth,
		BlockWidth:  o.BlockWidth,
		BlockHeight: o.BlockHeight,
		MinAlpha:    uint8(o.MinAlpha),
		Mode:        o.Mode,
		Tolerance:   o.Tolerance,
		PruneStuds:  o.PruneStuds,
	}
	if o.Palette > 0 {
		opts.Palette = o.Palette
		opts.PaletteMethod = o.PaletteMethod
	}
	if o.Full {
		opts.Full = true
		opts.TitleFraction = o.TitleFraction
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
