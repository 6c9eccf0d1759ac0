// Package pkg provides the core libraries of blockify, the brick-wall logo
// renderer.
//
// # Overview
//
// Blockify rasterizes a logo to a small pixel grid and rebuilds it as the side
// view of a wall of interlocking bricks. The pkg directory is organized into
// four areas:
//
//  1. [grid], [render] - Domain logic (classification, segmentation, layout, emission)
//  2. [raster], [splitter], [palette] - Source preparation
//  3. [cache], [config], [observability] - Infrastructure
//  4. [pipeline] - Orchestration (rasterize → build → render)
//
// # Architecture
//
// The typical data flow:
//
//	SVG or raster logo
//	         ↓
//	    [splitter] package (optional: keep only the title of a full logo)
//	         ↓
//	    [raster] package (nearest-neighbor pixel grid, one pixel per cell)
//	         ↓
//	    [palette] package (optional color reduction)
//	         ↓
//	    [grid] package (opaque/transparent classification)
//	         ↓
//	    [render/bricks] package (segment → merge → place → emit)
//	         ↓
//	    SVG/PNG/JSON output
//
// # Quick Start
//
//	import (
//	    "github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks"
//	    "github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/sink"
//	)
//
//	doc, err := bricks.BuildImage(img, bricks.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	svg, err := sink.RenderSVG(doc)
//
// With caching and source handling, use the pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.DefaultOptions())
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// # Main Packages
//
// [grid] - Immutable width × height cell array and the alpha-threshold
// classifier that produces it.
//
// [render/bricks] - The layout engine. Rows are segmented top to bottom
// (each row depends on the one above), merged, placed on the canvas and
// emitted bottom to top so every row covers the studs beneath it.
//
// [raster] - Rasterizers for SVG (rsvg-convert) and raster images
// (PNG, JPEG, GIF, BMP, TIFF, WebP).
//
// [splitter] - Splits a full logo into its title, which is bricked, and the
// subtitle elements kept as vectors, then composes both again.
//
// [palette] - Optional palette reduction (dominant colors or k-means).
//
// [cache] - File, Redis and null caches plus the key derivation.
//
// [config] - The optional TOML config file.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks around pipeline stages, cache access and HTTP
// requests.
//
// [pipeline] - The rasterize → build → render pipeline used by the CLI and
// the HTTP server.
//
// # Testing
//
//	go test ./...                        # All tests
//	go test ./pkg/render/bricks/...      # Layout engine only
//	go test -run Example ./pkg/...       # Examples only
//
// [grid]: https://pkg.go.dev/github.com/Suomen-Palikkayhteiso-ry/brand/pkg/grid
// [render]: https://pkg.go.dev/github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render
// [render/bricks]: https://pkg.go.dev/github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks
// [raster]: https://pkg.go.dev/github.com/Suomen-Palikkayhteiso-ry/brand/pkg/raster
// [splitter]: https://pkg.go.dev/github.com/Suomen-Palikkayhteiso-ry/brand/pkg/splitter
// [palette]: https://pkg.go.dev/github.com/Suomen-Palikkayhteiso-ry/brand/pkg/palette
// [cache]: https://pkg.go.dev/github.com/Suomen-Palikkayhteiso-ry/brand/pkg/cache
// [config]: https://pkg.go.dev/github.com/Suomen-Palikkayhteiso-ry/brand/pkg/config
// [errors]: https://pkg.go.dev/github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors
// [observability]: https://pkg.go.dev/github.com/Suomen-Palikkayhteiso-ry/brand/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/Suomen-Palikkayhteiso-ry/brand/pkg/pipeline
package pkg
