package pipeline

import (
	"fmt"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/render/bricks/sink"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/splitter"
)

// Render generates output artifacts in the requested formats.
//
// When split is non-nil the SVG artifact is the composed full logo: bricks
// for the title, the original subtitle below. PNG and JSON always cover the
// bricks only.
func Render(doc *bricks.Document, split *splitter.Parts, opts Options) (map[string][]byte, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to render")
	}
	opts.SetRenderDefaults()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(doc, split, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(doc *bricks.Document, split *splitter.Parts, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		svg := sink.RenderSVG(doc)
		if split == nil {
			return svg, nil
		}
		return splitter.Compose(svg, split)
	case FormatPNG:
		return sink.RenderPNG(doc, sink.WithScale(opts.Scale))
	case FormatJSON:
		return sink.RenderJSON(doc, sink.WithJSONStats())
	default:
		return nil, ValidateFormat(format)
	}
}
