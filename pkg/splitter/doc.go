// Package splitter separates full logos into a title and a subtitle.
//
// A full logo has a large title on top and a line of small text below it.
// Only the title is turned into bricks; the subtitle would be unreadable at
// brick resolution and is kept as vectors. [Split] crops the document to its
// top part and collects the subtitle elements, and [Compose] stacks the brick
// rendering of the title on top of them:
//
//	s, err := splitter.Split(src, splitter.DefaultTitleFraction)
//	// rasterize s.Title, build and render bricks...
//	out, err := splitter.Compose(brickSVG, s)
//
// Subtitle elements are g, text and path children of the root whose y
// attribute lies below the split boundary.
package splitter
