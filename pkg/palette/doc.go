// Package palette reduces an image to a few representative colors.
//
// Sources with gradients or anti-aliased edges produce many near-identical
// colors, and the brick segmenter only joins cells of exactly the same
// color. Reducing the palette first gives longer runs and larger bricks.
//
// [Extract] finds the palette with dominant color extraction or k-means, then
// [Reduce] snaps every visible pixel to its nearest palette entry in CIE Lab.
package palette
