// Package layout maps grid rows and columns onto canvas coordinates.
//
// A [Plan] is computed once per grid from the block size. Brick heights are
// derived twice: the block height splits into stud and body, and the body
// splits again into an inner stud and inner body. Rows are stacked by the
// inner body height, so each row overlaps the studs of the row beneath it by
// exactly the inner stud height:
//
//	BrickY(y) + BodyHeight == BrickY(y+1) + InnerStudHeight
//
// With the default 24x20 block, StudHeight is 3, BodyHeight 17,
// InnerStudHeight 2 and InnerBodyHeight 15.
package layout
