// Package geom holds the small amount of geometry the split tree needs:
// rectangles relative to a bounding box, split orientations and the four sides
// a path can take through a split.
//
// All comparisons use [Eps] as tolerance. Rectangles are values; nothing in this
// package allocates or keeps state.
package geom
