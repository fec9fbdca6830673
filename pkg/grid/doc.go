// Package grid builds split trees from unordered sets of rectangles.
//
// A grid is a list of cells, each a rectangle with contents stacked on it.
// [Build] looks for a straight line that separates the cells into two groups
// without cutting through any cell, splits there, and recurses into both
// halves. The result is a [split.Shape] whose leaves have exactly the
// rectangles of the cells.
//
// Not every arrangement of rectangles can be produced by recursive cuts.
// Overlapping cells, gaps, and pinwheel arrangements fail with an
// [UngriddableError] naming the cells that could not be separated; nothing is
// approximated.
//
//	g := grid.New()
//	g.Add(0, 0, 1, 1, "editor")
//	g.Add(0, 1, 1, 1, "console")
//	tree, err := g.Tree()
package grid
