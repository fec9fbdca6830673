// Package render draws split trees.
//
// # Diagrams
//
// [ToDOT] turns a tree into Graphviz DOT source with one box per node and
// split nodes pointing at their children. [RenderSVG] renders DOT in process
// through go-graphviz, so no Graphviz installation is needed.
//
//	dot := render.ToDOT(tree, render.DOTOptions{Detailed: true})
//	svg, err := render.RenderSVG(dot)
//
// # Screens
//
// [SVG] draws the tiling itself: every leaf and placeholder as a rectangle at
// its place on screen, labelled with the selected content or the placeholder
// tokens. [Text] draws the same picture as ASCII boxes for terminals.
//
//	svg := render.SVG(tree, render.WithSize(1280, 800))
//	fmt.Print(render.Text(tree, 80, 24))
//
// [Blocks] returns the rectangles the screen renderers draw, for callers that
// bring their own output.
package render
