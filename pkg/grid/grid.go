package grid

import (
	"slices"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
	"github.com/matzehuels/docktree/pkg/split"
)

// Cell is one rectangle of a grid with the contents stacked on it.
// Coordinates are relative to each other; only their proportions matter.
type Cell struct {
	X            float64             `json:"x" yaml:"x"`
	Y            float64             `json:"y" yaml:"y"`
	Width        float64             `json:"width" yaml:"width"`
	Height       float64             `json:"height" yaml:"height"`
	Contents     []split.ContentID   `json:"contents,omitempty" yaml:"contents,omitempty"`
	Selected     split.ContentID     `json:"selected,omitempty" yaml:"selected,omitempty"`
	Placeholders []placeholder.Token `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
}

// Rect returns the cell's rectangle.
func (c Cell) Rect() geom.Rect {
	return geom.Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

func (c Cell) clone() Cell {
	c.Contents = slices.Clone(c.Contents)
	c.Placeholders = slices.Clone(c.Placeholders)
	return c
}

// Grid collects cells. Adding content to a rectangle that already has a cell
// stacks the content on that cell.
type Grid struct {
	cells []Cell
}

// New returns an empty grid.
func New() *Grid { return &Grid{} }

// FromCells returns a grid holding cells, merging cells with equal rectangles.
func FromCells(cells []Cell) *Grid {
	g := New()
	for _, c := range cells {
		cell := g.cell(c.X, c.Y, c.Width, c.Height)
		for _, content := range c.Contents {
			if !slices.Contains(cell.Contents, content) {
				cell.Contents = append(cell.Contents, content)
			}
		}
		if c.Selected != "" {
			cell.Selected = c.Selected
		}
		cell.Placeholders = appendTokens(cell.Placeholders, c.Placeholders)
	}
	return g
}

func (g *Grid) cell(x, y, w, h float64) *Cell {
	r := geom.Rect{X: x, Y: y, Width: w, Height: h}
	for i := range g.cells {
		if g.cells[i].Rect().ApproxEqual(r, geom.Eps) {
			return &g.cells[i]
		}
	}
	g.cells = append(g.cells, Cell{X: x, Y: y, Width: w, Height: h})
	return &g.cells[len(g.cells)-1]
}

// Add puts contents on the rectangle (x, y, w, h).
func (g *Grid) Add(x, y, w, h float64, contents ...split.ContentID) {
	cell := g.cell(x, y, w, h)
	for _, c := range contents {
		if !slices.Contains(cell.Contents, c) {
			cell.Contents = append(cell.Contents, c)
		}
	}
}

// Select chooses the visible content of the cell at (x, y, w, h).
func (g *Grid) Select(x, y, w, h float64, c split.ContentID) error {
	r := geom.Rect{X: x, Y: y, Width: w, Height: h}
	for i := range g.cells {
		if !g.cells[i].Rect().ApproxEqual(r, geom.Eps) {
			continue
		}
		if !slices.Contains(g.cells[i].Contents, c) {
			return errors.New(errors.ErrCodeInvalidInput, "select: %q is not on cell %+v", c, r)
		}
		g.cells[i].Selected = c
		return nil
	}
	return errors.New(errors.ErrCodeNotFound, "select: no cell at %+v", r)
}

// AddPlaceholders attaches tokens to the rectangle (x, y, w, h). A cell with
// tokens but no content becomes a placeholder.
func (g *Grid) AddPlaceholders(x, y, w, h float64, tokens ...placeholder.Token) {
	cell := g.cell(x, y, w, h)
	cell.Placeholders = appendTokens(cell.Placeholders, tokens)
}

// Cells returns a copy of the cells in insertion order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.clone()
	}
	return out
}

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Shape builds the tree shape for the grid.
func (g *Grid) Shape() (*split.Shape, error) {
	return Build(g.cells)
}

// Tree builds a split tree for the grid.
func (g *Grid) Tree(opts ...split.Option) (*split.Tree, error) {
	shape, err := g.Shape()
	if err != nil {
		return nil, err
	}
	return split.NewFromShape(shape, opts...)
}

func appendTokens(dst, src []placeholder.Token) []placeholder.Token {
	for _, t := range src {
		if !slices.Contains(dst, t) {
			dst = append(dst, t)
		}
	}
	return dst
}
