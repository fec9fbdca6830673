package grid

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/split"
)

// UngriddableError is returned when a set of cells cannot be cut into two
// groups by any straight line, which happens when cells overlap, leave gaps,
// or interlock like a pinwheel.
type UngriddableError struct {
	// Cells are the cells that could not be separated.
	Cells []Cell
	// Region is the rectangle the cells were expected to fill, in the
	// coordinates of the input.
	Region geom.Rect
}

func (e *UngriddableError) Error() string {
	return fmt.Sprintf("%d cells cannot be split into a tree within %.4g,%.4g %.4gx%.4g",
		len(e.Cells), e.Region.X, e.Region.Y, e.Region.Width, e.Region.Height)
}

// Code returns UNGRIDDABLE_LAYOUT.
func (e *UngriddableError) Code() errors.Code { return errors.ErrCodeUngriddableLayout }

// Unwrap exposes the error code to errors.Is.
func (e *UngriddableError) Unwrap() error {
	return errors.New(errors.ErrCodeUngriddableLayout, "%s", e.Error())
}

// piece is a cell during the build: the original plus its rectangle
// normalized to the bounding box of all cells.
type piece struct {
	cell Cell
	rect geom.Rect
}

// cut is a candidate line through a region.
type cut struct {
	orientation geom.Orientation // Horizontal for a vertical line
	at          float64
	first       []piece
	second      []piece
}

// Build converts cells into the shape of a split tree whose leaf rectangles
// reproduce the cells. Cells are normalized to their bounding box first, so
// the resulting tree describes proportions.
//
// The same set of cells always produces the same shape, whatever order the
// cells come in, as long as no two cells share a rectangle.
func Build(cells []Cell) (*split.Shape, error) {
	if len(cells) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid has no cells")
	}
	if err := validate(cells); err != nil {
		return nil, err
	}

	bbox := cells[0].Rect()
	for _, c := range cells[1:] {
		bbox = bbox.Union(c.Rect())
	}
	pieces := lo.Map(cells, func(c Cell, _ int) piece {
		return piece{cell: c.clone(), rect: c.Rect().Relative(bbox)}
	})
	slices.SortStableFunc(pieces, func(a, b piece) int {
		return cmp.Or(
			cmp.Compare(a.rect.Y, b.rect.Y),
			cmp.Compare(a.rect.X, b.rect.X),
			cmp.Compare(a.rect.Height, b.rect.Height),
			cmp.Compare(a.rect.Width, b.rect.Width),
		)
	})

	b := builder{bbox: bbox}
	return b.build(pieces, geom.Unit)
}

func validate(cells []Cell) error {
	seen := make(map[split.ContentID]int)
	for i, c := range cells {
		r := c.Rect()
		if !r.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "cell %d has invalid coordinates %+v", i, r)
		}
		if c.Width <= 0 || c.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "cell %d must have a positive size, got %vx%v", i, c.Width, c.Height)
		}
		if len(c.Contents) == 0 && len(c.Placeholders) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "cell %d has neither contents nor placeholders", i)
		}
		if c.Selected != "" && !slices.Contains(c.Contents, c.Selected) {
			return errors.New(errors.ErrCodeInvalidInput, "cell %d selects %q which it does not hold", i, c.Selected)
		}
		for _, content := range c.Contents {
			if j, dup := seen[content]; dup && j != i {
				return errors.New(errors.ErrCodeInvalidInput, "content %q is on cells %d and %d", content, j, i)
			}
			seen[content] = i
		}
	}
	return nil
}

type builder struct {
	bbox geom.Rect
}

func (b *builder) build(pieces []piece, region geom.Rect) (*split.Shape, error) {
	if len(pieces) == 1 {
		p := pieces[0]
		if !p.rect.ApproxEqual(region, geom.Eps) {
			return nil, b.fail(pieces, region)
		}
		return leaf(p.cell), nil
	}

	best, ok := b.bestCut(pieces, region)
	if !ok {
		return nil, b.fail(pieces, region)
	}
	var divider float64
	if best.orientation == geom.Horizontal {
		divider = (best.at - region.X) / region.Width
	} else {
		divider = (best.at - region.Y) / region.Height
	}
	divider = math.Min(1, math.Max(0, divider))
	firstRegion, secondRegion := region.Split(best.orientation, divider)

	first, err := b.build(best.first, firstRegion)
	if err != nil {
		return nil, err
	}
	second, err := b.build(best.second, secondRegion)
	if err != nil {
		return nil, err
	}
	return &split.Shape{Orientation: best.orientation, Divider: divider, Left: first, Right: second}, nil
}

// bestCut tries every cell edge strictly inside region as a cut line. A line
// is usable when no cell straddles it and both sides get at least one cell.
// Among usable lines the one splitting the cell count most evenly wins, then
// vertical lines over horizontal ones, then the lowest coordinate.
func (b *builder) bestCut(pieces []piece, region geom.Rect) (cut, bool) {
	var (
		best  cut
		found bool
	)
	better := func(c cut) bool {
		if !found {
			return true
		}
		db := imbalance(best)
		dc := imbalance(c)
		if dc != db {
			return dc < db
		}
		if c.orientation != best.orientation {
			return c.orientation == geom.Horizontal
		}
		return c.at < best.at-geom.Eps
	}

	for _, o := range []geom.Orientation{geom.Horizontal, geom.Vertical} {
		for _, at := range candidates(pieces, region, o) {
			c, ok := partition(pieces, o, at)
			if ok && better(c) {
				best, found = c, true
			}
		}
	}
	return best, found
}

func imbalance(c cut) int {
	d := len(c.first) - len(c.second)
	if d < 0 {
		return -d
	}
	return d
}

// candidates returns the sorted, distinct cell edges strictly inside region
// along the axis a cut of orientation o runs across.
func candidates(pieces []piece, region geom.Rect, o geom.Orientation) []float64 {
	low, hi := region.Y, region.Bottom()
	edges := func(p piece) []float64 { return []float64{p.rect.Y, p.rect.Bottom()} }
	if o == geom.Horizontal {
		low, hi = region.X, region.Right()
		edges = func(p piece) []float64 { return []float64{p.rect.X, p.rect.Right()} }
	}
	var out []float64
	for _, p := range pieces {
		for _, e := range edges(p) {
			if e > low+geom.Eps && e < hi-geom.Eps {
				out = append(out, e)
			}
		}
	}
	slices.Sort(out)
	return slices.CompactFunc(out, func(a, b float64) bool { return math.Abs(a-b) <= geom.Eps })
}

func partition(pieces []piece, o geom.Orientation, at float64) (cut, bool) {
	c := cut{orientation: o, at: at}
	for _, p := range pieces {
		start, end := p.rect.Y, p.rect.Bottom()
		if o == geom.Horizontal {
			start, end = p.rect.X, p.rect.Right()
		}
		switch {
		case end <= at+geom.Eps:
			c.first = append(c.first, p)
		case start >= at-geom.Eps:
			c.second = append(c.second, p)
		default:
			return cut{}, false
		}
	}
	return c, len(c.first) > 0 && len(c.second) > 0
}

func (b *builder) fail(pieces []piece, region geom.Rect) error {
	return &UngriddableError{
		Cells:  lo.Map(pieces, func(p piece, _ int) Cell { return p.cell }),
		Region: region.Scale(b.bbox),
	}
}

func leaf(c Cell) *split.Shape {
	if len(c.Contents) == 0 {
		return split.Hole(c.Placeholders...)
	}
	s := split.Leaf(c.Contents...)
	if c.Selected != "" {
		s.Slot.Selected = c.Selected
	}
	s.Placeholders = slices.Clone(c.Placeholders)
	return s
}
