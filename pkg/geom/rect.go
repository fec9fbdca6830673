package geom

import "math"

// Eps is the tolerance used for all geometric comparisons.
const Eps = 1e-9

// Unit is the rectangle every tree starts from unless other bounds are given.
var Unit = Rect{X: 0, Y: 0, Width: 1, Height: 1}

// Rect is an axis-aligned rectangle. Coordinates grow to the right and downwards,
// so Y is the top edge and Bottom() the lower one.
type Rect struct {
	X      float64 `json:"x" bson:"x" yaml:"x"`
	Y      float64 `json:"y" bson:"y" yaml:"y"`
	Width  float64 `json:"width" bson:"width" yaml:"width"`
	Height float64 `json:"height" bson:"height" yaml:"height"`
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y-coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Area returns Width*Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= Eps || r.Height <= Eps }

// Valid reports whether all coordinates are finite and the size is not negative.
func (r Rect) Valid() bool {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Width >= 0 && r.Height >= 0
}

// ApproxEqual compares two rectangles edge by edge within eps.
func (r Rect) ApproxEqual(o Rect, eps float64) bool {
	return near(r.X, o.X, eps) && near(r.Y, o.Y, eps) &&
		near(r.Right(), o.Right(), eps) && near(r.Bottom(), o.Bottom(), eps)
}

// Overlaps reports whether the interiors of r and o intersect. Rectangles that
// only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right()-Eps && o.X < r.Right()-Eps &&
		r.Y < o.Bottom()-Eps && o.Y < r.Bottom()-Eps
}

// Contains reports whether o lies completely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X-Eps && o.Y >= r.Y-Eps &&
		o.Right() <= r.Right()+Eps && o.Bottom() <= r.Bottom()+Eps
}

// Split divides r at divider along orientation. For Horizontal the first
// rectangle is the left part, for Vertical it is the top part.
func (r Rect) Split(o Orientation, divider float64) (first, second Rect) {
	if o == Horizontal {
		w := r.Width * divider
		return Rect{X: r.X, Y: r.Y, Width: w, Height: r.Height},
			Rect{X: r.X + w, Y: r.Y, Width: r.Width - w, Height: r.Height}
	}
	h := r.Height * divider
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: h},
		Rect{X: r.X, Y: r.Y + h, Width: r.Width, Height: r.Height - h}
}

// Take returns the part of r that a path turning to side with relative size
// fraction would occupy.
func (r Rect) Take(side Side, fraction float64) Rect {
	switch side {
	case Left:
		r.Width *= fraction
	case Right:
		r.X += r.Width - r.Width*fraction
		r.Width *= fraction
	case Top:
		r.Height *= fraction
	case Bottom:
		r.Y += r.Height - r.Height*fraction
		r.Height *= fraction
	}
	return r
}

// Relative expresses r in the coordinate system of bounds, where bounds becomes
// the unit square.
func (r Rect) Relative(bounds Rect) Rect {
	out := Rect{}
	if bounds.Width > 0 {
		out.X = (r.X - bounds.X) / bounds.Width
		out.Width = r.Width / bounds.Width
	}
	if bounds.Height > 0 {
		out.Y = (r.Y - bounds.Y) / bounds.Height
		out.Height = r.Height / bounds.Height
	}
	return out
}

// Scale maps a rectangle given relative to the unit square into bounds.
func (r Rect) Scale(bounds Rect) Rect {
	return Rect{
		X:      bounds.X + r.X*bounds.Width,
		Y:      bounds.Y + r.Y*bounds.Height,
		Width:  r.Width * bounds.Width,
		Height: r.Height * bounds.Height,
	}
}

// Union returns the bounding box of r and o.
func (r Rect) Union(o Rect) Rect {
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  math.Max(r.Right(), o.Right()) - x,
		Height: math.Max(r.Bottom(), o.Bottom()) - y,
	}
}

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }
