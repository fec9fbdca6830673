package geom

import (
	"math"
	"testing"
)

func TestRectEdges(t *testing.T) {
	tests := []struct {
		name       string
		rect       Rect
		wantRight  float64
		wantBottom float64
		wantCX     float64
		wantCY     float64
	}{
		{
			name:       "unit",
			rect:       Unit,
			wantRight:  1,
			wantBottom: 1,
			wantCX:     0.5,
			wantCY:     0.5,
		},
		{
			name:       "offset",
			rect:       Rect{X: 10, Y: 20, Width: 40, Height: 60},
			wantRight:  50,
			wantBottom: 80,
			wantCX:     30,
			wantCY:     50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Right(); got != tt.wantRight {
				t.Errorf("Right() = %v, want %v", got, tt.wantRight)
			}
			if got := tt.rect.Bottom(); got != tt.wantBottom {
				t.Errorf("Bottom() = %v, want %v", got, tt.wantBottom)
			}
			if got := tt.rect.CenterX(); got != tt.wantCX {
				t.Errorf("CenterX() = %v, want %v", got, tt.wantCX)
			}
			if got := tt.rect.CenterY(); got != tt.wantCY {
				t.Errorf("CenterY() = %v, want %v", got, tt.wantCY)
			}
		})
	}
}

func TestRectEmptyAndValid(t *testing.T) {
	tests := []struct {
		name      string
		rect      Rect
		wantEmpty bool
		wantValid bool
	}{
		{"unit", Unit, false, true},
		{"zero width", Rect{Width: 0, Height: 1}, true, true},
		{"zero height", Rect{Width: 1, Height: 0}, true, true},
		{"negative", Rect{Width: -1, Height: 1}, true, false},
		{"nan", Rect{X: math.NaN(), Width: 1, Height: 1}, false, false},
		{"inf", Rect{Width: math.Inf(1), Height: 1}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.Empty(); got != tt.wantEmpty {
				t.Errorf("Empty() = %v, want %v", got, tt.wantEmpty)
			}
			if got := tt.rect.Valid(); got != tt.wantValid {
				t.Errorf("Valid() = %v, want %v", got, tt.wantValid)
			}
		})
	}
}

func TestRectOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"shared edge", Rect{0, 0, 0.5, 1}, Rect{0.5, 0, 0.5, 1}, false},
		{"shared corner", Rect{0, 0, 0.5, 0.5}, Rect{0.5, 0.5, 0.5, 0.5}, false},
		{"nested", Unit, Rect{0.3, 0.3, 0.4, 0.4}, true},
		{"partial", Rect{0, 0, 0.6, 1}, Rect{0.5, 0, 0.5, 1}, true},
		{"disjoint", Rect{0, 0, 0.2, 0.2}, Rect{0.8, 0.8, 0.2, 0.2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	if !Unit.Contains(Rect{0.3, 0.3, 0.4, 0.4}) {
		t.Error("unit should contain inner rect")
	}
	if !Unit.Contains(Unit) {
		t.Error("rect should contain itself")
	}
	if Unit.Contains(Rect{0.5, 0.5, 1, 1}) {
		t.Error("unit should not contain rect sticking out")
	}
}

func TestRectSplit(t *testing.T) {
	tests := []struct {
		name        string
		orientation Orientation
		divider     float64
		wantFirst   Rect
		wantSecond  Rect
	}{
		{"horizontal half", Horizontal, 0.5, Rect{0, 0, 0.5, 1}, Rect{0.5, 0, 0.5, 1}},
		{"vertical half", Vertical, 0.5, Rect{0, 0, 1, 0.5}, Rect{0, 0.5, 1, 0.5}},
		{"degenerate zero", Horizontal, 0, Rect{0, 0, 0, 1}, Rect{0, 0, 1, 1}},
		{"degenerate one", Vertical, 1, Rect{0, 0, 1, 1}, Rect{0, 1, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, second := Unit.Split(tt.orientation, tt.divider)
			if !first.ApproxEqual(tt.wantFirst, Eps) {
				t.Errorf("first = %+v, want %+v", first, tt.wantFirst)
			}
			if !second.ApproxEqual(tt.wantSecond, Eps) {
				t.Errorf("second = %+v, want %+v", second, tt.wantSecond)
			}
		})
	}
}

func TestRectTake(t *testing.T) {
	tests := []struct {
		side Side
		want Rect
	}{
		{Left, Rect{0, 0, 0.25, 1}},
		{Right, Rect{0.75, 0, 0.25, 1}},
		{Top, Rect{0, 0, 1, 0.25}},
		{Bottom, Rect{0, 0.75, 1, 0.25}},
	}

	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			if got := Unit.Take(tt.side, 0.25); !got.ApproxEqual(tt.want, Eps) {
				t.Errorf("Take(%v) = %+v, want %+v", tt.side, got, tt.want)
			}
		})
	}
}

func TestRectRelativeScale(t *testing.T) {
	bounds := Rect{X: 100, Y: 50, Width: 200, Height: 100}
	r := Rect{X: 150, Y: 75, Width: 100, Height: 25}

	rel := r.Relative(bounds)
	want := Rect{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.25}
	if !rel.ApproxEqual(want, Eps) {
		t.Fatalf("Relative() = %+v, want %+v", rel, want)
	}
	if back := rel.Scale(bounds); !back.ApproxEqual(r, Eps) {
		t.Errorf("Scale(Relative()) = %+v, want %+v", back, r)
	}
}

func TestRectUnion(t *testing.T) {
	got := Rect{0, 0, 0.5, 0.5}.Union(Rect{0.5, 0.5, 0.5, 0.5})
	if !got.ApproxEqual(Unit, Eps) {
		t.Errorf("Union() = %+v, want unit", got)
	}
}
