package render

import (
	"math"
	"strings"

	"github.com/matzehuels/docktree/pkg/split"
)

// Text draws tree as ASCII boxes on a grid of cols x rows cells. Placeholders
// are drawn with dotted edges. Blocks too small for a label stay empty.
func Text(tree *split.Tree, cols, rows int) string {
	cols, rows = max(cols, 2), max(rows, 2)
	canvas := make([][]rune, rows+1)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", cols+1))
	}

	bounds := tree.Bounds()
	for _, b := range Blocks(tree) {
		rel := b.Rect.Relative(bounds)
		x0, x1 := cell(rel.X, cols), cell(rel.X+rel.Width, cols)
		y0, y1 := cell(rel.Y, rows), cell(rel.Y+rel.Height, rows)
		if x1 <= x0 || y1 <= y0 {
			continue
		}

		hz, vt := '-', '|'
		if b.Placeholder() {
			hz, vt = '.', ':'
		}
		for x := x0 + 1; x < x1; x++ {
			canvas[y0][x], canvas[y1][x] = hz, hz
		}
		for y := y0 + 1; y < y1; y++ {
			canvas[y][x0], canvas[y][x1] = vt, vt
		}
		for _, p := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
			canvas[p[1]][p[0]] = '+'
		}

		width := x1 - x0 - 1
		if width < 1 || y1-y0 < 2 {
			continue
		}
		label := []rune(b.Label)
		if len(label) > width {
			label = label[:width]
		}
		y := (y0 + y1) / 2
		start := x0 + 1 + (width-len(label))/2
		copy(canvas[y][start:], label)
	}

	lines := make([]string, len(canvas))
	for i, row := range canvas {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n") + "\n"
}

func cell(v float64, n int) int {
	return min(n, max(0, int(math.Round(v*float64(n)))))
}
