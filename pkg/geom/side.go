package geom

import (
	"fmt"
	"strings"
)

// Orientation tells how a split node divides its rectangle.
type Orientation int

const (
	// Horizontal places the children next to each other: left | right.
	Horizontal Orientation = iota
	// Vertical stacks the children: top above bottom.
	Vertical
)

// String returns "horizontal" or "vertical".
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Sides returns the side of the first and of the second child.
func (o Orientation) Sides() (first, second Side) {
	if o == Vertical {
		return Top, Bottom
	}
	return Left, Right
}

// Side is the direction a path takes inside a split node.
type Side uint8

// The numeric values are the ones written by the binary address format.
const (
	Left Side = iota
	Right
	Top
	Bottom
)

var sideNames = [...]string{"LEFT", "RIGHT", "TOP", "BOTTOM"}

// String returns the upper case name used by the text formats.
func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return fmt.Sprintf("Side(%d)", s)
}

// Valid reports whether s is one of the four known sides.
func (s Side) Valid() bool { return s <= Bottom }

// Orientation returns the orientation of a split node that has a child on side s.
func (s Side) Orientation() Orientation {
	if s == Top || s == Bottom {
		return Vertical
	}
	return Horizontal
}

// First reports whether s denotes the first child (left or top).
func (s Side) First() bool { return s == Left || s == Top }

// Opposite returns the other side of the same orientation.
func (s Side) Opposite() Side {
	switch s {
	case Left:
		return Right
	case Right:
		return Left
	case Top:
		return Bottom
	default:
		return Top
	}
}

// ParseSide parses the names produced by String, case-insensitively.
func ParseSide(s string) (Side, error) {
	for i, name := range sideNames {
		if strings.EqualFold(s, name) {
			return Side(i), nil
		}
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// MarshalText encodes the side by name.
func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid side %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a side name.
func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
