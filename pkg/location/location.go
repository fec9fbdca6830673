package location

import (
	"fmt"

	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/geom"
)

// Kind identifies one of the location encodings.
type Kind uint8

const (
	KindSplitPath Kind = iota
	KindSplitRect
	KindStackIndex
	KindScreen
)

var kindNames = [...]string{"split-path", "split-rect", "stack", "screen"}

// String returns the factory id of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind returns the kind with the given factory id.
func ParseKind(factory string) (Kind, bool) {
	for i, name := range kindNames {
		if name == factory {
			return Kind(i), true
		}
	}
	return 0, false
}

// Location is one way of describing where content sits. The set of
// implementations is closed; use a Visitor to handle all of them.
type Location interface {
	Kind() Kind
	FactoryID() string
	Accept(v Visitor) error
	sealed()
}

// Visitor has one method per location kind.
type Visitor interface {
	VisitSplitPath(SplitPath) error
	VisitSplitRect(SplitRect) error
	VisitStackIndex(StackIndex) error
	VisitScreen(Screen) error
}

// SplitPath locates content by its address in a split tree.
type SplitPath struct {
	Address address.Address
}

// SplitRect locates content by a rectangle relative to the tree bounds.
type SplitRect struct {
	Rect geom.Rect
}

// StackIndex locates content by its position in a stack.
type StackIndex struct {
	Index int
}

// Screen locates content in a floating window. It is carried along but
// never resolved against a split tree.
type Screen struct {
	Rect       geom.Rect
	Fullscreen bool
}

func (SplitPath) Kind() Kind  { return KindSplitPath }
func (SplitRect) Kind() Kind  { return KindSplitRect }
func (StackIndex) Kind() Kind { return KindStackIndex }
func (Screen) Kind() Kind     { return KindScreen }

func (l SplitPath) FactoryID() string  { return l.Kind().String() }
func (l SplitRect) FactoryID() string  { return l.Kind().String() }
func (l StackIndex) FactoryID() string { return l.Kind().String() }
func (l Screen) FactoryID() string     { return l.Kind().String() }

func (l SplitPath) Accept(v Visitor) error  { return v.VisitSplitPath(l) }
func (l SplitRect) Accept(v Visitor) error  { return v.VisitSplitRect(l) }
func (l StackIndex) Accept(v Visitor) error { return v.VisitStackIndex(l) }
func (l Screen) Accept(v Visitor) error     { return v.VisitScreen(l) }

func (SplitPath) sealed()  {}
func (SplitRect) sealed()  {}
func (StackIndex) sealed() {}
func (Screen) sealed()     {}

// Property is a location with an optional fallback, tried when the location
// itself cannot be resolved.
type Property struct {
	Location  Location
	Successor *Property
}

// Chain builds a property from locations, the first one tried first.
func Chain(locs ...Location) *Property {
	var p *Property
	for i := len(locs) - 1; i >= 0; i-- {
		p = &Property{Location: locs[i], Successor: p}
	}
	return p
}

// Locations returns the chain in order.
func (p *Property) Locations() []Location {
	var out []Location
	for ; p != nil; p = p.Successor {
		out = append(out, p.Location)
	}
	return out
}

// Len returns the length of the chain.
func (p *Property) Len() int {
	n := 0
	for ; p != nil; p = p.Successor {
		n++
	}
	return n
}
