package cache

// ScopedKeyer wraps a Keyer with a prefix so that several workspaces can share
// one backend without seeing each other's layouts.
//
// Example usage:
//
//	// Layouts of one project only
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "project:editor:")
//
//	// Layouts shared by everyone
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(name string) string {
	return k.prefix + k.inner.LayoutKey(name)
}

// ShapeKey generates a prefixed shape key.
func (k *ScopedKeyer) ShapeKey(gridHash string) string {
	return k.prefix + k.inner.ShapeKey(gridHash)
}
