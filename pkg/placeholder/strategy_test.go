package placeholder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	requireT := require.New(t)

	r := NewRegistry()
	_, ok := r.PlaceholderFor("notes")
	requireT.False(ok)

	r.Register("notes", "note-7")
	tok, ok := r.PlaceholderFor("notes")
	requireT.True(ok)
	requireT.Equal(Token("note-7"), tok)
	requireT.True(r.IsValid("note-7"))

	r.Invalidate("note-7")
	requireT.False(r.IsValid("note-7"))
	_, ok = r.PlaceholderFor("notes")
	requireT.False(ok)

	r.Revalidate("note-7")
	requireT.True(r.IsValid("note-7"))
}

func TestRegistryOwners(t *testing.T) {
	requireT := require.New(t)

	r := NewRegistry()
	var s Strategy = r
	inst, ok := s.(Installer)
	requireT.True(ok)

	inst.Install("left")
	inst.Install("left")
	inst.Install("right")
	requireT.Equal(3, r.Owners())
	inst.Uninstall("left")
	inst.Uninstall("right")
	requireT.Equal(1, r.Owners())
}

func TestFuncs(t *testing.T) {
	requireT := require.New(t)

	var empty Funcs
	_, ok := empty.PlaceholderFor("x")
	requireT.False(ok)
	requireT.True(empty.IsValid("x"))

	f := Funcs{
		For:   func(content string) (Token, bool) { return Token("tok-" + content), true },
		Valid: func(t Token) bool { return t != "dead" },
	}
	tok, ok := f.PlaceholderFor("a")
	requireT.True(ok)
	requireT.Equal(Token("tok-a"), tok)
	requireT.False(f.IsValid("dead"))
}
