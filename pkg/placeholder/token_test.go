package placeholder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docktree/pkg/errors"
)

func TestNewToken(t *testing.T) {
	requireT := require.New(t)

	tok, err := NewToken("dock", "single", "note-7")
	requireT.NoError(err)
	requireT.Equal(Token("dock.single.note-7"), tok)
	requireT.Equal([]string{"dock", "single", "note-7"}, tok.Segments())

	_, err = NewToken()
	requireT.True(errors.Is(err, errors.ErrCodeInvalidToken))

	_, err = NewToken("dock", "has space")
	requireT.True(errors.Is(err, errors.ErrCodeInvalidToken))
}

func TestParseToken(t *testing.T) {
	requireT := require.New(t)

	tok, err := ParseToken("note-7")
	requireT.NoError(err)
	requireT.Equal(Token("note-7"), tok)

	_, err = ParseToken("a..b")
	requireT.Error(err)

	_, err = ParseToken("")
	requireT.Error(err)
}

func TestTokenAppend(t *testing.T) {
	requireT := require.New(t)

	requireT.Equal(Token("a.b.c"), Token("a.b").Append("c"))
	requireT.Equal(Token("a"), Token("").Append("a"))
	requireT.Equal(Token("a"), Token("a").Append(""))
}

func TestTokenUniqueAppend(t *testing.T) {
	tests := []struct {
		name        string
		first, next Token
		want        Token
	}{
		{"no overlap", "a.b", "c.d", "a.b.c.d"},
		{"one segment overlap", "a.b", "b.c", "a.b.c"},
		{"full overlap", "a.b", "a.b", "a.b"},
		{"suffix contained", "x.a.b", "a.b", "x.a.b"},
		{"empty first", "", "a", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.first.UniqueAppend(tt.next))
		})
	}
}

func TestCombiners(t *testing.T) {
	requireT := require.New(t)

	requireT.Equal(Token("a.b.b.c"), Append("a.b", "b.c"))
	requireT.Equal(Token("a.b.c"), Unique("a.b", "b.c"))
	requireT.Equal(Token("b.c"), Second("a.b", "b.c"))
}

func TestMustTokenPanics(t *testing.T) {
	require.Panics(t, func() { MustToken("bad segment") })
}
