package location

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/split"
)

func sampleChain() *Property {
	return Chain(
		SplitPath{Address: address.Address{
			Steps:  []address.Step{{Direction: geom.Right, Size: 0.5, NodeID: 1}},
			LeafID: 3,
		}},
		SplitRect{Rect: geom.Rect{X: 0.5, Width: 0.5, Height: 1}},
		StackIndex{Index: 2},
		Screen{Rect: geom.Rect{X: 10, Y: 20, Width: 300, Height: 200}, Fullscreen: true},
	)
}

type kindCounter struct{ kinds []Kind }

func (c *kindCounter) VisitSplitPath(SplitPath) error {
	c.kinds = append(c.kinds, KindSplitPath)
	return nil
}

func (c *kindCounter) VisitSplitRect(SplitRect) error {
	c.kinds = append(c.kinds, KindSplitRect)
	return nil
}

func (c *kindCounter) VisitStackIndex(StackIndex) error {
	c.kinds = append(c.kinds, KindStackIndex)
	return nil
}

func (c *kindCounter) VisitScreen(Screen) error {
	c.kinds = append(c.kinds, KindScreen)
	return nil
}

func TestChainAndVisitor(t *testing.T) {
	requireT := require.New(t)

	p := sampleChain()
	requireT.Equal(4, p.Len())

	c := &kindCounter{}
	for _, l := range p.Locations() {
		requireT.NoError(l.Accept(c))
		requireT.Equal(l.Kind().String(), l.FactoryID())
	}
	requireT.Equal([]Kind{KindSplitPath, KindSplitRect, KindStackIndex, KindScreen}, c.kinds)

	requireT.Nil(Chain())
	requireT.Equal(0, (*Property)(nil).Len())
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindSplitPath, KindSplitRect, KindStackIndex, KindScreen} {
		got, ok := ParseKind(k.String())
		require.True(t, ok)
		require.Equal(t, k, got)
	}
	_, ok := ParseKind("flap")
	require.False(t, ok)
	require.Equal(t, "Kind(9)", Kind(9).String())
}

func TestBinaryRoundTrip(t *testing.T) {
	requireT := require.New(t)

	data, err := sampleChain().MarshalBinary()
	requireT.NoError(err)

	var got Property
	requireT.NoError(got.UnmarshalBinary(data))
	requireT.Equal(sampleChain().Locations(), got.Locations())

	var buf bytes.Buffer
	requireT.NoError(WriteBinary(&buf, sampleChain()))
	requireT.Equal(data, buf.Bytes())
}

func TestBinaryErrors(t *testing.T) {
	valid, err := sampleChain().MarshalBinary()
	require.NoError(t, err)

	unknown := binary.BigEndian.AppendUint16(nil, 4)
	unknown = append(unknown, "flap"...)
	unknown = binary.BigEndian.AppendUint32(unknown, 0)
	unknown = append(unknown, 0)

	shortRect := binary.BigEndian.AppendUint16(nil, uint16(len("split-rect")))
	shortRect = append(shortRect, "split-rect"...)
	shortRect = binary.BigEndian.AppendUint32(shortRect, 4)
	shortRect = append(shortRect, 0, 0, 0, 0, 0)

	tests := []struct {
		name string
		data []byte
		code errors.Code
	}{
		{"empty", nil, errors.ErrCodeInvalidFormat},
		{"truncated", valid[:len(valid)-3], errors.ErrCodeInvalidFormat},
		{"trailing", append(bytes.Clone(valid), 7), errors.ErrCodeInvalidFormat},
		{"unknown factory", unknown, errors.ErrCodeUnsupported},
		{"short rect", shortRect, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Property
			err := p.UnmarshalBinary(tt.data)
			require.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestXMLRoundTrip(t *testing.T) {
	requireT := require.New(t)

	data, err := xml.Marshal(sampleChain())
	requireT.NoError(err)
	requireT.Contains(string(data), `<Property factory="split-path"><path version="1.0.8">`)
	requireT.Contains(string(data), `<property factory="stack" index="2">`)

	var got Property
	requireT.NoError(xml.Unmarshal(data, &got))
	requireT.Equal(sampleChain().Locations(), got.Locations())
}

func TestXMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"unknown factory", `<property factory="flap"/>`, errors.ErrCodeUnsupported},
		{"path missing", `<property factory="split-path"/>`, errors.ErrCodeInvalidFormat},
		{"rect incomplete", `<property factory="split-rect" x="0" y="0"/>`, errors.ErrCodeInvalidFormat},
		{"index missing", `<property factory="stack"/>`, errors.ErrCodeInvalidFormat},
		{"bad successor", `<property factory="stack" index="1"><property factory="flap"/></property>`, errors.ErrCodeUnsupported},
		{"bad attribute", `<property factory="stack" index="one"/>`, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Property
			err := xml.Unmarshal([]byte(tt.doc), &p)
			require.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestResolve(t *testing.T) {
	requireT := require.New(t)

	tree, err := split.NewFromShape(split.Horizontal(0.5, split.Leaf("a"), split.Leaf("b")),
		split.WithBounds(geom.Rect{Width: 200, Height: 100}))
	requireT.NoError(err)
	b, _ := tree.LeafOf("b")

	addr, err := address.FromRoot(tree, b)
	requireT.NoError(err)

	// The path resolves by identity.
	got := Resolve(tree, Chain(SplitPath{Address: addr}, SplitRect{Rect: geom.Unit}))
	requireT.Equal(address.TierIdentity, got.Tier)
	requireT.Equal(geom.Rect{X: 100, Width: 100, Height: 100}, got.Rect)

	// A corrupt path falls through to the rectangle, scaled to the bounds.
	broken := address.New(address.Step{Direction: geom.Left, Size: 2})
	got = Resolve(tree, Chain(StackIndex{Index: 1}, SplitPath{Address: broken}, SplitRect{Rect: geom.Rect{X: 0.25, Width: 0.5, Height: 0.5}}))
	requireT.Equal(address.TierStructural, got.Tier)
	requireT.Equal(geom.Rect{X: 50, Width: 100, Height: 50}, got.Rect)

	// Nothing resolvable.
	got = Resolve(tree, Chain(Screen{Rect: geom.Unit}, StackIndex{}))
	requireT.False(got.Placed())
	requireT.Equal(address.Unplaced, got.Rect)

	got = Resolve(split.New(), Chain(SplitRect{Rect: geom.Unit}))
	requireT.False(got.Placed())

	requireT.False(Resolve(tree, nil).Placed())
}
