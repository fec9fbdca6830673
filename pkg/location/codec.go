package location

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"io"
	"math"

	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
)

const (
	maxChain   = 64
	maxPayload = 1 << 20
)

// MarshalBinary encodes the whole chain. Each link is written as its factory
// id, the length of its payload, the payload, and a flag telling whether a
// successor follows.
func (p *Property) MarshalBinary() ([]byte, error) {
	var b []byte
	for link := p; link != nil; link = link.Successor {
		if link.Location == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "property without location")
		}
		payload, err := encodePayload(link.Location)
		if err != nil {
			return nil, err
		}
		id := link.Location.FactoryID()
		b = binary.BigEndian.AppendUint16(b, uint16(len(id)))
		b = append(b, id...)
		b = binary.BigEndian.AppendUint32(b, uint32(len(payload)))
		b = append(b, payload...)
		if link.Successor != nil {
			b = append(b, 1)
		} else {
			b = append(b, 0)
		}
	}
	return b, nil
}

// UnmarshalBinary decodes a chain written by MarshalBinary.
func (p *Property) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	got, err := ReadBinary(r)
	if err != nil {
		return err
	}
	if r.Len() != 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "%d trailing bytes after property", r.Len())
	}
	*p = *got
	return nil
}

// WriteBinary writes p to w.
func WriteBinary(w io.Writer, p *Property) error {
	b, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// ReadBinary reads one chain from r. A factory id this package does not know
// fails with UNSUPPORTED.
func ReadBinary(r io.Reader) (*Property, error) {
	var (
		head, tail *Property
		b          [8]byte
	)
	for n := 0; ; n++ {
		if n == maxChain {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "property chain longer than %d", maxChain)
		}
		if _, err := io.ReadFull(r, b[:2]); err != nil {
			return nil, truncated(err, "factory id")
		}
		id := make([]byte, binary.BigEndian.Uint16(b[:2]))
		if _, err := io.ReadFull(r, id); err != nil {
			return nil, truncated(err, "factory id")
		}
		kind, ok := ParseKind(string(id))
		if !ok {
			return nil, errors.New(errors.ErrCodeUnsupported, "unknown location factory %q", id)
		}
		if _, err := io.ReadFull(r, b[:4]); err != nil {
			return nil, truncated(err, "payload length")
		}
		size := binary.BigEndian.Uint32(b[:4])
		if size > maxPayload {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "payload of %d bytes too large", size)
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, truncated(err, "payload")
		}
		loc, err := decodePayload(kind, payload)
		if err != nil {
			return nil, err
		}

		link := &Property{Location: loc}
		if head == nil {
			head = link
		} else {
			tail.Successor = link
		}
		tail = link

		if _, err := io.ReadFull(r, b[:1]); err != nil {
			return nil, truncated(err, "successor flag")
		}
		if b[0] == 0 {
			return head, nil
		}
	}
}

func truncated(err error, what string) error {
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "truncated property: reading %s", what)
}

func encodePayload(loc Location) ([]byte, error) {
	switch l := loc.(type) {
	case SplitPath:
		return l.Address.MarshalBinary()
	case SplitRect:
		return appendRect(nil, l.Rect), nil
	case StackIndex:
		return binary.BigEndian.AppendUint32(nil, uint32(int32(l.Index))), nil
	case Screen:
		b := appendRect(nil, l.Rect)
		if l.Fullscreen {
			return append(b, 1), nil
		}
		return append(b, 0), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown location %T", loc)
	}
}

func decodePayload(kind Kind, payload []byte) (Location, error) {
	switch kind {
	case KindSplitPath:
		var a address.Address
		if err := a.UnmarshalBinary(payload); err != nil {
			return nil, err
		}
		return SplitPath{Address: a}, nil
	case KindSplitRect:
		if len(payload) != 32 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "split-rect payload has %d bytes, want 32", len(payload))
		}
		return SplitRect{Rect: readRect(payload)}, nil
	case KindStackIndex:
		if len(payload) != 4 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "stack payload has %d bytes, want 4", len(payload))
		}
		return StackIndex{Index: int(int32(binary.BigEndian.Uint32(payload)))}, nil
	default:
		if len(payload) != 33 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "screen payload has %d bytes, want 33", len(payload))
		}
		return Screen{Rect: readRect(payload), Fullscreen: payload[32] != 0}, nil
	}
}

func appendRect(b []byte, r geom.Rect) []byte {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		b = binary.BigEndian.AppendUint64(b, math.Float64bits(v))
	}
	return b
}

func readRect(b []byte) geom.Rect {
	f := func(i int) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b[i*8:])) }
	return geom.Rect{X: f(0), Y: f(1), Width: f(2), Height: f(3)}
}

// xmlProperty is one link of the chain. The successor is nested inside.
type xmlProperty struct {
	Factory    string           `xml:"factory,attr"`
	X          *float64         `xml:"x,attr,omitempty"`
	Y          *float64         `xml:"y,attr,omitempty"`
	Width      *float64         `xml:"width,attr,omitempty"`
	Height     *float64         `xml:"height,attr,omitempty"`
	Index      *int             `xml:"index,attr,omitempty"`
	Fullscreen bool             `xml:"fullscreen,attr,omitempty"`
	Path       *address.Address `xml:"path"`
	Successor  *xmlProperty     `xml:"property"`
}

// MarshalXML writes the chain as nested property elements.
func (p *Property) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	x, err := toXML(p)
	if err != nil {
		return err
	}
	return e.EncodeElement(x, start)
}

// UnmarshalXML reads a chain written by MarshalXML.
func (p *Property) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var x xmlProperty
	if err := d.DecodeElement(&x, &start); err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode property")
		}
		return err
	}
	got, err := fromXML(&x, 0)
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

func toXML(p *Property) (*xmlProperty, error) {
	if p == nil {
		return nil, nil
	}
	if p.Location == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "property without location")
	}
	x := &xmlProperty{Factory: p.Location.FactoryID()}
	switch l := p.Location.(type) {
	case SplitPath:
		a := l.Address
		x.Path = &a
	case SplitRect:
		x.X, x.Y, x.Width, x.Height = &l.Rect.X, &l.Rect.Y, &l.Rect.Width, &l.Rect.Height
	case StackIndex:
		x.Index = &l.Index
	case Screen:
		x.X, x.Y, x.Width, x.Height = &l.Rect.X, &l.Rect.Y, &l.Rect.Width, &l.Rect.Height
		x.Fullscreen = l.Fullscreen
	}
	succ, err := toXML(p.Successor)
	if err != nil {
		return nil, err
	}
	x.Successor = succ
	return x, nil
}

func fromXML(x *xmlProperty, depth int) (*Property, error) {
	if depth == maxChain {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "property chain longer than %d", maxChain)
	}
	kind, ok := ParseKind(x.Factory)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown location factory %q", x.Factory)
	}

	p := &Property{}
	switch kind {
	case KindSplitPath:
		if x.Path == nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "split-path property without path")
		}
		p.Location = SplitPath{Address: *x.Path}
	case KindSplitRect, KindScreen:
		if x.X == nil || x.Y == nil || x.Width == nil || x.Height == nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s property needs x, y, width and height", kind)
		}
		r := geom.Rect{X: *x.X, Y: *x.Y, Width: *x.Width, Height: *x.Height}
		if kind == KindScreen {
			p.Location = Screen{Rect: r, Fullscreen: x.Fullscreen}
		} else {
			p.Location = SplitRect{Rect: r}
		}
	case KindStackIndex:
		if x.Index == nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "stack property without index")
		}
		p.Location = StackIndex{Index: *x.Index}
	}

	if x.Successor != nil {
		succ, err := fromXML(x.Successor, depth+1)
		if err != nil {
			return nil, err
		}
		p.Successor = succ
	}
	return p, nil
}
