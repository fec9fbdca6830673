package address

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/observability"
	"github.com/matzehuels/docktree/pkg/split"
)

type xmlPath struct {
	Version string    `xml:"version,attr,omitempty"`
	Nodes   []xmlNode `xml:"node"`
	Leaf    *xmlLeaf  `xml:"leaf"`
}

type xmlNode struct {
	Location string `xml:"location,attr"`
	Size     string `xml:"size,attr"`
	ID       string `xml:"id,attr,omitempty"`
}

type xmlLeaf struct {
	ID string `xml:"id,attr,omitempty"`
}

// MarshalXML writes the address in the current version under the element
// name chosen by the caller.
func (a Address) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	x, err := toXML(a, Current)
	if err != nil {
		return err
	}
	return e.EncodeElement(x, start)
}

// UnmarshalXML reads an address from any element. Unknown ids are left as
// split.NoID, a missing version attribute reads as the oldest version.
func (a *Address) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var x xmlPath
	if err := d.DecodeElement(&x, &start); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode address element")
	}
	got, err := fromXML(x)
	if err != nil {
		observability.Replay().OnDecodeError("xml", err)
		return err
	}
	*a = got
	return nil
}

// EncodeXML writes a as a <path> element in the format of version v.
func EncodeXML(w io.Writer, a Address, v Version) error {
	x, err := toXML(a, v)
	if err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.EncodeElement(x, xml.StartElement{Name: xml.Name{Local: "path"}}); err != nil {
		return err
	}
	return enc.Close()
}

// DecodeXML reads the first element of r as an address.
func DecodeXML(r io.Reader) (Address, error) {
	var a Address
	if err := xml.NewDecoder(r).Decode(&a); err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode address")
		}
		return Address{}, err
	}
	return a, nil
}

func toXML(a Address, v Version) (xmlPath, error) {
	f, err := formatFor(v)
	if err != nil {
		return xmlPath{}, err
	}
	x := xmlPath{Version: v.String(), Nodes: make([]xmlNode, 0, len(a.Steps))}
	for i, s := range a.Steps {
		if !s.Direction.Valid() {
			return xmlPath{}, errors.New(errors.ErrCodeInvalidInput, "step %d has invalid direction %v", i, s.Direction)
		}
		n := xmlNode{Location: s.Direction.String(), Size: strconv.FormatFloat(s.Size, 'g', -1, 64)}
		if f.ids {
			n.ID = formatID(s.NodeID)
		}
		x.Nodes = append(x.Nodes, n)
	}
	if f.ids {
		x.Leaf = &xmlLeaf{ID: formatID(a.LeafID)}
	}
	return x, nil
}

func fromXML(x xmlPath) (Address, error) {
	v := formats[0].version
	if x.Version != "" {
		parsed, err := ParseVersion(x.Version)
		if err != nil {
			return Address{}, err
		}
		v = parsed
	}
	if _, err := formatFor(v); err != nil {
		return Address{}, err
	}

	a := Address{Steps: make([]Step, 0, len(x.Nodes)), LeafID: split.NoID}
	for i, n := range x.Nodes {
		dir, err := geom.ParseSide(n.Location)
		if err != nil {
			return Address{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d", i)
		}
		size, err := strconv.ParseFloat(n.Size, 64)
		if err != nil {
			return Address{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d: size", i)
		}
		id, err := parseID(n.ID)
		if err != nil {
			return Address{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d: id", i)
		}
		a.Steps = append(a.Steps, Step{Direction: dir, Size: size, NodeID: id})
	}
	if x.Leaf != nil {
		id, err := parseID(x.Leaf.ID)
		if err != nil {
			return Address{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "leaf id")
		}
		a.LeafID = id
	}
	return a, nil
}

// formatID leaves negative ids out of the document.
func formatID(id split.NodeID) string {
	if id < 0 {
		return ""
	}
	return strconv.FormatInt(int64(id), 10)
}

// parseID reads a missing id as split.NoID.
func parseID(s string) (split.NodeID, error) {
	if s == "" {
		return split.NoID, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return split.NoID, err
	}
	return split.NodeID(n), nil
}
