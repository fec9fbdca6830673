package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
)

// =============================================================================
// JSON
// =============================================================================

// MarshalLayout converts a layout to indented JSON bytes.
func MarshalLayout(l *Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout decodes a layout from JSON bytes.
func UnmarshalLayout(data []byte) (*Layout, error) {
	return ReadJSON(bytes.NewReader(data))
}

// WriteJSON writes l as indented JSON to w.
func WriteJSON(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}

// ReadJSON decodes a layout from r. Only the envelope is checked here; entries
// are decoded one by one when the layout is applied.
func ReadJSON(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if err := check(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// WriteFile writes l as JSON to path.
func WriteFile(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(l, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a JSON layout from path.
func ReadFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// =============================================================================
// BSON
// =============================================================================

// bsonLayout is the document form; the uuid is stored as a string under _id.
type bsonLayout struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	CreatedAt   time.Time `bson:"created_at"`
	Bounds      geom.Rect `bson:"bounds"`
	Fingerprint string    `bson:"fingerprint"`
	Entries     []Entry   `bson:"entries"`
}

// MarshalBSON implements bson.Marshaler.
func (l *Layout) MarshalBSON() ([]byte, error) {
	return bson.Marshal(bsonLayout{
		ID:          l.ID.String(),
		Name:        l.Name,
		CreatedAt:   l.CreatedAt,
		Bounds:      l.Bounds,
		Fingerprint: l.Fingerprint,
		Entries:     l.Entries,
	})
}

// UnmarshalBSON implements bson.Unmarshaler.
func (l *Layout) UnmarshalBSON(data []byte) error {
	var doc bsonLayout
	if err := bson.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout document")
	}
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "layout id %q", doc.ID)
	}
	*l = Layout{
		ID:          id,
		Name:        doc.Name,
		CreatedAt:   doc.CreatedAt,
		Bounds:      doc.Bounds,
		Fingerprint: doc.Fingerprint,
		Entries:     doc.Entries,
	}
	return check(l)
}

func check(l *Layout) error {
	if err := errors.ValidateLayoutName(l.Name); err != nil {
		return err
	}
	if !l.Bounds.Valid() {
		return errors.New(errors.ErrCodeInvalidFormat, "layout %q has invalid bounds", l.Name)
	}
	return nil
}
