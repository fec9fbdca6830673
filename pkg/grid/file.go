package grid

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
)

// Format is the encoding of a grid description file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension. Unknown extensions
// are read as YAML, which also accepts JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// File is a grid description as stored on disk:
//
//	name: ide
//	bounds: {x: 0, y: 0, width: 1600, height: 900}
//	cells:
//	  - {x: 0, y: 0, width: 1, height: 1, contents: [editor, preview], selected: editor}
//	  - {x: 1, y: 0, width: 1, height: 1, placeholders: [dock.console]}
//
// Bounds is optional and only sets the rectangle of the tree built from the
// file; cell coordinates are always relative to each other.
type File struct {
	Name   string     `json:"name,omitempty" yaml:"name,omitempty"`
	Bounds *geom.Rect `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Cells  []Cell     `json:"cells" yaml:"cells"`
}

// Grid returns a grid holding the file's cells.
func (f *File) Grid() *Grid { return FromCells(f.Cells) }

// Decode reads a grid description from r.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&f)
	case FormatYAML, "":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&f)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown grid format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode grid")
	}
	if len(f.Cells) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "grid description has no cells")
	}
	return &f, nil
}

// Encode writes f to w.
func Encode(w io.Writer, f *File, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown grid format %q", format)
	}
}

// ReadFile reads the grid description at path.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	f, err := Decode(fh, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}
