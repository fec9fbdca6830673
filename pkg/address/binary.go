package address

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"unicode/utf16"

	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/observability"
	"github.com/matzehuels/docktree/pkg/split"
)

// maxSteps bounds the step count read from untrusted input.
const maxSteps = 1 << 16

// MarshalBinary encodes the address in the current binary format.
func (a Address) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteBinary(&buf, a, Current); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes an address written by any supported version.
func (a *Address) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	got, err := ReadBinary(r)
	if err != nil {
		return err
	}
	if r.Len() != 0 {
		err := errors.New(errors.ErrCodeInvalidFormat, "%d trailing bytes after address", r.Len())
		observability.Replay().OnDecodeError("binary", err)
		return err
	}
	*a = got
	return nil
}

// WriteBinary writes a in the binary format of version v. The layout is
// big-endian: the version, a 32-bit step count, then per step a direction
// byte, the size as a float64 and, from 1.0.8 on, the node id. From 1.0.8 on
// the leaf id follows the steps.
func WriteBinary(w io.Writer, a Address, v Version) error {
	f, err := formatFor(v)
	if err != nil {
		return err
	}
	if len(a.Steps) > maxSteps {
		return errors.New(errors.ErrCodeInvalidInput, "address has %d steps, max %d", len(a.Steps), maxSteps)
	}

	b, err := appendVersion(nil, v)
	if err != nil {
		return err
	}
	b = binary.BigEndian.AppendUint32(b, uint32(len(a.Steps)))
	for i, s := range a.Steps {
		if !s.Direction.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "step %d has invalid direction %v", i, s.Direction)
		}
		b = append(b, byte(s.Direction))
		b = binary.BigEndian.AppendUint64(b, math.Float64bits(s.Size))
		if f.ids {
			b = binary.BigEndian.AppendUint64(b, uint64(s.NodeID))
		}
	}
	if f.ids {
		b = binary.BigEndian.AppendUint64(b, uint64(a.LeafID))
	}
	_, err = w.Write(b)
	return err
}

// ReadBinary reads one address from r. Addresses from versions without ids
// come back with split.NoID everywhere. Addresses from newer versions are
// refused with a *FormatVersionError.
func ReadBinary(r io.Reader) (Address, error) {
	a, err := readBinary(&decoder{r: r})
	if err != nil {
		observability.Replay().OnDecodeError("binary", err)
	}
	return a, err
}

func readBinary(d *decoder) (Address, error) {
	v := d.version()
	if d.err != nil {
		return Address{}, d.fail("version")
	}
	f, err := formatFor(v)
	if err != nil {
		return Address{}, err
	}

	count := d.i32()
	if d.err != nil {
		return Address{}, d.fail("step count")
	}
	if count < 0 || count > maxSteps {
		return Address{}, errors.New(errors.ErrCodeInvalidFormat, "invalid step count %d", count)
	}

	a := Address{Steps: make([]Step, 0, count), LeafID: split.NoID}
	for i := range int(count) {
		dir := d.u8()
		size := math.Float64frombits(uint64(d.i64()))
		id := split.NoID
		if f.ids {
			id = split.NodeID(d.i64())
		}
		if d.err != nil {
			return Address{}, d.fail("step %d", i)
		}
		if side := geom.Side(dir); !side.Valid() {
			return Address{}, errors.New(errors.ErrCodeInvalidFormat, "step %d: invalid direction byte %d", i, dir)
		}
		a.Steps = append(a.Steps, Step{Direction: geom.Side(dir), Size: size, NodeID: id})
	}
	if f.ids {
		a.LeafID = split.NodeID(d.i64())
		if d.err != nil {
			return Address{}, d.fail("leaf id")
		}
	}
	return a, nil
}

func appendVersion(b []byte, v Version) ([]byte, error) {
	b = binary.BigEndian.AppendUint32(b, uint32(v.Major))
	b = binary.BigEndian.AppendUint32(b, uint32(v.Minor))
	b = binary.BigEndian.AppendUint32(b, uint32(v.Mild))
	return appendUTF(b, v.Micro)
}

// appendUTF writes s the way java.io.DataOutput.writeUTF does: a 16-bit
// length followed by modified UTF-8, where NUL takes two bytes and characters
// outside the BMP are written as two encoded surrogates.
func appendUTF(b []byte, s string) ([]byte, error) {
	units := utf16.Encode([]rune(s))
	var enc []byte
	for _, u := range units {
		switch {
		case u >= 0x0001 && u <= 0x007f:
			enc = append(enc, byte(u))
		case u <= 0x07ff:
			enc = append(enc, byte(0xc0|(u>>6)&0x1f), byte(0x80|u&0x3f))
		default:
			enc = append(enc, byte(0xe0|(u>>12)&0x0f), byte(0x80|(u>>6)&0x3f), byte(0x80|u&0x3f))
		}
	}
	if len(enc) > math.MaxUint16 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "string too long for modified UTF-8 (%d bytes)", len(enc))
	}
	b = binary.BigEndian.AppendUint16(b, uint16(len(enc)))
	return append(b, enc...), nil
}

// decoder reads big-endian values and keeps the first error.
type decoder struct {
	r   io.Reader
	buf [8]byte
	err error
}

func (d *decoder) read(n int) []byte {
	if d.err != nil {
		return d.buf[:n]
	}
	_, d.err = io.ReadFull(d.r, d.buf[:n])
	return d.buf[:n]
}

func (d *decoder) u8() uint8   { return d.read(1)[0] }
func (d *decoder) u16() uint16 { return binary.BigEndian.Uint16(d.read(2)) }
func (d *decoder) i32() int32  { return int32(binary.BigEndian.Uint32(d.read(4))) }
func (d *decoder) i64() int64  { return int64(binary.BigEndian.Uint64(d.read(8))) }

func (d *decoder) version() Version {
	v := Version{Major: d.i32(), Minor: d.i32(), Mild: d.i32()}
	v.Micro = d.utf()
	return v
}

func (d *decoder) utf() string {
	n := int(d.u16())
	if d.err != nil {
		return ""
	}
	enc := make([]byte, n)
	if _, d.err = io.ReadFull(d.r, enc); d.err != nil {
		return ""
	}
	var units []uint16
	for i := 0; i < len(enc); {
		c := enc[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xe0 == 0xc0 && i+1 < len(enc):
			units = append(units, uint16(c&0x1f)<<6|uint16(enc[i+1]&0x3f))
			i += 2
		case c&0xf0 == 0xe0 && i+2 < len(enc):
			units = append(units, uint16(c&0x0f)<<12|uint16(enc[i+1]&0x3f)<<6|uint16(enc[i+2]&0x3f))
			i += 3
		default:
			d.err = errors.New(errors.ErrCodeInvalidFormat, "malformed modified UTF-8 at byte %d", i)
			return ""
		}
	}
	return string(utf16.Decode(units))
}

// fail converts the sticky read error into an INVALID_FORMAT error.
func (d *decoder) fail(format string, args ...any) error {
	if e, ok := d.err.(*errors.Error); ok {
		return e
	}
	return errors.Wrap(errors.ErrCodeInvalidFormat, d.err, "truncated address: reading "+format, args...)
}
