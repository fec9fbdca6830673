package address

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/docktree/pkg/errors"
)

// Version identifies the format an address was written with.
type Version struct {
	Major int32
	Minor int32
	Mild  int32
	Micro string
}

var (
	// V1_0_7 is the oldest format. It records directions and sizes only.
	V1_0_7 = Version{Major: 1, Minor: 0, Mild: 7}
	// V1_0_8 adds the id of every split node and of the leaf.
	V1_0_8 = Version{Major: 1, Minor: 0, Mild: 8}
	// Current is the version written by default.
	Current = V1_0_8
)

// Compare orders versions by their numeric parts, then by micro.
func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Mild, o.Mild); c != 0 {
		return c
	}
	return strings.Compare(v.Micro, o.Micro)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d%s", v.Major, v.Minor, v.Mild, v.Micro)
}

// ParseVersion parses "major.minor.mild" with an optional micro suffix
// directly after the mild number, as in "1.0.8b".
func ParseVersion(s string) (Version, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return Version{}, errors.New(errors.ErrCodeInvalidFormat, "invalid version %q", s)
	}
	var (
		nums  [3]int32
		micro string
	)
	for i, p := range parts {
		end := len(p)
		if i == 2 {
			end = strings.IndexFunc(p, func(r rune) bool { return r < '0' || r > '9' })
			if end < 0 {
				end = len(p)
			}
			micro = p[end:]
		}
		n, err := strconv.ParseInt(p[:end], 10, 32)
		if err != nil {
			return Version{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid version %q", s)
		}
		nums[i] = int32(n)
	}
	return Version{Major: nums[0], Minor: nums[1], Mild: nums[2], Micro: micro}, nil
}

// format lists what a version of the encoding carries.
type format struct {
	version Version
	ids     bool
}

// formats is ordered oldest first.
var formats = []format{
	{version: V1_0_7, ids: false},
	{version: V1_0_8, ids: true},
}

// formatFor returns the newest format not newer than v. Versions older than
// every known format read as the oldest one.
func formatFor(v Version) (format, error) {
	if v.Compare(Current) > 0 {
		return format{}, &FormatVersionError{Found: v, Supported: Current}
	}
	f := formats[0]
	for _, candidate := range formats {
		if candidate.version.Compare(v) <= 0 {
			f = candidate
		}
	}
	return f, nil
}

// FormatVersionError is returned when an address was written by a newer
// format than this package understands.
type FormatVersionError struct {
	Found     Version
	Supported Version
}

func (e *FormatVersionError) Error() string {
	return fmt.Sprintf("address format %s is newer than supported %s", e.Found, e.Supported)
}

// Code returns FORMAT_VERSION.
func (e *FormatVersionError) Code() errors.Code { return errors.ErrCodeFormatVersion }

// Unwrap exposes the error code to errors.Is.
func (e *FormatVersionError) Unwrap() error {
	return errors.New(errors.ErrCodeFormatVersion, "%s", e.Error())
}
