package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateFraction checks that v is a relative size in the closed range [0, 1].
// Both ends are legal: a divider of 0 or 1 is degenerate but valid.
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidTopology, "%s must be a finite number, got %v", name, v)
	}
	if v < 0 || v > 1 {
		return New(ErrCodeInvalidTopology, "%s must be in the range 0.0 to 1.0, got %v", name, v)
	}
	return nil
}

// tokenSegmentRegex matches a single segment of a placeholder token.
var tokenSegmentRegex = regexp.MustCompile(`^[A-Za-z0-9_\-:]+$`)

// ValidateTokenSegment validates one dot-free segment of a placeholder token.
//
// The validation rules are intentionally conservative:
//   - No empty segments
//   - No dots (the dot separates segments)
//   - No control characters or whitespace
//   - Maximum length of 128 characters
func ValidateTokenSegment(segment string) error {
	if segment == "" {
		return New(ErrCodeInvalidToken, "token segment cannot be empty")
	}
	if len(segment) > 128 {
		return New(ErrCodeInvalidToken, "token segment too long (max 128 characters)")
	}
	if strings.Contains(segment, ".") {
		return New(ErrCodeInvalidToken, "token segment cannot contain '.': %q", segment)
	}
	for _, r := range segment {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidToken, "token segment contains invalid characters: %q", segment)
		}
	}
	if !tokenSegmentRegex.MatchString(segment) {
		return New(ErrCodeInvalidToken, "invalid token segment: %q", segment)
	}
	return nil
}

// ValidateLayoutName validates the name a layout is stored under.
// Names end up in cache keys and file names, so they are kept to a safe subset.
func ValidateLayoutName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "layout name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidName, "layout name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "layout name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "layout name contains invalid characters: %q", pattern)
		}
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "layout name cannot start with '.'")
	}

	return nil
}
