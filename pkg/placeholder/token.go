package placeholder

import (
	"strings"

	"github.com/matzehuels/docktree/pkg/errors"
)

// Token is an opaque identifier standing in for content that is temporarily
// absent from a tree. Tokens are dotted paths like "dock.single.note-7"; the
// engine only compares them for equality and never interprets the segments.
type Token string

// NewToken joins segments with '.' after validating every segment.
func NewToken(segments ...string) (Token, error) {
	if len(segments) == 0 {
		return "", errors.New(errors.ErrCodeInvalidToken, "token needs at least one segment")
	}
	for _, s := range segments {
		if err := errors.ValidateTokenSegment(s); err != nil {
			return "", err
		}
	}
	return Token(strings.Join(segments, ".")), nil
}

// MustToken is like NewToken but panics on invalid input. Intended for tests
// and package level variables.
func MustToken(segments ...string) Token {
	t, err := NewToken(segments...)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseToken validates a dotted token string.
func ParseToken(s string) (Token, error) {
	return NewToken(strings.Split(s, ".")...)
}

// String returns the dotted form of the token.
func (t Token) String() string { return string(t) }

// Segments splits the token at its dots.
func (t Token) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), ".")
}

// Append returns t followed by all segments of other.
func (t Token) Append(other Token) Token {
	switch {
	case t == "":
		return other
	case other == "":
		return t
	}
	return t + "." + other
}

// UniqueAppend appends other to t, skipping the leading segments of other that
// t already ends with. Appending a token to itself returns it unchanged.
func (t Token) UniqueAppend(other Token) Token {
	head, tail := t.Segments(), other.Segments()
	overlap := 0
	for n := min(len(head), len(tail)); n > 0; n-- {
		if equalSegments(head[len(head)-n:], tail[:n]) {
			overlap = n
			break
		}
	}
	rest := tail[overlap:]
	if len(rest) == 0 {
		return t
	}
	return t.Append(Token(strings.Join(rest, ".")))
}

func equalSegments(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Combiner merges two tokens into one, for example when a station prefixes the
// token produced by a nested station.
type Combiner func(first, second Token) Token

// Predefined combiners.
var (
	// Append concatenates both tokens.
	Append Combiner = func(first, second Token) Token { return first.Append(second) }
	// Unique concatenates both tokens, dropping the overlap.
	Unique Combiner = func(first, second Token) Token { return first.UniqueAppend(second) }
	// Second ignores the first token.
	Second Combiner = func(_, second Token) Token { return second }
)
