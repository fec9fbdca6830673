package placeholder

// Set is an insertion-ordered set of tokens. The zero value is an empty set
// ready to use. A Set is not safe for concurrent use; the owning tree
// serializes access.
type Set struct {
	order []Token
	index map[Token]int
}

// NewSet returns a set holding tokens in the given order, duplicates dropped.
func NewSet(tokens ...Token) *Set {
	s := &Set{}
	for _, t := range tokens {
		s.Add(t)
	}
	return s
}

// Add inserts t. It returns false if t was already present, in which case the
// original position is kept.
func (s *Set) Add(t Token) bool {
	if s.index == nil {
		s.index = make(map[Token]int)
	}
	if _, ok := s.index[t]; ok {
		return false
	}
	s.index[t] = len(s.order)
	s.order = append(s.order, t)
	return true
}

// Remove deletes t and reports whether it was present.
func (s *Set) Remove(t Token) bool {
	i, ok := s.index[t]
	if !ok {
		return false
	}
	delete(s.index, t)
	s.order = append(s.order[:i], s.order[i+1:]...)
	for j := i; j < len(s.order); j++ {
		s.index[s.order[j]] = j
	}
	return true
}

// Contains reports whether t is in the set.
func (s *Set) Contains(t Token) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[t]
	return ok
}

// Len returns the number of tokens.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IsEmpty reports whether the set holds no token.
func (s *Set) IsEmpty() bool { return s.Len() == 0 }

// Tokens returns a copy of the tokens in insertion order.
func (s *Set) Tokens() []Token {
	if s.Len() == 0 {
		return nil
	}
	out := make([]Token, len(s.order))
	copy(out, s.order)
	return out
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	if s == nil {
		return &Set{}
	}
	return NewSet(s.order...)
}

// Clear removes all tokens.
func (s *Set) Clear() {
	s.order = nil
	s.index = nil
}

// RemoveIf deletes every token for which pred returns true and returns them in
// their former order.
func (s *Set) RemoveIf(pred func(Token) bool) []Token {
	var removed []Token
	kept := s.order[:0]
	for _, t := range s.order {
		if pred(t) {
			removed = append(removed, t)
			delete(s.index, t)
			continue
		}
		kept = append(kept, t)
	}
	s.order = kept
	for i, t := range s.order {
		s.index[t] = i
	}
	return removed
}
