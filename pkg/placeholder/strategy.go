package placeholder

import "sync"

// Strategy decides which token stands in for removed content and whether a
// token is still meaningful. Trees consult it when content is removed and when
// a caller asks them to prune; they never invent tokens themselves. Trees
// call it without holding their lock.
type Strategy interface {
	// PlaceholderFor returns the token for content, or false if the content
	// should not leave a placeholder behind.
	PlaceholderFor(content string) (Token, bool)
	// IsValid reports whether a token still refers to something a client cares about.
	IsValid(t Token) bool
}

// Installer is implemented by strategies that want to know which tree they
// were installed on.
type Installer interface {
	Install(owner string)
	Uninstall(owner string)
}

// Funcs adapts plain functions to a Strategy. Nil functions mean "no token"
// and "always valid".
type Funcs struct {
	For   func(content string) (Token, bool)
	Valid func(t Token) bool
}

// PlaceholderFor implements Strategy.
func (f Funcs) PlaceholderFor(content string) (Token, bool) {
	if f.For == nil {
		return "", false
	}
	return f.For(content)
}

// IsValid implements Strategy.
func (f Funcs) IsValid(t Token) bool {
	if f.Valid == nil {
		return true
	}
	return f.Valid(t)
}

// Registry is an in-memory Strategy backed by an explicit content → token map.
// Tokens are valid until invalidated. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	tokens  map[string]Token
	invalid map[Token]bool
	owners  map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tokens:  make(map[string]Token),
		invalid: make(map[Token]bool),
		owners:  make(map[string]int),
	}
}

// Register assigns the token content leaves behind when it is removed.
func (r *Registry) Register(content string, t Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[content] = t
	delete(r.invalid, t)
}

// Invalidate marks tokens as no longer meaningful. Trees drop them on their
// next prune.
func (r *Registry) Invalidate(tokens ...Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tokens {
		r.invalid[t] = true
	}
}

// Revalidate undoes Invalidate.
func (r *Registry) Revalidate(tokens ...Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tokens {
		delete(r.invalid, t)
	}
}

// PlaceholderFor implements Strategy.
func (r *Registry) PlaceholderFor(content string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[content]
	if !ok || r.invalid[t] {
		return "", false
	}
	return t, true
}

// IsValid implements Strategy.
func (r *Registry) IsValid(t Token) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return !r.invalid[t]
}

// Install implements Installer.
func (r *Registry) Install(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[owner]++
}

// Uninstall implements Installer.
func (r *Registry) Uninstall(owner string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.owners[owner] <= 1 {
		delete(r.owners, owner)
		return
	}
	r.owners[owner]--
}

// Owners returns how many trees currently have the registry installed.
func (r *Registry) Owners() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, c := range r.owners {
		n += c
	}
	return n
}
