package split

import (
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/placeholder"
)

// AddPlaceholder adds tok to the placeholder set of id. A token lives at one
// node at a time, so a token found elsewhere is moved; a placeholder losing
// its last token that way collapses.
func (t *Tree) AddPlaceholder(id NodeID, tok placeholder.Token) error {
	return t.edit("add-placeholder", func(b *batch) error {
		if tok == "" {
			return errors.New(errors.ErrCodeInvalidToken, "token cannot be empty")
		}
		if _, err := t.lookup(id, "add-placeholder"); err != nil {
			return err
		}
		var emptied []NodeID
		if t.attach(b, id, tok, &emptied) {
			b.add(EventPlaceholderAdded, id).Token = tok
		}
		t.settle(b, emptied)
		return nil
	})
}

// RemovePlaceholder removes tok from whichever node holds it. It reports
// whether the token was found. A placeholder left without tokens collapses.
func (t *Tree) RemovePlaceholder(tok placeholder.Token) bool {
	found := false
	_ = t.edit("remove-placeholder", func(b *batch) error {
		id, ok := t.tokens[tok]
		if !ok {
			return nil
		}
		found = true
		n := t.nodes[id]
		n.tokens.Remove(tok)
		delete(t.tokens, tok)
		b.add(EventPlaceholderRemoved, id).Token = tok
		t.settle(b, []NodeID{id})
		return nil
	})
	return found
}

// Placeholders returns the tokens of a node in insertion order.
func (t *Tree) Placeholders(id NodeID) []placeholder.Token {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n, ok := t.nodes[id]; ok {
		return n.tokens.Tokens()
	}
	return nil
}

// Tokens returns every token in the tree, grouped by node in pre-order.
func (t *Tree) Tokens() []placeholder.Token {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []placeholder.Token
	t.preorder(t.root, func(n *node) { out = append(out, n.tokens.Tokens()...) })
	return out
}

// Prune asks the installed strategy about every token and removes the ones it
// no longer considers valid. Placeholders left without tokens collapse. The
// removed tokens are returned in tree order. Without a strategy nothing is
// pruned.
//
// The strategy is asked before the tree is locked, so it may read the tree.
// Tokens added in between are kept until the next call. Pruning only ever
// happens when a caller asks for it.
func (t *Tree) Prune() []placeholder.Token {
	invalid := make(map[placeholder.Token]bool)
	if s := t.Strategy(); s != nil {
		for _, tok := range t.Tokens() {
			if !s.IsValid(tok) {
				invalid[tok] = true
			}
		}
	}
	var pruned []placeholder.Token
	if len(invalid) > 0 {
		_ = t.edit("prune", func(b *batch) error {
			var emptied []NodeID
			t.preorder(t.root, func(n *node) {
				removed := n.tokens.RemoveIf(func(tok placeholder.Token) bool { return invalid[tok] })
				for _, tok := range removed {
					delete(t.tokens, tok)
					b.add(EventPruned, n.id).Token = tok
				}
				pruned = append(pruned, removed...)
				if len(removed) > 0 && n.tokens.IsEmpty() {
					emptied = append(emptied, n.id)
				}
			})
			t.settle(b, emptied)
			return nil
		})
	}
	t.hookSet().OnPrune(len(pruned))
	return pruned
}

// Strategy returns the installed placeholder strategy, if any.
func (t *Tree) Strategy() placeholder.Strategy {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.strategy
}

// InstallStrategy replaces the placeholder strategy. The old strategy is
// uninstalled first. Installing does not prune; call [Tree.Prune] for that.
// Install and Uninstall callbacks run without the tree lock.
func (t *Tree) InstallStrategy(s placeholder.Strategy) {
	t.installStrategy(s)
}

// UninstallStrategy removes the placeholder strategy. Existing tokens stay.
func (t *Tree) UninstallStrategy() {
	t.installStrategy(nil)
}

func (t *Tree) installStrategy(s placeholder.Strategy) {
	t.mu.Lock()
	old := t.strategy
	t.strategy = s
	t.mu.Unlock()
	if in, ok := old.(placeholder.Installer); ok {
		in.Uninstall(t.name)
	}
	if in, ok := s.(placeholder.Installer); ok {
		in.Install(t.name)
	}
}
