package layout

import (
	stderrors "errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docktree/pkg/address"
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/geom"
	"github.com/matzehuels/docktree/pkg/placeholder"
	"github.com/matzehuels/docktree/pkg/split"
)

// Outcome tells how an entry was handled.
type Outcome string

const (
	OutcomeIdentity   Outcome = "identity"   // recorded node id still live
	OutcomeToken      Outcome = "token"      // found through a placeholder token
	OutcomeStructural Outcome = "structural" // dropped by walking the recorded path
	OutcomeRebuilt    Outcome = "rebuilt"    // part of the shape rebuilt by Restore
	OutcomeSkipped    Outcome = "skipped"    // already present in the tree
	OutcomeInvalid    Outcome = "invalid"    // entry could not be decoded
	OutcomeUnplaced   Outcome = "unplaced"   // no placement found
)

// Result is the outcome of one entry.
type Result struct {
	Index   int
	Kind    EntryKind
	Content split.ContentID
	Outcome Outcome
	Node    split.NodeID
	Err     error
}

// Report collects the results of Apply or Restore in entry order.
type Report struct {
	Results []Result
}

// Placed returns the number of entries that ended up in the tree.
func (r Report) Placed() int {
	n := 0
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeIdentity, OutcomeToken, OutcomeStructural, OutcomeRebuilt:
			n++
		}
	}
	return n
}

// Failed returns the results of entries that were not placed.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Outcome == OutcomeInvalid || res.Outcome == OutcomeUnplaced {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the errors of all failed entries, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s %s): %w", res.Index, res.Kind, res.Content, res.Err))
		}
	}
	return stderrors.Join(errs...)
}

// Count returns how many results have the given outcome.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Options configure Apply and Restore.
type Options struct {
	// Logger receives one debug line per entry. Defaults to log.Default().
	Logger *log.Logger

	// Strategy is installed on trees created by Restore.
	Strategy placeholder.Strategy
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// Apply places the entries of l into tree. Each entry is resolved on its own,
// trying the recorded node id first, then the entry's placeholder tokens and
// the token the tree's strategy gives for its content, and finally a
// structural drop along the recorded path. Contents already in the tree are
// skipped. Entries that cannot be placed are reported, never guessed.
//
// Listeners of tree are notified once, after all entries are placed.
func Apply(tree *split.Tree, l *Layout, opts Options) Report {
	var rep Report
	_ = tree.Transaction(func() error {
		for i, e := range l.Entries {
			res := applyEntry(tree, e)
			res.Index, res.Kind, res.Content = i, e.Kind, e.Content
			rep.Results = append(rep.Results, res)
		}
		return nil
	})
	logReport(opts.logger(), l, rep)
	return rep
}

func applyEntry(tree *split.Tree, e Entry) Result {
	var addr address.Address
	if err := addr.UnmarshalBinary(e.Address); err != nil {
		return Result{Outcome: OutcomeInvalid, Node: split.NoID, Err: err}
	}
	switch e.Kind {
	case EntryLeaf:
		return applyLeaf(tree, e, addr)
	case EntryPlaceholder, EntryNode:
		return applyTokens(tree, e, addr)
	default:
		return Result{
			Outcome: OutcomeInvalid,
			Node:    split.NoID,
			Err:     errors.New(errors.ErrCodeInvalidFormat, "unknown entry kind %q", e.Kind),
		}
	}
}

func applyLeaf(tree *split.Tree, e Entry, addr address.Address) Result {
	if e.Content == "" {
		return Result{Outcome: OutcomeInvalid, Node: split.NoID, Err: errors.New(errors.ErrCodeInvalidInput, "leaf entry without content")}
	}
	if id, ok := tree.LeafOf(e.Content); ok {
		return Result{Outcome: OutcomeSkipped, Node: id}
	}

	id, outcome, err := placeLeaf(tree, e, addr)
	if err != nil {
		return Result{Outcome: OutcomeUnplaced, Node: split.NoID, Err: err}
	}
	if e.Selected {
		_ = tree.Select(e.Content)
	}
	restoreTokens(tree, id, e.Tokens())
	return Result{Outcome: outcome, Node: id}
}

func placeLeaf(tree *split.Tree, e Entry, addr address.Address) (split.NodeID, Outcome, error) {
	if kind, ok := tree.Kind(addr.LeafID); ok && kind != split.KindNode {
		if err := tree.Stack(addr.LeafID, e.Content); err == nil {
			return addr.LeafID, OutcomeIdentity, nil
		}
	}

	candidates := e.Tokens()
	if s := tree.Strategy(); s != nil {
		if tok, ok := s.PlaceholderFor(string(e.Content)); ok {
			candidates = append(candidates, tok)
		}
	}
	for _, tok := range candidates {
		id, ok := tree.Locate(tok)
		if !ok {
			continue
		}
		if kind, _ := tree.Kind(id); kind == split.KindNode {
			continue
		}
		if err := tree.Stack(id, e.Content); err == nil {
			return id, OutcomeToken, nil
		}
	}

	id, err := Drop(tree, addr, e.Content)
	if err != nil {
		return split.NoID, OutcomeUnplaced, err
	}
	return id, OutcomeStructural, nil
}

func applyTokens(tree *split.Tree, e Entry, addr address.Address) Result {
	tokens := e.Tokens()
	if len(tokens) == 0 {
		return Result{Outcome: OutcomeInvalid, Node: split.NoID, Err: errors.New(errors.ErrCodeInvalidInput, "%s entry without placeholders", e.Kind)}
	}
	for _, tok := range tokens {
		if id, ok := tree.Locate(tok); ok {
			restoreTokens(tree, id, tokens)
			return Result{Outcome: OutcomeSkipped, Node: id}
		}
	}

	if e.Kind == EntryNode {
		// Tokens of a split node need a node to sit on; there is no slot to
		// reserve.
		if kind, ok := tree.Kind(addr.LeafID); ok && kind == split.KindNode {
			restoreTokens(tree, addr.LeafID, tokens)
			return Result{Outcome: OutcomeIdentity, Node: addr.LeafID}
		}
		reached, rest, err := addr.Resolve(tree)
		if err != nil || reached == split.NoID || len(rest) > 0 {
			return Result{Outcome: OutcomeUnplaced, Node: split.NoID, Err: errors.New(errors.ErrCodeNotFound, "no node at %s", addr)}
		}
		restoreTokens(tree, reached, tokens)
		return Result{Outcome: OutcomeStructural, Node: reached}
	}

	if kind, ok := tree.Kind(addr.LeafID); ok && kind != split.KindNode {
		restoreTokens(tree, addr.LeafID, tokens)
		return Result{Outcome: OutcomeIdentity, Node: addr.LeafID}
	}
	id, err := Reserve(tree, addr, tokens...)
	if err != nil {
		return Result{Outcome: OutcomeUnplaced, Node: split.NoID, Err: err}
	}
	return Result{Outcome: OutcomeStructural, Node: id}
}

// restoreTokens adds tokens that do not live anywhere yet to id.
func restoreTokens(tree *split.Tree, id split.NodeID, tokens []placeholder.Token) {
	for _, tok := range tokens {
		if _, ok := tree.Locate(tok); ok {
			continue
		}
		_ = tree.AddPlaceholder(id, tok)
	}
}

// Drop places content at the position addr describes:
//
//   - into an empty tree as its root
//   - onto the recorded leaf if it is still live (stacked, or filling a placeholder)
//   - onto the leaf or placeholder the recorded path leads to
//   - next to the node where the path stops, on the side of the first step
//     that could not be followed and with its size
func Drop(tree *split.Tree, addr address.Address, content split.ContentID) (split.NodeID, error) {
	if !addr.Valid() {
		return split.NoID, errors.New(errors.ErrCodeInvalidInput, "address %s has invalid steps", addr)
	}
	if tree.IsEmpty() {
		return tree.PlaceRoot(content)
	}
	reached, rest, err := addr.Resolve(tree)
	if err != nil {
		return split.NoID, err
	}
	kind, _ := tree.Kind(reached)
	if len(rest) == 0 && kind != split.KindNode {
		return reached, tree.Stack(reached, content)
	}
	side, size := splitSide(addr, rest)
	return tree.Split(reached, side, size, content)
}

// Reserve creates a placeholder for tokens at the position addr describes, the
// way Drop places content.
func Reserve(tree *split.Tree, addr address.Address, tokens ...placeholder.Token) (split.NodeID, error) {
	if !addr.Valid() {
		return split.NoID, errors.New(errors.ErrCodeInvalidInput, "address %s has invalid steps", addr)
	}
	if tree.IsEmpty() {
		return tree.Reserve(split.NoID, geom.Left, 1, tokens...)
	}
	reached, rest, err := addr.Resolve(tree)
	if err != nil {
		return split.NoID, err
	}
	kind, _ := tree.Kind(reached)
	if len(rest) == 0 && kind != split.KindNode {
		for _, tok := range tokens {
			if err := tree.AddPlaceholder(reached, tok); err != nil {
				return split.NoID, err
			}
		}
		return reached, nil
	}
	side, size := splitSide(addr, rest)
	return tree.Reserve(reached, side, size, tokens...)
}

// splitSide picks the side and size for a new node next to where a path
// stopped: the first unfollowed step, else the last recorded step, else an
// even split on the right.
func splitSide(addr address.Address, rest []address.Step) (geom.Side, float64) {
	if len(rest) > 0 {
		return rest[0].Direction, rest[0].Size
	}
	if last, ok := addr.Last(); ok {
		return last.Direction, last.Size
	}
	return geom.Right, 0.5
}

func logReport(logger *log.Logger, l *Layout, rep Report) {
	for _, res := range rep.Results {
		if res.Err != nil {
			logger.Debug("entry not placed", "layout", l.Name, "entry", res.Index, "kind", res.Kind,
				"content", res.Content, "outcome", res.Outcome, "err", res.Err)
			continue
		}
		logger.Debug("entry placed", "layout", l.Name, "entry", res.Index, "kind", res.Kind,
			"content", res.Content, "outcome", res.Outcome, "node", res.Node)
	}
	logger.Info("applied layout", "layout", l.Name, "entries", len(rep.Results),
		"placed", rep.Placed(), "failed", len(rep.Failed()))
}
