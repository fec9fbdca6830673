package split

import (
	"github.com/matzehuels/docktree/pkg/errors"
	"github.com/matzehuels/docktree/pkg/placeholder"
)

// errStale aborts an edit whose strategy decisions no longer match the tree.
// The edit is retried with fresh decisions.
var errStale = errors.New(errors.ErrCodeInternal, "strategy decisions are stale")

// assignment holds the strategy's token for each content an edit touches. An
// empty token means the strategy has none.
type assignment map[ContentID]placeholder.Token

// assign asks the installed strategy about cs. The strategy runs without the
// tree lock, so it may read the tree.
func (t *Tree) assign(cs ...ContentID) assignment {
	s := t.Strategy()
	a := make(assignment, len(cs))
	for _, c := range cs {
		var tok placeholder.Token
		if s != nil {
			if got, ok := s.PlaceholderFor(string(c)); ok {
				tok = got
			}
		}
		a[c] = tok
	}
	return a
}

func (a assignment) token(c ContentID) (placeholder.Token, bool) {
	tok := a[c]
	return tok, tok != ""
}

func (a assignment) covers(cs []ContentID) bool {
	for _, c := range cs {
		if _, ok := a[c]; !ok {
			return false
		}
	}
	return true
}
