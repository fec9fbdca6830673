// Package placeholder implements placeholder tokens, the insertion-ordered sets
// nodes keep them in, and the strategy interface that decides which tokens
// removed content leaves behind.
//
// A token is a promise that some content may come back: when a leaf loses its
// content and the strategy names a token for it, the leaf stays in the tree as
// a placeholder until the token is removed or pruned.
//
//	reg := placeholder.NewRegistry()
//	reg.Register("notes", placeholder.MustToken("dock", "single", "note-7"))
//	tree := split.New(split.WithStrategy(reg))
package placeholder
