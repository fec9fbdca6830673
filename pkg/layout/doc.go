// Package layout saves a split tree as a list of independent entries and puts
// it back later, either into a live tree or into a fresh one.
//
// [Capture] writes one [Entry] per content, per placeholder and per split node
// holding tokens. Each entry carries the binary [address.Address] of its node,
// so an entry can be decoded and placed without the others. A damaged entry is
// reported and skipped; it never stops the rest of the layout.
//
// [Apply] places entries into an existing tree in three steps: the recorded
// node id if it is still live, then placeholder tokens, then a structural drop
// along the recorded path. [Restore] starts from nothing and rebuilds the exact
// captured shape, ids included, before falling back to the same steps for
// entries that contradict each other.
//
// Layouts encode to JSON for files and caches and to BSON for document stores.
// [Store] keeps them by name in any [cache.Cache].
package layout
