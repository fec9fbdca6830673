// Package split implements the binary split tree that partitions a rectangle
// into regions for docked content.
//
// # Nodes
//
// A tree holds three kinds of nodes:
//
//   - Leaf: a content slot. Several contents in one slot form a stack with one
//     of them selected.
//   - Node: a split of its rectangle into two children, either side by side
//     (geom.Horizontal) or one above the other (geom.Vertical), at a divider
//     between 0 and 1.
//   - Placeholder: an empty slot kept because at least one placeholder token
//     still refers to it.
//
// Nodes are stored in an arena and referenced by [NodeID]. IDs come from a
// counter shared by all trees of the process and are never handed out twice,
// so ids remembered from an earlier state either still name the same node or
// name nothing, even when replayed against another tree.
//
// # Rectangles
//
// No rectangle is stored. [Tree.RectangleOf] derives it from the tree bounds
// and the dividers of all ancestors each time, so divider moves and structural
// edits are reflected immediately.
//
// # Removal
//
// [Tree.Remove] asks the installed [placeholder.Strategy] for a token for
// every removed content. If the leaf then holds any token it stays as a
// placeholder; otherwise the leaf and its parent disappear and the sibling
// takes the parent's place. Tokens never disappear on their own: they are
// dropped by [Tree.RemovePlaceholder] or by an explicit [Tree.Prune].
//
// # Concurrency
//
// Every method locks the tree. Edits are all-or-nothing. Listeners run after
// the lock is released, and [Tree.Transaction] defers them further until the
// outermost transaction ends. Strategies are consulted before an edit takes
// the lock, so they may read the tree they are installed on.
package split
