// Package address records where a node lives in a split tree as a portable
// route from the root, and finds that place again later.
//
// An [Address] is a list of steps. Each step names the side of a split node
// the route continues into, the share of the split node taken by that side,
// and the id the split node had when the address was recorded. The id of the
// node at the end of the route is kept as well.
//
// # Replay
//
// [Address.Replay] resolves an address against any tree, in three tiers:
//
//  1. identity: the leaf id, or failing that the deepest recorded split node
//     id, is still live in the tree. Its current rectangle is used, so edits
//     elsewhere in the tree do not matter.
//  2. structural: no recorded id is live. The recorded sides and sizes are
//     applied to the tree bounds. This works on a tree rebuilt from scratch,
//     at the price of approximating the rectangle when proportions changed.
//  3. unresolved: the tree is empty or the address is corrupt. [Unplaced] is
//     returned and the caller decides where the content goes.
//
// # Formats
//
// Addresses have a binary and an XML encoding, both versioned. Version 1.0.7
// has no ids; 1.0.8 adds them. Readers accept every version up to [Current]
// and refuse newer ones with a [FormatVersionError]. The binary layout is
// big-endian and matches what java.io.DataOutputStream produces, so files
// written by older docking frameworks can be read.
package address
