// Package location holds the different ways content positions are exchanged
// between docking areas, and resolves them against a split tree.
//
// A [Property] chains locations: a [SplitPath] is usually followed by a
// [SplitRect] so that content still lands in the right area when the path
// no longer fits the tree. [Resolve] tries each link in turn.
//
// Locations are encoded with a factory id so that readers can tell the kinds
// apart. Readers refuse ids they do not know with an UNSUPPORTED error.
package location
