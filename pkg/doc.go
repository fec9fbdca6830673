// Package pkg provides the libraries behind docktree, a store for docking
// layouts built on split trees.
//
// # Overview
//
// A dock area is a rectangle divided by a binary split tree: inner nodes split
// their rectangle horizontally or vertically at a divider, leaves hold stacks
// of contents, and placeholders keep the spot of contents that were closed.
// The pkg directory is organized into four areas:
//
//  1. [split] - The tree itself and its editing operations
//  2. [address], [location], [placeholder] - Ways to find a spot again
//     after the tree has changed
//  3. [grid], [layout] - Building trees from grids and persisting them
//  4. [cache], [config], [api], [render], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through docktree:
//
//	Grid description (YAML/JSON)
//	         ↓
//	    [grid] package (guillotine cuts → shape)
//	         ↓
//	    [split] package (tree + edits + placeholders)
//	         ↓
//	    [layout] package (capture → store → restore)
//	         ↓
//	    [address] replays, [render] drawings, [api] queries
//
// # Quick Start
//
// Build a tree, remember where a content lives, and find the spot again:
//
//	import (
//	    "github.com/matzehuels/docktree/pkg/address"
//	    "github.com/matzehuels/docktree/pkg/geom"
//	    "github.com/matzehuels/docktree/pkg/split"
//	)
//
//	tree, _ := split.NewFromShape(split.Horizontal(0.25,
//	    split.Leaf("files"),
//	    split.Vertical(0.7, split.Leaf("editor"), split.Leaf("console")),
//	), split.WithBounds(geom.Rect{Width: 1600, Height: 900}))
//
//	leaf, _ := tree.LeafOf("console")
//	addr, _ := address.FromRoot(tree, leaf)
//	tree.RemoveContent("console")
//
//	p := addr.Replay(tree) // where console would go back
//	fmt.Println(p.Tier, p.Rect)
//
// # Main Packages
//
// ## Core
//
// [split] - The split tree. Node ids stay stable across edits, rectangles are
// derived from dividers on demand, and listeners see every structural change.
//
// [address] - Paths from the root to a node recorded as direction and size
// steps plus node ids. Addresses serialize to XML and a versioned binary
// format and replay against changed trees with identity, structural or
// unresolved outcomes.
//
// [location] - Chains of location properties (split path, split rectangle,
// stack index, screen) as exchanged with other tools.
//
// [placeholder] - Tokens that reserve the spot of a closed content, and the
// registry deciding which tokens are still wanted.
//
// ## Persistence
//
// [grid] - Turns a grid of cells into a tree shape by recursive guillotine
// cuts, and reads grid description files.
//
// [layout] - Captures trees as named layouts, restores them with a report of
// how each entry was placed, and keeps them in a [cache] backend.
//
// ## Infrastructure
//
// [cache] - Key/value backends: files for the CLI, Redis and MongoDB for
// shared deployments, and a null backend.
//
// [config] - TOML configuration for bounds, store backend, logging and the
// HTTP server.
//
// [api] - HTTP service answering queries about a restored layout.
//
// [render] - Text, SVG and Graphviz drawings of trees.
//
// [observability] - Hooks for tree edits, replays and store access, with a
// Prometheus implementation in observability/prom.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/split/...              # Specific package
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [split]: https://pkg.go.dev/github.com/matzehuels/docktree/pkg/split
// [address]: https://pkg.go.dev/github.com/matzehuels/docktree/pkg/address
// [location]: https://pkg.go.dev/github.com/matzehuels/docktree/pkg/location
// [placeholder]: https://pkg.go.dev/github.com/matzehuels/docktree/pkg/placeholder
// [grid]: https://pkg.go.dev/github.com/matzehuels/docktree/pkg/grid
// [layout]: https://pkg.go.dev/github.com/matzehuels/docktree/pkg/layout
// [cache]: https://pkg.go.dev/github.com/matzehuels/docktree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/docktree/pkg/config
// [api]: https://pkg.go.dev/github.com/matzehuels/docktree/pkg/api
// [render]: https://pkg.go.dev/github.com/matzehuels/docktree/pkg/render
// [observability]: https://pkg.go.dev/github.com/matzehuels/docktree/pkg/observability
package pkg
