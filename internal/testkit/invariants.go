// Package testkit holds checks shared by the tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"buble/internal/ast"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed tree:
// 1) the root span lies within the source
// 2) every node span is ordered (Start <= End) and within the source
// 3) every child span lies within its parent span
func CheckSpanInvariants(tree *ast.Tree) error {
	if tree == nil {
		return fmt.Errorf("nil tree")
	}
	root := tree.Node(tree.Root)
	if root == nil {
		return fmt.Errorf("root node not found")
	}
	lenContent, err := safecast.Conv[uint32](len(tree.Source))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	// 1) root span sanity
	if root.End < root.Start || root.End > lenContent {
		return fmt.Errorf("root span [%d,%d) outside source of %d bytes", root.Start, root.End, lenContent)
	}

	var firstErr error
	tree.Walk(tree.Root, func(id ast.NodeID) bool {
		if firstErr != nil {
			return false
		}
		n := tree.Node(id)
		// 2) node span sanity
		if n.End < n.Start || n.End > lenContent {
			firstErr = fmt.Errorf("%s span [%d,%d) is invalid", n.Kind, n.Start, n.End)
			return false
		}
		// 3) children inside parent
		for _, child := range tree.Children(id) {
			c := tree.Node(child)
			if c == nil {
				firstErr = fmt.Errorf("%s has a dangling child %d", n.Kind, child)
				return false
			}
			if c.Start < n.Start || c.End > n.End {
				firstErr = fmt.Errorf("%s span [%d,%d) is outside its parent %s [%d,%d)",
					c.Kind, c.Start, c.End, n.Kind, n.Start, n.End)
				return false
			}
		}
		return true
	})
	return firstErr
}
