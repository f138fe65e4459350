/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: prune.go
Description: Mutation operations on the model tree: tree-wide model pruning with
empty-subtree deletion, and condensation of degenerate single-child chains. These
are the only two operations that mutate a tree in place during identification.
*/

package modeltree

import (
	"fmt"
)

// PruneModels removes all given models from every node's candidate
// set, tree-wide, and deletes any node whose resulting set is empty
// together with its subtree. It does not collapse chains; that is
// Condense's job. A resulting state that violates the union invariant
// means the tree was corrupt to begin with and is reported as a fatal
// ErrInvariantViolation.
func (t *Tree) PruneModels(removed ModelSet) error {
	root := t.Root()
	if root == nil {
		return nil
	}
	t.pruneNode(root, removed)
	return t.checkUnionInvariant()
}

// pruneNode subtracts removed from n and recurses, dropping children
// whose subtrees vanished.
func (t *Tree) pruneNode(n *Node, removed ModelSet) {
	n.Models.Subtract(removed)
	if len(n.Models) == 0 {
		t.deleteSubtree(n)
		return
	}
	var kept []string
	for _, key := range n.children {
		t.pruneNode(t.nodes[key], removed)
		if _, ok := t.nodes[key]; ok {
			kept = append(kept, key)
		}
	}
	n.children = kept
}

// deleteSubtree removes n and every descendant from the arena. The
// parent's child list is fixed up by the caller.
func (t *Tree) deleteSubtree(n *Node) {
	for _, key := range n.children {
		if child, ok := t.nodes[key]; ok {
			t.deleteSubtree(child)
		}
	}
	delete(t.nodes, n.Path.Key())
}

// checkUnionInvariant verifies that every node's candidate set equals
// the union of its children's sets (and hence of the leaf models below
// it), and that every child's set is a subset of its parent's.
func (t *Tree) checkUnionInvariant() error {
	for _, n := range t.nodes {
		if n.IsLeaf() {
			continue
		}
		union := NewModelSet()
		for _, key := range n.children {
			child := t.nodes[key]
			for id := range child.Models {
				if !n.Models.Contains(id) {
					return fmt.Errorf("%w: model %q at %v missing from parent %v",
						ErrInvariantViolation, id, child.Path, n.Path)
				}
				union.Add(id)
			}
		}
		if !union.Equal(n.Models) {
			return fmt.Errorf("%w: node %v carries models absent from all children",
				ErrInvariantViolation, n.Path)
		}
	}
	return nil
}

// Condense collapses structure that no longer contributes a
// meaningful decision. A probe branch is dead once every leaf below
// it carries the full remaining model universe: descending it can
// never shrink the candidate set. Dead branches are removed; if the
// whole tree is dead (one leaf left, or only mutually
// indistinguishable models remain) it is cleared entirely, and a size
// of zero is the sentinel for "fully identified". Surviving subtrees
// that hold exactly one leaf are truncated at their topmost
// input-position node (so leaves always sit at response positions),
// and every surviving non-root internal node with a single child is
// spliced away. Spliced descendants keep their original paths, so a
// condensed edge spans the full token run and a live descent can
// still replay it message by message.
func (t *Tree) Condense() {
	root := t.Root()
	if root == nil {
		return
	}
	universe := root.Models
	if t.subtreeDead(root, universe) {
		t.nodes = make(map[string]*Node)
		return
	}
	t.removeDeadBranches(root, universe)

	counts := make(map[string]int, len(t.nodes))
	t.countLeaves(root, counts)
	t.truncateSingleLeafSubtrees(root, counts)
	t.spliceChains()
}

// subtreeDead reports whether every leaf below n carries the full
// model universe.
func (t *Tree) subtreeDead(n *Node, universe ModelSet) bool {
	if n.IsLeaf() {
		return n.Models.Equal(universe)
	}
	for _, key := range n.children {
		if !t.subtreeDead(t.nodes[key], universe) {
			return false
		}
	}
	return true
}

// removeDeadBranches deletes maximal dead subtrees. Dead subtrees
// always hang off input-position edges (a response split partitions
// the models, so no branch of a split can carry the whole universe),
// which keeps leaves at response positions. A live node always keeps
// at least one live child.
func (t *Tree) removeDeadBranches(n *Node, universe ModelSet) {
	var kept []string
	for _, key := range n.children {
		child := t.nodes[key]
		if t.subtreeDead(child, universe) {
			t.deleteSubtree(child)
			continue
		}
		t.removeDeadBranches(child, universe)
		kept = append(kept, key)
	}
	n.children = kept
}

// countLeaves fills counts with the number of leaves below each node.
func (t *Tree) countLeaves(n *Node, counts map[string]int) int {
	if n.IsLeaf() {
		counts[n.Path.Key()] = 1
		return 1
	}
	total := 0
	for _, key := range n.children {
		total += t.countLeaves(t.nodes[key], counts)
	}
	counts[n.Path.Key()] = total
	return total
}

// truncateSingleLeafSubtrees makes the topmost input-position node of
// every single-leaf subtree a leaf. Everything below such a node adds
// no information: its candidate set is already fully determined.
func (t *Tree) truncateSingleLeafSubtrees(n *Node, counts map[string]int) {
	if n.Depth()%2 == 0 && !n.IsLeaf() && counts[n.Path.Key()] == 1 {
		for _, key := range n.children {
			t.deleteSubtree(t.nodes[key])
		}
		n.children = nil
		return
	}
	for _, key := range n.children {
		t.truncateSingleLeafSubtrees(t.nodes[key], counts)
	}
}

// spliceChains removes non-root internal nodes with exactly one
// child, reattaching the child to the grandparent in the same slot.
// Runs to a fixpoint so nested chains collapse fully. The root is
// never merged away; it anchors the descent.
func (t *Tree) spliceChains() {
	for changed := true; changed; {
		changed = false
		for key, n := range t.nodes {
			if key == "" || len(n.children) != 1 {
				continue
			}
			parent := t.nodes[n.parent]
			childKey := n.children[0]
			child := t.nodes[childKey]
			for i, ck := range parent.children {
				if ck == key {
					parent.children[i] = childKey
					break
				}
			}
			child.parent = n.parent
			delete(t.nodes, key)
			changed = true
		}
	}
}
