/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: tree.go
Description: The model tree arena for the Akaylee Identifier. A rooted,
prefix-ordered tree over alternating input/response token edges, stored as a
flat mapping from path key to node record. Supports ordered child enumeration,
read-only subtree views, leaf enumeration, and deep cloning for parallel runs.
*/

package modeltree

import (
	"errors"
	"fmt"

	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
)

// ErrInvariantViolation indicates a tree state violating the
// monotonic-subset or union invariants. It points at a defect in tree
// construction or mutation logic and is never recoverable.
var ErrInvariantViolation = errors.New("model tree invariant violation")

// Tree is the full node collection plus root reference. It is mutated
// in place only by PruneModels and Condense during an identification
// run; callers that want repeatability across parallel runs clone it
// first.
type Tree struct {
	nodes   map[string]*Node
	mapping interfaces.ModelMapping
}

// New creates an empty tree bound to the given model mapping. The
// mapping is read-only throughout the tree's lifetime.
func New(mapping interfaces.ModelMapping) *Tree {
	return &Tree{
		nodes:   make(map[string]*Node),
		mapping: mapping,
	}
}

// ModelMapping returns the immutable model-to-implementation lookup.
func (t *Tree) ModelMapping() interfaces.ModelMapping {
	return t.mapping
}

// Size returns the number of nodes currently in the tree. Zero is the
// sentinel for "fully identified" after condensation.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node {
	return t.nodes[""]
}

// NodeAt returns the node with the given path, or nil.
func (t *Tree) NodeAt(path Path) *Node {
	return t.nodes[path.Key()]
}

// Models returns the current model universe: the root's candidate
// set. Empty for an empty tree.
func (t *Tree) Models() ModelSet {
	root := t.Root()
	if root == nil {
		return NewModelSet()
	}
	return root.Models
}

// InsertPath adds a leaf path with its model set, creating every node
// along the way and unioning the models into each of them. This is
// the construction primitive used by the loader and by tests; it
// establishes the invariant that a node's models equal the union of
// the leaf models below it.
func (t *Tree) InsertPath(path Path, models ...interfaces.ModelID) error {
	if len(path)%2 != 0 {
		return fmt.Errorf("leaf path must alternate input/response tokens and end on a response: %v", path)
	}
	if len(models) == 0 {
		return fmt.Errorf("leaf path %v carries no models", path)
	}
	for i := 0; i <= len(path); i++ {
		prefix := Path(path[:i])
		key := prefix.Key()
		node, ok := t.nodes[key]
		if !ok {
			node = &Node{
				Path:   prefix.Clone(),
				Models: NewModelSet(),
				parent: prefix.Parent().Key(),
			}
			t.nodes[key] = node
			if i > 0 {
				parent := t.nodes[prefix.Parent().Key()]
				parent.children = append(parent.children, key)
			}
		}
		node.Models.Add(models...)
	}
	return nil
}

// Children returns the node's children in stable insertion order.
// Selection heuristics depend on this order for reproducible
// tie-breaks.
func (t *Tree) Children(n *Node) []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, key := range n.children {
		out = append(out, t.nodes[key])
	}
	return out
}

// EdgeTokens returns the tokens spanned by the edge from parent to
// child. A single token before condensation; possibly a longer run
// across spliced chains afterwards.
func (t *Tree) EdgeTokens(parent, child *Node) Path {
	return Path(child.Path[len(parent.Path):])
}

// ChildByFirstToken returns the child of n whose edge starts with the
// given token, or nil. Used during descent to resolve an observed
// response against the tree.
func (t *Tree) ChildByFirstToken(n *Node, token string) *Node {
	for _, key := range n.children {
		child := t.nodes[key]
		if t.EdgeTokens(n, child)[0] == token {
			return child
		}
	}
	return nil
}

// Leaves returns all current leaf nodes. The slice is recomputed
// fresh on every call and never cached across mutations.
func (t *Tree) Leaves() []*Node {
	root := t.Root()
	if root == nil {
		return nil
	}
	var out []*Node
	t.walk(root, func(n *Node) {
		if n.IsLeaf() {
			out = append(out, n)
		}
	})
	return out
}

// walk visits the subtree below n in depth-first, child-order
// preserving order.
func (t *Tree) walk(n *Node, visit func(*Node)) {
	visit(n)
	for _, key := range n.children {
		t.walk(t.nodes[key], visit)
	}
}

// Clone returns a deep copy of the tree sharing only the immutable
// model mapping. The deep-copy boundary for parallel identification
// trials lives here, with the caller.
func (t *Tree) Clone() *Tree {
	out := New(t.mapping)
	for key, n := range t.nodes {
		children := make([]string, len(n.children))
		copy(children, n.children)
		out.nodes[key] = &Node{
			Path:     n.Path.Clone(),
			Models:   n.Models.Clone(),
			children: children,
			parent:   n.parent,
		}
	}
	return out
}

// Subtree returns a read-only view restricted to n and its
// descendants. The view is computed lazily against the live tree, so
// it reflects pruning and condensation performed after it was taken.
func (t *Tree) Subtree(n *Node) *Subtree {
	return &Subtree{tree: t, rootKey: n.Path.Key()}
}

// Subtree is a read-only view over a node and its descendants. It is
// the unit the impurity heuristics compute weights and sizes over,
// called once per candidate input at every decision point, so it
// never materializes a copy of the nodes.
type Subtree struct {
	tree    *Tree
	rootKey string
}

// Root returns the view's root node, or nil if it has been pruned
// away since the view was taken.
func (s *Subtree) Root() *Node {
	return s.tree.nodes[s.rootKey]
}

// Models returns the candidate set of the view's root, which by the
// union invariant equals the union of leaf models in the view.
func (s *Subtree) Models() ModelSet {
	root := s.Root()
	if root == nil {
		return NewModelSet()
	}
	return root.Models
}

// ContainsModel reports whether the model is still consistent with
// some leaf inside the view.
func (s *Subtree) ContainsModel(id interfaces.ModelID) bool {
	return s.Models().Contains(id)
}

// Size returns the number of nodes in the view, including its root.
// Zero if the root has been pruned away.
func (s *Subtree) Size() int {
	root := s.Root()
	if root == nil {
		return 0
	}
	count := 0
	s.tree.walk(root, func(*Node) { count++ })
	return count
}

// Weight sums the weight function over the models in the view.
func (s *Subtree) Weight(weight interfaces.WeightFunc) float64 {
	total := 0.0
	for id := range s.Models() {
		total += weight(s.tree.mapping[id])
	}
	return total
}
