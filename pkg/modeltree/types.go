/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Fundamental types for the model tree. Defines token paths, model
sets, and the node record stored in the path-keyed arena. Paths double as node
identities, so parent/child navigation is key lookup instead of pointer chasing.
*/

package modeltree

import (
	"sort"
	"strings"

	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
)

// pathSep joins tokens into arena keys. Protocol tokens are printable
// message names and never contain this byte.
const pathSep = "\x1f"

// Path is the ordered token sequence from the root to a node,
// alternating input and response tokens. The empty path is the root.
type Path []string

// Key returns the arena key for this path.
func (p Path) Key() string {
	return strings.Join(p, pathSep)
}

// Parent returns the path with the last token removed. The root path
// returns itself.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// Append returns a new path extended by the given tokens. The
// receiver is not modified.
func (p Path) Append(tokens ...string) Path {
	out := make(Path, 0, len(p)+len(tokens))
	out = append(out, p...)
	out = append(out, tokens...)
	return out
}

// HasPrefix reports whether prefix is a (non-strict) prefix of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i, tok := range prefix {
		if p[i] != tok {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// ModelSet is a set of model identifiers.
type ModelSet map[interfaces.ModelID]struct{}

// NewModelSet builds a set from the given identifiers.
func NewModelSet(ids ...interfaces.ModelID) ModelSet {
	s := make(ModelSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s ModelSet) Contains(id interfaces.ModelID) bool {
	_, ok := s[id]
	return ok
}

// Add inserts the given identifiers into the set.
func (s ModelSet) Add(ids ...interfaces.ModelID) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Subtract removes every identifier in other from the set.
func (s ModelSet) Subtract(other ModelSet) {
	for id := range other {
		delete(s, id)
	}
}

// Difference returns s minus other as a new set.
func (s ModelSet) Difference(other ModelSet) ModelSet {
	out := make(ModelSet)
	for id := range s {
		if !other.Contains(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both sets hold exactly the same identifiers.
func (s ModelSet) Equal(other ModelSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the set.
func (s ModelSet) Clone() ModelSet {
	out := make(ModelSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the identifiers in lexical order, for stable output.
func (s ModelSet) Sorted() []interfaces.ModelID {
	out := make([]interfaces.ModelID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Node is a single record in the tree arena. A node owns the set of
// models still consistent with its path and the ordered references to
// its children. After condensation a child's path may extend the
// parent's by more than one token.
type Node struct {
	Path   Path
	Models ModelSet

	children []string // child arena keys, insertion order
	parent   string
}

// IsLeaf reports whether the node has no out-edges.
func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// Depth returns the number of tokens on the node's path. Even depths
// are input positions, odd depths are response positions.
func (n *Node) Depth() int {
	return len(n.Path)
}
