/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: simulated.go
Description: Simulated connector for the Akaylee Identifier. Deterministically
replays what a chosen target model would have answered, by walking the full
unpruned model tree. Used for testing and benchmarking without real network I/O;
keeps an observable transcript for benchmark instrumentation.
*/

package connector

import (
	"fmt"

	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
	"github.com/kleascm/akaylee-identifier/pkg/modeltree"
)

// Simulated replays the behavior of one target model. It holds the
// full (unpruned) tree, so it stays in sync even while the
// identification loop prunes and condenses its own working copy.
type Simulated struct {
	target     interfaces.ModelID
	tree       *modeltree.Tree
	cursor     modeltree.Path
	transcript []string
	closed     bool
}

// NewSimulated creates a simulated connector that answers as the
// given target model would, according to the reference tree.
func NewSimulated(target interfaces.ModelID, tree *modeltree.Tree) *Simulated {
	return &Simulated{target: target, tree: tree}
}

// Send advances the internal path cursor by the input token and
// answers with the one response branch whose subtree still contains
// the target model. If no branch contains the target, the peer's
// behavior has left the learned tree; the empty token is returned and
// the identification loop resolves it as an unmatched path.
func (s *Simulated) Send(input string) (string, error) {
	s.transcript = append(s.transcript, input)
	s.cursor = s.cursor.Append(input)

	node := s.tree.NodeAt(s.cursor)
	if node == nil {
		return "", fmt.Errorf("input %q leaves the reference tree at %v", input, s.cursor)
	}
	for _, child := range s.tree.Children(node) {
		if !s.tree.Subtree(child).ContainsModel(s.target) {
			continue
		}
		response := s.tree.EdgeTokens(node, child)[0]
		s.transcript = append(s.transcript, response)
		s.cursor = s.cursor.Append(response)
		return response, nil
	}
	s.transcript = append(s.transcript, "")
	return "", nil
}

// Reset clears the path cursor and records the reset in the
// transcript as a sentinel pair.
func (s *Simulated) Reset() error {
	s.transcript = append(s.transcript, resetToken, "")
	s.cursor = nil
	return nil
}

// Close marks the connector closed. There is nothing to tear down.
func (s *Simulated) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called. Test instrumentation.
func (s *Simulated) Closed() bool {
	return s.closed
}

// Transcript returns a copy of the messages sent and received so far,
// including reset sentinel pairs.
func (s *Simulated) Transcript() []string {
	out := make([]string, len(s.transcript))
	copy(out, s.transcript)
	return out
}
