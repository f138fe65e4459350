/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: selectors.go
Description: Input-selection heuristics for the Akaylee Identifier. Given the
current tree position and a weight function, each selector chooses which input
edge to probe next. Implements the arbitrary and first-available baselines plus
the Gini-impurity and entropy heuristics with deterministic tie-breaking.
*/

package selection

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
	"github.com/kleascm/akaylee-identifier/pkg/modeltree"
)

// ErrDegenerateWeight indicates the weight function assigned zero
// total weight to every model in scope. This is a configuration
// error; the impurity selectors fail loudly instead of dividing by
// zero.
var ErrDegenerateWeight = errors.New("degenerate weighting: subtree total weight is zero")

// Selector chooses the next input edge among the children of the
// current node. Selectors are plain function values so callers can
// pass them straight into the identification loop.
type Selector func(tree *modeltree.Tree, node *modeltree.Node, weight interfaces.WeightFunc) (*modeltree.Node, error)

// SelectRandom picks a uniformly random input edge. Non-adaptive
// baseline with no ordering guarantee.
func SelectRandom(tree *modeltree.Tree, node *modeltree.Node, _ interfaces.WeightFunc) (*modeltree.Node, error) {
	children := tree.Children(node)
	if len(children) == 0 {
		return nil, fmt.Errorf("no input edges at %v", node.Path)
	}
	return children[rand.Intn(len(children))], nil
}

// SelectFirst picks the first input edge in stable order. The right
// choice for trees with a single distinguishing input at every level,
// where there is no decision to make.
func SelectFirst(tree *modeltree.Tree, node *modeltree.Node, _ interfaces.WeightFunc) (*modeltree.Node, error) {
	children := tree.Children(node)
	if len(children) == 0 {
		return nil, fmt.Errorf("no input edges at %v", node.Path)
	}
	return children[0], nil
}

// responseBranches returns the response branches reachable through
// the given input edge. A condensed edge that already folded its
// response in counts as a single branch: observing it cannot split
// the candidate set.
func responseBranches(tree *modeltree.Tree, node, child *modeltree.Node) []*modeltree.Node {
	if len(tree.EdgeTokens(node, child)) > 1 || child.IsLeaf() {
		return []*modeltree.Node{child}
	}
	return tree.Children(child)
}

// SelectGini uses the Gini impurity to compute which input leads to
// the most distinguishing responses. Among inputs of maximal impurity
// it picks the one with the smallest resulting subtree: loop
// unrolling in normalization can produce deep trees where every
// intersection ties, and the smaller subtree reaches a leaf sooner.
func SelectGini(tree *modeltree.Tree, node *modeltree.Node, weight interfaces.WeightFunc) (*modeltree.Node, error) {
	children := tree.Children(node)
	if len(children) == 0 {
		return nil, fmt.Errorf("no input edges at %v", node.Path)
	}
	total := tree.Subtree(node).Weight(weight)
	if total == 0 {
		return nil, fmt.Errorf("%w: at node %v", ErrDegenerateWeight, node.Path)
	}

	impurities := make([]float64, len(children))
	for i, child := range children {
		sum := 0.0
		for _, branch := range responseBranches(tree, node, child) {
			p := tree.Subtree(branch).Weight(weight) / total
			sum += p * p
		}
		impurities[i] = 1 - sum
	}

	maximum := impurities[0]
	for _, imp := range impurities[1:] {
		if imp > maximum {
			maximum = imp
		}
	}

	var candidates []*modeltree.Node
	for i, child := range children {
		if impurities[i] == maximum {
			candidates = append(candidates, child)
		}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	selected := candidates[0]
	best := tree.Subtree(selected).Size()
	for _, child := range candidates[1:] {
		if size := tree.Subtree(child).Size(); size < best {
			selected, best = child, size
		}
	}
	return selected, nil
}

// SelectEntropy ranks inputs by Shannon entropy over the response
// branch weights. It yields the same decisions as SelectGini but is
// more expensive to compute (due to the log), so it is kept as a
// reference and not registered as a default choice. The first maximum
// wins; no subtree tie-break is applied.
func SelectEntropy(tree *modeltree.Tree, node *modeltree.Node, weight interfaces.WeightFunc) (*modeltree.Node, error) {
	children := tree.Children(node)
	if len(children) == 0 {
		return nil, fmt.Errorf("no input edges at %v", node.Path)
	}
	total := tree.Subtree(node).Weight(weight)
	if total == 0 {
		return nil, fmt.Errorf("%w: at node %v", ErrDegenerateWeight, node.Path)
	}

	var selected *modeltree.Node
	best := math.Inf(-1)
	for _, child := range children {
		metric := 0.0
		for _, branch := range responseBranches(tree, node, child) {
			p := tree.Subtree(branch).Weight(weight) / total
			if p > 0 {
				metric -= p * math.Log(p)
			}
		}
		if metric > best {
			selected, best = child, metric
		}
	}
	return selected, nil
}

// Selectors exposes the selection strategies by name. The entropy
// selector is deliberately left out: it duplicates the Gini decisions
// at a higher cost and exists for reference and testing.
var Selectors = map[string]Selector{
	"random": SelectRandom,
	"first":  SelectFirst,
	"gini":   SelectGini,
}
