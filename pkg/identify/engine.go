/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine.go
Description: Identification engine for the Akaylee Identifier. Orchestrates
repeated descents through the model tree, pruning and condensation after each
leaf, and connector resets, until the candidate model set is minimal or the
observed behavior leaves the tree.
*/

package identify

import (
	"errors"
	"fmt"
	"time"

	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
	"github.com/kleascm/akaylee-identifier/pkg/modeltree"
	"github.com/kleascm/akaylee-identifier/pkg/selection"
	"github.com/sirupsen/logrus"
)

// ErrNoMatchingPath indicates a descent reached a token sequence
// absent from the tree: the peer exhibits behavior unseen during
// learning. Terminal for the run, reported as "unknown", never
// retried internally.
var ErrNoMatchingPath = errors.New("no model matches the observed behavior")

// Config carries the pluggable pieces of an identification run.
// Zero values fall back to the first-available selector and equal
// weighting.
type Config struct {
	Selector selection.Selector
	Weight   interfaces.WeightFunc
	Logger   *logrus.Logger
}

// Engine runs one identification attempt. It owns its tree instance
// (mutated in place by pruning and condensation) and its connector;
// independent attempts need independent instances of both. A run is
// strictly sequential: every send is a blocking round-trip and each
// round's pruning completes before the next probe.
type Engine struct {
	tree     *modeltree.Tree
	conn     interfaces.Connector
	selector selection.Selector
	weight   interfaces.WeightFunc
	logger   *logrus.Logger

	inputs int
	resets int
}

// NewEngine creates an identification engine over the given tree and
// connector.
func NewEngine(tree *modeltree.Tree, conn interfaces.Connector, config Config) *Engine {
	if config.Selector == nil {
		config.Selector = selection.SelectFirst
	}
	if config.Weight == nil {
		config.Weight = selection.WeightEqual
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	return &Engine{
		tree:     tree,
		conn:     conn,
		selector: config.Selector,
		weight:   config.Weight,
		logger:   config.Logger,
	}
}

// Run drives the probe-and-narrow cycle to completion. On success it
// returns the minimal candidate set together with its implementation
// labels and the run counters. All failures close the connector on
// the way out and surface to the caller unretried: transport faults,
// ErrNoMatchingPath, selection.ErrDegenerateWeight, and
// modeltree.ErrInvariantViolation.
func (e *Engine) Run() (*interfaces.Result, error) {
	defer e.conn.Close()

	if e.tree.Size() == 0 {
		return nil, fmt.Errorf("cannot identify against an empty tree")
	}

	start := time.Now()
	previous := 0
	for iteration := 1; ; iteration++ {
		leaf, err := e.descend()
		if err != nil {
			e.logger.WithError(err).Warn("Identification failed")
			return nil, err
		}

		candidates := leaf.Models.Clone()
		e.logger.WithFields(logrus.Fields{
			"iteration":  iteration,
			"candidates": len(candidates),
		}).Debug("Leaf reached")

		// Each round must strictly shrink the candidate set, or the
		// loop would never terminate.
		if previous > 0 && len(candidates) >= previous {
			return nil, fmt.Errorf("%w: candidate set did not shrink (round %d: %d -> %d)",
				modeltree.ErrInvariantViolation, iteration, previous, len(candidates))
		}
		previous = len(candidates)

		// Prune against the full tree, not the current subtree. This
		// keeps branches abandoned in earlier rounds consistent with
		// the shrinking candidate set.
		removed := e.tree.Models().Difference(candidates)
		if err := e.tree.PruneModels(removed); err != nil {
			return nil, err
		}
		e.tree.Condense()

		// An empty tree after condensing means the remaining models
		// are mutually indistinguishable: the result is the last
		// leaf's candidate set.
		if e.tree.Size() == 0 {
			result := e.result(candidates, time.Since(start))
			e.logger.WithFields(logrus.Fields{
				"models": result.Models,
				"inputs": result.Inputs,
				"resets": result.Resets,
			}).Info("Identification complete")
			return result, nil
		}

		if err := e.conn.Reset(); err != nil {
			return nil, fmt.Errorf("transport fault during reset: %w", err)
		}
		e.resets++
	}
}

// descend walks from the root to a leaf, asking the selector for the
// next input edge and validating every observed response against the
// tree. Condensed edges span several tokens; they are replayed one
// message at a time so a live session stays in sync.
func (e *Engine) descend() (*modeltree.Node, error) {
	cursor := e.tree.Root()
	var lastResponse string
	pending := false

	for !cursor.IsLeaf() {
		var next *modeltree.Node
		if pending {
			next = e.tree.ChildByFirstToken(cursor, lastResponse)
			if next == nil {
				return nil, fmt.Errorf("%w: response %q has no edge at %v",
					ErrNoMatchingPath, lastResponse, cursor.Path)
			}
		} else {
			selected, err := e.selector(e.tree, cursor, e.weight)
			if err != nil {
				return nil, err
			}
			next = selected
		}

		tokens := e.tree.EdgeTokens(cursor, next)
		for i, token := range tokens {
			if (cursor.Depth()+i)%2 == 0 {
				response, err := e.conn.Send(token)
				if err != nil {
					return nil, fmt.Errorf("transport fault during send: %w", err)
				}
				e.inputs++
				lastResponse = response
			} else if lastResponse != token {
				return nil, fmt.Errorf("%w: got %q at %v, expected %q",
					ErrNoMatchingPath, lastResponse, next.Path[:len(cursor.Path)+i], token)
			}
		}

		// An edge ending right after an input leaves its response
		// observed but unmatched; the next step resolves it against
		// the children.
		pending = next.Depth()%2 == 1
		cursor = next
	}
	return cursor, nil
}

// result assembles the run outcome for the final candidate set.
func (e *Engine) result(candidates modeltree.ModelSet, duration time.Duration) *interfaces.Result {
	mapping := e.tree.ModelMapping()
	models := candidates.Sorted()
	var implementations []interfaces.Implementation
	for _, id := range models {
		implementations = append(implementations, mapping[id]...)
	}
	return &interfaces.Result{
		Models:          models,
		Implementations: implementations,
		Inputs:          e.inputs,
		Resets:          e.resets,
		Duration:        duration,
	}
}
