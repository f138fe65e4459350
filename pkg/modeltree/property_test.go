/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: property_test.go
Description: Property-based tests for the model tree. Generates complete
two-round behavior tables, builds trees from them, and verifies the structural
invariants that pruning and condensation must preserve for any input.
*/

package modeltree_test

import (
	"fmt"
	"testing"

	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
	"github.com/kleascm/akaylee-identifier/pkg/modeltree"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// behaviorTable fixes, for every model, the response it gives to each
// of two inputs in each of two rounds. Every model answers every
// input, so the resulting tree is complete the way a learned model
// tree is.
type behaviorTable struct {
	models    []interfaces.ModelID
	responses map[interfaces.ModelID][4]string
}

var propertyInputs = []string{"ClientHelloRSA", "ClientHelloDHE"}

// buildBehaviorTable derives a table from a model count and a bit
// stream.
func buildBehaviorTable(numModels int, bits []bool) behaviorTable {
	if len(bits) == 0 {
		bits = []bool{false}
	}
	table := behaviorTable{responses: make(map[interfaces.ModelID][4]string)}
	responseName := func(b bool) string {
		if b {
			return "ServerHello"
		}
		return "Alert"
	}
	for m := 0; m < numModels; m++ {
		id := interfaces.ModelID(fmt.Sprintf("model-%d", m))
		table.models = append(table.models, id)
		var row [4]string
		for i := 0; i < 4; i++ {
			row[i] = responseName(bits[(m*4+i)%len(bits)])
		}
		table.responses[id] = row
	}
	return table
}

// buildBehaviorTree inserts every two-round path each model can take.
func buildBehaviorTree(t behaviorTable) (*modeltree.Tree, error) {
	mapping := make(interfaces.ModelMapping, len(t.models))
	for _, id := range t.models {
		mapping[id] = []interfaces.Implementation{{Name: string(id), Version: "1.0"}}
	}
	tree := modeltree.New(mapping)
	for _, id := range t.models {
		row := t.responses[id]
		for i, first := range propertyInputs {
			for j, second := range propertyInputs {
				path := modeltree.Path{first, row[i], second, row[2+j]}
				if err := tree.InsertPath(path, id); err != nil {
					return nil, err
				}
			}
		}
	}
	return tree, nil
}

// unionInvariantHolds checks that every node's model set equals the
// union of its children's sets.
func unionInvariantHolds(tree *modeltree.Tree, n *modeltree.Node) bool {
	if n.IsLeaf() {
		return true
	}
	union := modeltree.NewModelSet()
	for _, child := range tree.Children(n) {
		for _, id := range child.Models.Sorted() {
			if !n.Models.Contains(id) {
				return false
			}
			union.Add(id)
		}
		if !unionInvariantHolds(tree, child) {
			return false
		}
	}
	return union.Equal(n.Models)
}

// condensedShapeHolds checks that no non-root internal node has fewer
// than two children and that every leaf narrows the candidate set.
func condensedShapeHolds(tree *modeltree.Tree, n *modeltree.Node, universe modeltree.ModelSet) bool {
	for _, child := range tree.Children(n) {
		if child.IsLeaf() {
			if child.Depth()%2 != 0 {
				return false
			}
			if child.Models.Equal(universe) {
				return false
			}
			continue
		}
		if len(tree.Children(child)) < 2 {
			return false
		}
		if !condensedShapeHolds(tree, child, universe) {
			return false
		}
	}
	return true
}

// TestTreeProperties verifies the pruning and condensation invariants
// over generated behavior tables
func TestTreeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("construction establishes the union invariant", prop.ForAll(
		func(numModels int, bits []bool) bool {
			tree, err := buildBehaviorTree(buildBehaviorTable(numModels, bits))
			if err != nil {
				return false
			}
			return unionInvariantHolds(tree, tree.Root())
		},
		gen.IntRange(2, 5),
		gen.SliceOfN(20, gen.Bool()),
	))

	properties.Property("pruning removes models everywhere and keeps the invariant", prop.ForAll(
		func(numModels int, bits []bool, mask int) bool {
			table := buildBehaviorTable(numModels, bits)
			tree, err := buildBehaviorTree(table)
			if err != nil {
				return false
			}
			removed := modeltree.NewModelSet()
			for i, id := range table.models {
				if mask&(1<<i) != 0 {
					removed.Add(id)
				}
			}
			if len(removed) == 0 || len(removed) == numModels {
				return true
			}
			if err := tree.PruneModels(removed); err != nil {
				return false
			}
			for _, leaf := range tree.Leaves() {
				for _, id := range removed.Sorted() {
					if leaf.Models.Contains(id) {
						return false
					}
				}
			}
			return unionInvariantHolds(tree, tree.Root())
		},
		gen.IntRange(2, 5),
		gen.SliceOfN(20, gen.Bool()),
		gen.IntRange(0, 31),
	))

	properties.Property("condensation yields the terminal state or a decision tree", prop.ForAll(
		func(numModels int, bits []bool, mask int) bool {
			table := buildBehaviorTable(numModels, bits)
			tree, err := buildBehaviorTree(table)
			if err != nil {
				return false
			}
			removed := modeltree.NewModelSet()
			for i, id := range table.models {
				if mask&(1<<i) != 0 {
					removed.Add(id)
				}
			}
			if len(removed) == numModels {
				return true
			}
			if err := tree.PruneModels(removed); err != nil {
				return false
			}
			tree.Condense()
			if tree.Size() == 0 {
				return true
			}
			return condensedShapeHolds(tree, tree.Root(), tree.Models())
		},
		gen.IntRange(2, 5),
		gen.SliceOfN(20, gen.Bool()),
		gen.IntRange(0, 31),
	))

	properties.Property("clones are independent of the original", prop.ForAll(
		func(numModels int, bits []bool) bool {
			table := buildBehaviorTable(numModels, bits)
			tree, err := buildBehaviorTree(table)
			if err != nil {
				return false
			}
			sizeBefore := tree.Size()
			clone := tree.Clone()
			if err := clone.PruneModels(modeltree.NewModelSet(table.models[0])); err != nil {
				return false
			}
			clone.Condense()
			return tree.Size() == sizeBefore && tree.Models().Contains(table.models[0])
		},
		gen.IntRange(2, 5),
		gen.SliceOfN(20, gen.Bool()),
	))

	properties.TestingRun(t)
}
