/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: yaml.go
Description: YAML loader for learned model trees. Reads the model-to-implementation
mapping and the leaf paths produced by the learning stage, validates them, and
builds the in-memory tree through the construction primitive.
*/

package modeltree

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
	"gopkg.in/yaml.v3"
)

// treeDocument is the on-disk shape of a learned tree.
type treeDocument struct {
	Models map[string]modelEntry `yaml:"models"`
	Leaves []leafEntry           `yaml:"leaves"`
}

type modelEntry struct {
	Implementations []interfaces.Implementation `yaml:"implementations"`
}

type leafEntry struct {
	Path   []string `yaml:"path"`
	Models []string `yaml:"models"`
}

// LoadFile reads a learned tree document from disk.
func LoadFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree file: %w", err)
	}
	tree, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("invalid tree file %s: %w", path, err)
	}
	return tree, nil
}

// Load parses a learned tree document and builds the tree. It
// validates that every leaf path has even length (alternating input
// and response tokens), that every referenced model is declared in
// the mapping, and that no leaf path is a prefix of another.
func Load(data []byte) (*Tree, error) {
	var doc treeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tree document: %w", err)
	}
	if len(doc.Models) == 0 {
		return nil, fmt.Errorf("tree document declares no models")
	}
	if len(doc.Leaves) == 0 {
		return nil, fmt.Errorf("tree document declares no leaves")
	}

	mapping := make(interfaces.ModelMapping, len(doc.Models))
	for name, entry := range doc.Models {
		if len(entry.Implementations) == 0 {
			return nil, fmt.Errorf("model %q declares no implementations", name)
		}
		mapping[interfaces.ModelID(name)] = entry.Implementations
	}

	for i, a := range doc.Leaves {
		for j, b := range doc.Leaves {
			if i != j && Path(a.Path).HasPrefix(Path(b.Path)) {
				return nil, fmt.Errorf("leaf path %v is extended by leaf path %v", b.Path, a.Path)
			}
		}
	}

	tree := New(mapping)
	for _, leaf := range doc.Leaves {
		if len(leaf.Path) == 0 {
			return nil, fmt.Errorf("empty leaf path")
		}
		models := make([]interfaces.ModelID, 0, len(leaf.Models))
		for _, name := range leaf.Models {
			id := interfaces.ModelID(name)
			if _, ok := mapping[id]; !ok {
				return nil, fmt.Errorf("leaf path %v references undeclared model %q", leaf.Path, name)
			}
			models = append(models, id)
		}
		if err := tree.InsertPath(Path(leaf.Path), models...); err != nil {
			return nil, err
		}
	}
	return tree, nil
}
