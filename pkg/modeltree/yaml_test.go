/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: yaml_test.go
Description: Tests for the learned-tree YAML loader. Covers the happy path and
each validation rule: missing sections, undeclared models, implementation-less
models, and overlapping leaf paths.
*/

package modeltree_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/akaylee-identifier/pkg/modeltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTreeDocument = `
models:
  model-a:
    implementations:
      - name: openssl
        version: 1.1.1
      - name: openssl
        version: 1.1.1k
  model-b:
    implementations:
      - name: mbedtls
        version: 2.16.3
leaves:
  - path: [ClientHello, ServerHello]
    models: [model-a]
  - path: [ClientHello, Alert]
    models: [model-b]
`

// TestLoadValidDocument tests parsing and building a well-formed tree
func TestLoadValidDocument(t *testing.T) {
	tree, err := modeltree.Load([]byte(validTreeDocument))
	require.NoError(t, err)

	assert.Equal(t, 4, tree.Size())
	assert.True(t, tree.Models().Equal(modeltree.NewModelSet("model-a", "model-b")))

	implementations := tree.ModelMapping()["model-a"]
	require.Len(t, implementations, 2)
	assert.Equal(t, "openssl", implementations[0].Name)
	assert.Equal(t, "1.1.1", implementations[0].Version)

	leaf := tree.NodeAt(modeltree.Path{"ClientHello", "Alert"})
	require.NotNil(t, leaf)
	assert.True(t, leaf.Models.Equal(modeltree.NewModelSet("model-b")))
}

// TestLoadValidation tests each rejection rule of the loader
func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name     string
		document string
		wantErr  string
	}{
		{
			name:     "malformed yaml",
			document: "models: [",
			wantErr:  "failed to parse",
		},
		{
			name:     "no models",
			document: "leaves:\n  - path: [A, B]\n    models: [model-a]\n",
			wantErr:  "declares no models",
		},
		{
			name:     "no leaves",
			document: "models:\n  model-a:\n    implementations:\n      - name: openssl\n        version: 1.0.0\n",
			wantErr:  "declares no leaves",
		},
		{
			name: "model without implementations",
			document: `
models:
  model-a:
    implementations: []
leaves:
  - path: [A, B]
    models: [model-a]
`,
			wantErr: "declares no implementations",
		},
		{
			name: "undeclared model reference",
			document: `
models:
  model-a:
    implementations:
      - name: openssl
        version: 1.0.0
leaves:
  - path: [A, B]
    models: [model-ghost]
`,
			wantErr: "undeclared model",
		},
		{
			name: "leaf path extends another",
			document: `
models:
  model-a:
    implementations:
      - name: openssl
        version: 1.0.0
leaves:
  - path: [A, B]
    models: [model-a]
  - path: [A, B, C, D]
    models: [model-a]
`,
			wantErr: "is extended by",
		},
		{
			name: "odd leaf path",
			document: `
models:
  model-a:
    implementations:
      - name: openssl
        version: 1.0.0
leaves:
  - path: [A, B, C]
    models: [model-a]
`,
			wantErr: "alternate input/response",
		},
		{
			name: "empty leaf path",
			document: `
models:
  model-a:
    implementations:
      - name: openssl
        version: 1.0.0
leaves:
  - path: []
    models: [model-a]
`,
			wantErr: "empty leaf path",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := modeltree.Load([]byte(tc.document))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

// TestLoadFile tests reading a tree document from disk
func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validTreeDocument), 0644))

	tree, err := modeltree.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, tree.Size())

	_, err = modeltree.LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
