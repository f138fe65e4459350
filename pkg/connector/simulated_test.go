/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: simulated_test.go
Description: Tests for the simulated connector. Covers deterministic replay of a
target model, transcript recording with reset sentinels, the empty-token answer
for behavior outside the learned branches, and input validation.
*/

package connector_test

import (
	"testing"

	"github.com/kleascm/akaylee-identifier/pkg/connector"
	"github.com/kleascm/akaylee-identifier/pkg/interfaces"
	"github.com/kleascm/akaylee-identifier/pkg/modeltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replayTree(t *testing.T) *modeltree.Tree {
	t.Helper()
	mapping := interfaces.ModelMapping{
		"model-a": {{Name: "openssl", Version: "1.1.1"}},
		"model-b": {{Name: "mbedtls", Version: "2.16.3"}},
	}
	tree := modeltree.New(mapping)
	require.NoError(t, tree.InsertPath(modeltree.Path{"ClientHello", "ServerHello", "Finished", "Ok"}, "model-a"))
	require.NoError(t, tree.InsertPath(modeltree.Path{"ClientHello", "ServerHello", "Finished", "Alert"}, "model-b"))
	return tree
}

// TestSimulatedReplay tests deterministic answers for a target model
func TestSimulatedReplay(t *testing.T) {
	tree := replayTree(t)
	sim := connector.NewSimulated("model-b", tree)

	response, err := sim.Send("ClientHello")
	require.NoError(t, err)
	assert.Equal(t, "ServerHello", response)

	response, err = sim.Send("Finished")
	require.NoError(t, err)
	assert.Equal(t, "Alert", response, "the branch containing the target answers")

	assert.Equal(t, []string{"ClientHello", "ServerHello", "Finished", "Alert"}, sim.Transcript())
}

// TestSimulatedReset tests cursor rewind and the transcript sentinel
func TestSimulatedReset(t *testing.T) {
	tree := replayTree(t)
	sim := connector.NewSimulated("model-a", tree)

	_, err := sim.Send("ClientHello")
	require.NoError(t, err)
	require.NoError(t, sim.Reset())

	// After a reset the replay starts from the root again.
	response, err := sim.Send("ClientHello")
	require.NoError(t, err)
	assert.Equal(t, "ServerHello", response)

	transcript := sim.Transcript()
	assert.Equal(t, []string{"ClientHello", "ServerHello", "RESET", "", "ClientHello", "ServerHello"}, transcript)
}

// TestSimulatedUnknownTarget tests the empty-token answer when no
// branch contains the target
func TestSimulatedUnknownTarget(t *testing.T) {
	tree := replayTree(t)
	sim := connector.NewSimulated("model-ghost", tree)

	response, err := sim.Send("ClientHello")
	require.NoError(t, err, "an off-tree peer is an answer, not a transport fault")
	assert.Equal(t, "", response)
	assert.Equal(t, []string{"ClientHello", ""}, sim.Transcript())
}

// TestSimulatedRejectsOffTreeInput tests the error for an input the
// reference tree never saw
func TestSimulatedRejectsOffTreeInput(t *testing.T) {
	tree := replayTree(t)
	sim := connector.NewSimulated("model-a", tree)

	_, err := sim.Send("Heartbeat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leaves the reference tree")
}

// TestSimulatedClose tests the closed flag
func TestSimulatedClose(t *testing.T) {
	sim := connector.NewSimulated("model-a", replayTree(t))
	assert.False(t, sim.Closed())
	require.NoError(t, sim.Close())
	assert.True(t, sim.Closed())
}

// TestSimulatedTranscriptIsolation tests that the returned transcript
// is a copy
func TestSimulatedTranscriptIsolation(t *testing.T) {
	tree := replayTree(t)
	sim := connector.NewSimulated("model-a", tree)

	_, err := sim.Send("ClientHello")
	require.NoError(t, err)

	transcript := sim.Transcript()
	transcript[0] = "tampered"
	assert.Equal(t, "ClientHello", sim.Transcript()[0])
}
