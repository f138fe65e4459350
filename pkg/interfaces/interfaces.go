/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared interfaces and types for the Akaylee Identifier. Defines the
connector contract and the common model/implementation types used across all
packages to break import cycles and enable proper modular design.
*/

package interfaces

import (
	"time"
)

// ModelID is an opaque handle distinguishing one learned behavioral
// model from another. Models are supplied together with the tree by
// the learning stage and never change during identification.
type ModelID string

// Implementation is a single implementation label (name + version)
// that exhibited a model during learning.
type Implementation struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// ModelMapping is the immutable lookup from a model identifier to the
// set of implementation labels behind it. One model may cover many
// implementations; no implementation set is shared between models.
type ModelMapping map[ModelID][]Implementation

// Connector abstracts one probing session with a peer: send one input
// token and receive one response token, reset the conversation, close
// the session. Implementations: the live harness transport and the
// tree-driven simulator.
type Connector interface {
	// Send transmits a single input token and blocks until the
	// response token is available. Any error is a transport fault and
	// is fatal to the current identification run.
	Send(input string) (string, error)

	// Reset restarts the underlying conversation without tearing down
	// the session.
	Reset() error

	// Close terminates the session. Safe to call more than once.
	Close() error
}

// WeightFunc maps an implementation set to a non-negative scalar used
// to bias the impurity-based selectors toward realistic prevalence
// assumptions. The non-adaptive selectors ignore it.
type WeightFunc func(implementations []Implementation) float64

// Result is the outcome of one identification run. Models is the
// minimal candidate set consistent with the probes performed; it is
// never empty on success.
type Result struct {
	Models          []ModelID        `json:"models"`
	Implementations []Implementation `json:"implementations"`
	Inputs          int              `json:"inputs"`
	Resets          int              `json:"resets"`
	Duration        time.Duration    `json:"duration"`
}
