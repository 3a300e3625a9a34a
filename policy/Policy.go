// Package policy implements stochastic policies and value functions
// backed by gorgonia neural networks
package policy

import (
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"github.com/lucasgandara/govpg/network"
)

// Policy chooses actions in each state. SelectAction samples an action
// for the argument observation from the policy's action distribution
// and returns the action together with the log-probability the policy
// assigned to it. The returned log-probability is a plain float64,
// detached from any computation graph.
type Policy interface {
	SelectAction(obs mat.Vector) (*mat.VecDense, float64, error)
}

// ValueFn estimates the value of an observation
type ValueFn interface {
	Value(obs mat.Vector) (float64, error)
}

// LogProber is a Policy that can calculate the log probability of
// taking externally inputted actions in externally inputted states on
// a computation graph, so that the gradient of the log probabilities
// with respect to the policy weights can be computed. The gradient is
// never computed through the action selection process itself.
type LogProber interface {
	Policy

	// Network returns the neural network backing the policy
	Network() network.NeuralNet

	// CloneWithBatch returns a copy of the policy predicting batch
	// observations at a time, with the same weight values
	CloneWithBatch(batch int) (LogProber, error)

	// LogProbNode returns the node that calculates the log
	// probabilities of the input actions
	LogProbNode() *G.Node

	// LogProbOf sets the policy's inputs so that LogProbNode()
	// computes the log probability of taking the argument actions in
	// the argument states. States are constructed in row major order.
	LogProbOf(states, actions []float64) (*G.Node, error)
}
