// Package network implements gorgonia neural networks used as policy
// and value function approximators
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet implements a neural network on a gorgonia computational
// graph. A NeuralNet predicts BatchSize() observations at a time, each
// of Features() features, producing Outputs() values per observation.
type NeuralNet interface {
	Graph() *G.ExprGraph
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int
	SetInput([]float64) error
	Learnables() G.Nodes
	Model() []G.ValueGrad
	Output() G.Value
	Prediction() *G.Node
}

// Set sets the weights of dest to be equal to the weights of source.
// The networks must share the same architecture.
func Set(dest, source NeuralNet) error {
	sourceNodes := source.Learnables()
	nodes := dest.Learnables()
	for i, destLearnable := range nodes {
		sourceLearnable := sourceNodes[i].Clone()
		err := G.Let(destLearnable, sourceLearnable.(*G.Node).Value())
		if err != nil {
			return err
		}
	}
	return nil
}
