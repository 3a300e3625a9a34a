package policy

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"github.com/lucasgandara/govpg/network"
)

// ValueMLP implements a state value function approximated by an MLP
// with a single output node. It is used as the baseline of the
// baselined advantage estimator. The value function is read-only: its
// estimates are subtracted from rewards-to-go but its weights are
// never fitted.
type ValueMLP struct {
	net network.NeuralNet
	vm  G.VM
}

// NewValueMLP returns a new ValueMLP. See network.NewMultiHeadMLP for
// details on the network architecture arguments.
func NewValueMLP(features int, hiddenSizes []int, biases []bool,
	activations []*network.Activation, init G.InitWFn) (*ValueMLP, error) {
	g := G.NewGraph()
	net, err := network.NewSingleHeadMLP(features, 1, g, hiddenSizes, biases,
		init, activations)
	if err != nil {
		return nil, fmt.Errorf("newvaluemlp: could not create value "+
			"network: %v", err)
	}

	return &ValueMLP{
		net: net,
		vm:  G.NewTapeMachine(g),
	}, nil
}

// Value estimates the value of an observation
func (v *ValueMLP) Value(obs mat.Vector) (float64, error) {
	if err := v.net.SetInput(rawVector(obs)); err != nil {
		return 0, fmt.Errorf("value: could not set network input: %v", err)
	}
	if err := v.vm.RunAll(); err != nil {
		return 0, fmt.Errorf("value: could not run forward pass: %v", err)
	}
	out := v.net.Output().Data().([]float64)
	v.vm.Reset()

	if len(out) != 1 {
		return 0, fmt.Errorf("value: multiple values predicted for state "+
			"value\n\twant(1)\n\thave(%v)", len(out))
	}
	return out[0], nil
}

// Network returns the neural network backing the value function
func (v *ValueMLP) Network() network.NeuralNet {
	return v.net
}

// Close cleans up the value function's VM resources
func (v *ValueMLP) Close() error {
	return v.vm.Close()
}
