package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/lucasgandara/govpg/network"
	"github.com/lucasgandara/govpg/utils/floatutils"
)

// CategoricalMLP implements a stochastic policy over a discrete action
// space. An MLP maps an observation vector to one logit per action,
// and actions are sampled from the categorical distribution defined by
// the softmax of these logits.
//
// A CategoricalMLP with a batch size of 1 owns a VM and can select
// actions. A CategoricalMLP with a larger batch size computes the log
// probabilities of a batch of state-action pairs for training; in that
// case the caller owns the VM that runs the graph.
type CategoricalMLP struct {
	net network.NeuralNet
	vm  G.VM

	logits *G.Node

	logProbInputActions    *G.Node
	logProbInputActionsVal G.Value
	actionIndices          *G.Node

	batchForLogProb int
	numActions      int

	seed   uint64
	source rand.Source
}

// NewCategoricalMLP returns a new CategoricalMLP with one logit output
// per action. The MLP has hidden layers of sizes hiddenSizes, with
// bias units and activations given by biases and activations. See
// network.NewMultiHeadMLP for details on the network architecture.
func NewCategoricalMLP(features, numActions, batch int,
	hiddenSizes []int, biases []bool, activations []*network.Activation,
	init G.InitWFn, seed uint64) (*CategoricalMLP, error) {
	if numActions < 1 {
		return nil, fmt.Errorf("newcategoricalmlp: policy needs at least "+
			"one action, got %v", numActions)
	}

	g := G.NewGraph()
	net, err := network.NewMultiHeadMLP(features, batch, numActions, g,
		hiddenSizes, biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newcategoricalmlp: could not create policy "+
			"network: %v", err)
	}

	return fromNetwork(net, numActions, batch, seed)
}

// fromNetwork builds the log-probability nodes of a CategoricalMLP on
// the graph of an existing logits network.
func fromNetwork(net network.NeuralNet, numActions, batch int,
	seed uint64) (*CategoricalMLP, error) {
	logits := net.Prediction()

	// Log probability of actions inputted with LogProbOf(). The
	// actions are one-hot encoded so that selecting the logit of each
	// action is a differentiable operation.
	actionIndices := G.NewMatrix(
		net.Graph(),
		tensor.Float64,
		G.WithShape(logits.Shape()...),
		G.WithInit(G.Zeroes()),
		G.WithName("actionIndices"),
	)
	logitsInputActions := G.Must(G.HadamardProd(actionIndices, logits))
	logitsInputActions = G.Must(G.Sum(logitsInputActions, 1))
	inputsLogSumExp := logSumExpNode(logits, 1)
	logProbInputActions := G.Must(G.Sub(logitsInputActions, inputsLogSumExp))

	pol := &CategoricalMLP{
		net:    net,
		logits: logits,

		actionIndices:       actionIndices,
		logProbInputActions: logProbInputActions,

		batchForLogProb: batch,
		numActions:      numActions,

		seed:   seed,
		source: rand.NewSource(seed),
	}
	G.Read(pol.logProbInputActions, &pol.logProbInputActionsVal)

	if batch == 1 {
		pol.vm = G.NewTapeMachine(net.Graph())
	}

	return pol, nil
}

// logSumExpNode adds a numerically stable log(Σ exp(logits)) along an
// axis to the computational graph
func logSumExpNode(logits *G.Node, along int) *G.Node {
	max := G.Must(G.Max(logits, along))

	exponent := G.Must(G.BroadcastSub(logits, max, nil, []byte{1}))
	exponent = G.Must(G.Exp(exponent))

	sum := G.Must(G.Sum(exponent, along))
	log := G.Must(G.Log(sum))

	return G.Must(G.Add(max, log))
}

// SelectAction samples an action for the argument observation from the
// policy's action distribution, returning the action and the
// log-probability the policy assigned to it. Only a policy with a
// batch size of 1 can select actions.
func (c *CategoricalMLP) SelectAction(obs mat.Vector) (*mat.VecDense,
	float64, error) {
	if c.vm == nil {
		return nil, 0, fmt.Errorf("selectaction: policy has batch size "+
			"%v > 1 and cannot select actions", c.batchForLogProb)
	}

	if err := c.net.SetInput(rawVector(obs)); err != nil {
		return nil, 0, fmt.Errorf("selectaction: could not set network "+
			"input: %v", err)
	}
	if err := c.vm.RunAll(); err != nil {
		return nil, 0, fmt.Errorf("selectaction: could not run forward "+
			"pass: %v", err)
	}
	logits := append([]float64{}, c.net.Output().Data().([]float64)...)
	c.vm.Reset()

	// Sample an action from the softmaxed logits. The sampling itself
	// is detached from the computation graph.
	logSumExp := floatutils.LogSumExp(logits...)
	probs := make([]float64, len(logits))
	for i, logit := range logits {
		probs[i] = math.Exp(logit - logSumExp)
	}
	dist := distuv.NewCategorical(probs, c.source)
	action := int(dist.Rand())

	logProb := logits[action] - logSumExp

	return mat.NewVecDense(1, []float64{float64(action)}), logProb, nil
}

// LogProbOf sets the policy's network inputs so that LogProbNode()
// computes the log probabilities of taking actions a in states s.
func (c *CategoricalMLP) LogProbOf(s, a []float64) (*G.Node, error) {
	if len(a) != c.batchForLogProb {
		return nil, fmt.Errorf("logprobof: invalid number of actions"+
			"\n\twant(%v)\n\thave(%v)", c.batchForLogProb, len(a))
	}
	if err := c.net.SetInput(s); err != nil {
		return nil, fmt.Errorf("logprobof: could not set network input: %v",
			err)
	}

	actionIndices := make([]float64, 0, c.numActions*c.batchForLogProb)
	for i := range a {
		row := make([]float64, c.numActions)
		row[int(a[i])] = 1.0
		actionIndices = append(actionIndices, row...)
	}
	actionIndicesTensor := tensor.NewDense(tensor.Float64,
		[]int{c.batchForLogProb, c.numActions},
		tensor.WithBacking(actionIndices),
	)
	if err := G.Let(c.actionIndices, actionIndicesTensor); err != nil {
		return nil, fmt.Errorf("logprobof: could not set action indices: %v",
			err)
	}

	return c.LogProbNode(), nil
}

// LogProbNode returns the node that computes the log probabilities of
// the actions inputted with LogProbOf
func (c *CategoricalMLP) LogProbNode() *G.Node {
	return c.logProbInputActions
}

// Network returns the neural network backing the policy
func (c *CategoricalMLP) Network() network.NeuralNet {
	return c.net
}

// NumActions returns the number of discrete actions the policy chooses
// between
func (c *CategoricalMLP) NumActions() int {
	return c.numActions
}

// CloneWithBatch returns a copy of the policy predicting batch
// observations at a time. The clone's weights are set to the policy's
// current weight values, but no state is shared afterwards.
func (c *CategoricalMLP) CloneWithBatch(batch int) (LogProber, error) {
	net, err := c.net.CloneWithBatch(batch)
	if err != nil {
		return nil, fmt.Errorf("clonewithbatch: %v", err)
	}

	return fromNetwork(net, c.numActions, batch, c.seed)
}

// Close cleans up the policy's VM resources
func (c *CategoricalMLP) Close() error {
	if c.vm == nil {
		return nil
	}
	return c.vm.Close()
}

// rawVector returns the backing data of a vector
func rawVector(v mat.Vector) []float64 {
	if dense, ok := v.(*mat.VecDense); ok {
		return dense.RawVector().Data
	}

	raw := make([]float64, v.Len())
	for i := range raw {
		raw[i] = v.AtVec(i)
	}
	return raw
}
