package vpg

import (
	"fmt"
	"math"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/lucasgandara/govpg/network"
	"github.com/lucasgandara/govpg/policy"
	"github.com/lucasgandara/govpg/solver"
)

// updater performs the policy-gradient update step. For a trajectory
// of T steps it rebuilds the training side of the computation: the
// behaviour policy is cloned with a batch size of T, the cloned graph
// computes the log probabilities of the stored state-action pairs, and
// the loss
//
//	loss = -mean(logProb * advantage)
//
// is minimized with one solver step. The advantages enter the graph
// through an input node and are therefore constants of the
// computation: gradient flows only through the log-probability term.
// This is the only point at which the policy's weights are mutated.
type updater struct {
	behaviour *policy.CategoricalMLP
	solver    *solver.Solver
}

// newUpdater returns a new updater that mutates the argument policy
// in place on every call to update
func newUpdater(behaviour *policy.CategoricalMLP,
	sol *solver.Solver) *updater {
	return &updater{behaviour: behaviour, solver: sol}
}

// update performs one policy-gradient step on the trajectory with the
// argument advantage sequence and returns the scalar loss. The
// gradients of the previous epoch never survive into the next: the
// tape is rebuilt from scratch on every call.
func (u *updater) update(traj *Trajectory, advantages []float64) (float64,
	error) {
	if len(advantages) != len(traj.LogProbs) {
		return 0, fmt.Errorf("update: %w: logProbs(%v), advantages(%v)",
			ErrShapeMismatch, len(traj.LogProbs), len(advantages))
	}
	if err := traj.check(); err != nil {
		return 0, fmt.Errorf("update: %v", err)
	}
	steps := traj.Steps()
	if steps == 0 {
		return 0, fmt.Errorf("update: %w: cannot update policy on an "+
			"empty trajectory", ErrInvalidArgument)
	}

	train, err := u.behaviour.CloneWithBatch(steps)
	if err != nil {
		return 0, fmt.Errorf("update: could not clone training policy: %v",
			err)
	}
	g := train.Network().Graph()

	advantageNode := G.NewVector(
		g,
		tensor.Float64,
		G.WithShape(steps),
		G.WithName("advantages"),
	)

	loss := G.Must(G.HadamardProd(train.LogProbNode(), advantageNode))
	loss = G.Must(G.Mean(loss))
	loss = G.Must(G.Neg(loss))

	var lossVal G.Value
	G.Read(loss, &lossVal)

	if _, err := G.Grad(loss, train.Network().Learnables()...); err != nil {
		return 0, fmt.Errorf("update: could not construct gradient: %v", err)
	}

	vm := G.NewTapeMachine(g,
		G.BindDualValues(train.Network().Learnables()...))
	defer vm.Close()

	if _, err := train.LogProbOf(traj.Observations, traj.Actions); err != nil {
		return 0, fmt.Errorf("update: could not compute log "+
			"probabilities: %v", err)
	}

	advantagesTensor := tensor.NewDense(
		tensor.Float64,
		advantageNode.Shape(),
		tensor.WithBacking(advantages),
	)
	if err := G.Let(advantageNode, advantagesTensor); err != nil {
		return 0, fmt.Errorf("update: could not set advantages: %v", err)
	}

	if err := vm.RunAll(); err != nil {
		return 0, fmt.Errorf("update: could not run training graph: %v", err)
	}
	if err := u.solver.Step(train.Network().Model()); err != nil {
		return 0, fmt.Errorf("update: could not step solver: %v", err)
	}
	vm.Reset()

	// Copy the updated weights back into the behaviour policy
	if err := network.Set(u.behaviour.Network(), train.Network()); err != nil {
		return 0, fmt.Errorf("update: could not update behaviour policy: %v",
			err)
	}

	lossScalar := lossVal.Data().(float64)
	if math.IsNaN(lossScalar) || math.IsInf(lossScalar, 0) {
		return lossScalar, fmt.Errorf("update: loss diverged: %v", lossScalar)
	}
	return lossScalar, nil
}
