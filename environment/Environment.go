// Package environment outlines the interfaces and structs needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/lucasgandara/govpg/timestep"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines when episodes end. Enders modify the StepType of a
// TimeStep to timestep.Last when the episode should end.
type Ender interface {
	// End takes the next timestep in the environment and modifies it
	// in-place if the episode has ended, returning whether the episode
	// ended
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some environment
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for taking action a in state,
	// transitioning the environment to nextState
	GetReward(state mat.Vector, a mat.Vector, nextState mat.Vector) float64

	// RewardSpec returns the range of rewards the task emits
	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a Task to
// complete.
//
// Step returns the next timestep, whether that timestep is the last in
// the episode, and any error the environment surfaced while stepping.
// Errors are always propagated to the caller unchanged.
type Environment interface {
	Starter
	Reset() timestep.TimeStep
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)
	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
