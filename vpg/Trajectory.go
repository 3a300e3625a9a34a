// Package vpg implements the Vanilla Policy Gradient or REINFORCE
// algorithm with interchangeable advantage estimators.
//
// Adapted from https://spinningup.openai.com/en/latest/algorithms/vpg.html
package vpg

import (
	"errors"
	"fmt"
)

// Errors that the vpg package surfaces. All of them abort the current
// run; none are caught and suppressed inside the package.
var (
	// ErrInvalidArgument denotes a hyperparameter or advantage
	// expression outside its legal range
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrShapeMismatch denotes trajectory sequences of unequal length
	// reaching the advantage or update stage
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Trajectory holds one episode's experience. Observations are stored
// in row major order, one row of Features values per step. Rewards,
// Actions, and LogProbs are aligned 1:1 in time order. LogProbs holds
// the log-probability the policy assigned to the action actually taken
// at each step, detached from the computation graph; the update step
// recomputes graph-attached log probabilities from Observations and
// Actions. Values holds value function estimates aligned with Rewards
// and is nil unless a baseline was used during collection.
//
// A Trajectory is created fresh at the start of each collection call,
// fully populated when collection terminates, and consumed immediately
// by the advantage and update stages.
type Trajectory struct {
	Observations []float64
	Actions      []float64
	Rewards      []float64
	LogProbs     []float64
	Values       []float64
	Features     int
}

// Steps returns the number of environment steps in the trajectory
func (t *Trajectory) Steps() int {
	return len(t.Rewards)
}

// check verifies the trajectory's length invariant
func (t *Trajectory) check() error {
	n := len(t.Rewards)
	if len(t.LogProbs) != n || len(t.Actions) != n ||
		len(t.Observations) != n*t.Features {
		return fmt.Errorf("trajectory: %w: rewards(%v), logProbs(%v), "+
			"actions(%v)", ErrShapeMismatch, n, len(t.LogProbs),
			len(t.Actions))
	}
	if t.Values != nil && len(t.Values) != n {
		return fmt.Errorf("trajectory: %w: rewards(%v), values(%v)",
			ErrShapeMismatch, n, len(t.Values))
	}
	return nil
}
