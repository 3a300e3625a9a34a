package cartpole

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/lucasgandara/govpg/environment"
	ts "github.com/lucasgandara/govpg/timestep"
)

const (
	// FailAngle is the default pole angle beyond which a Balance
	// episode fails
	FailAngle float64 = 12 * 2 * math.Pi / 360
)

// Balance implements the classic control Cartpole Balance task. The
// goal of the agent is to balance the pole on the cart in an upright
// position for as long as possible.
//
// The reward is +1 on every timestep on which the pole is above the
// fail angle and -1 on the timestep the pole falls below it.
//
// Episodes end after a step limit or after the pole has fallen below
// the fail angle. The cart's position is clipped to the legal range by
// the environment, so leaving the track never ends an episode.
type Balance struct {
	env.Starter
	stepLimiter  env.Ender
	angleLimiter env.Ender
	failAngle    float64
}

// NewBalance creates and returns a new Balance task. Episodes end in
// failure when the pole angle leaves (-failAngle, failAngle) and end
// with a timeout after episodeSteps steps.
func NewBalance(s env.Starter, episodeSteps int, failAngle float64) *Balance {
	stepLimiter := env.NewStepLimit(episodeSteps)

	legalAngles := []r1.Interval{{Min: -failAngle, Max: failAngle}}
	angleFeatureIndex := []int{2}
	angleLimiter := env.NewIntervalLimit(legalAngles, angleFeatureIndex,
		ts.TerminalStateReached)

	return &Balance{s, stepLimiter, angleLimiter, failAngle}
}

// End checks if a TimeStep is the last in an episode. If so, it
// adjusts the TimeStep's StepType to timestep.Last and returns true.
// Otherwise, the TimeStep is left unmodified and false is returned.
func (b *Balance) End(t *ts.TimeStep) bool {
	if end := b.angleLimiter.End(t); end {
		return true
	}
	if end := b.stepLimiter.End(t); end {
		return true
	}
	return false
}

// GetReward returns the reward for an action taken in some state,
// resulting in a transition to the next state nextState
func (b *Balance) GetReward(_ mat.Vector, _ mat.Vector,
	nextState mat.Vector) float64 {
	angle := math.Abs(nextState.AtVec(2))

	// An angle of 0 is pointing straight up
	if angle < b.failAngle {
		return 1.0
	}
	return -1.0
}

// Min returns the minimum possible reward of the task
func (b *Balance) Min() float64 {
	return -1.0
}

// Max returns the maximum possible reward of the task
func (b *Balance) Max() float64 {
	return 1.0
}

// RewardSpec returns the reward specification of the task
func (b *Balance) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{b.Min()})
	upperBound := mat.NewVecDense(1, []float64{b.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}
