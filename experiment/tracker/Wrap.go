package tracker

import (
	"gonum.org/v1/gonum/mat"

	env "github.com/lucasgandara/govpg/environment"
	ts "github.com/lucasgandara/govpg/timestep"
)

// trackedEnvironment wraps an Environment so that every TimeStep the
// environment produces is sent to a set of Trackers. The wrapped
// environment's behaviour is otherwise unmodified.
type trackedEnvironment struct {
	env.Environment
	trackers []Tracker
}

// Wrap returns an Environment that sends every TimeStep produced by
// the argument environment to the argument Trackers
func Wrap(e env.Environment, trackers ...Tracker) env.Environment {
	return &trackedEnvironment{e, trackers}
}

// Reset resets the wrapped environment and tracks the first timestep
func (t *trackedEnvironment) Reset() ts.TimeStep {
	step := t.Environment.Reset()
	for _, tracker := range t.trackers {
		tracker.Track(step)
	}
	return step
}

// Step steps the wrapped environment and tracks the produced timestep
func (t *trackedEnvironment) Step(action *mat.VecDense) (ts.TimeStep, bool,
	error) {
	step, last, err := t.Environment.Step(action)
	if err != nil {
		return step, last, err
	}
	for _, tracker := range t.trackers {
		tracker.Track(step)
	}
	return step, last, nil
}
