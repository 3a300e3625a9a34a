package cartpole_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasgandara/govpg/environment/classiccontrol/cartpole"
	ts "github.com/lucasgandara/govpg/timestep"
)

// fixedStarter always starts episodes from the same state
type fixedStarter struct {
	state []float64
}

func (f fixedStarter) Start() mat.Vector {
	return mat.NewVecDense(len(f.state), f.state)
}

func newBalanceEnv(t *testing.T, episodeSteps int) *cartpole.Cartpole {
	starter := fixedStarter{[]float64{0, 0, 0.01, 0}}
	task := cartpole.NewBalance(starter, episodeSteps, cartpole.FailAngle)

	env, firstStep, err := cartpole.New(task, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if !firstStep.First() {
		t.Error("first timestep should have step type First")
	}
	return env
}

func TestCartpoleStep(t *testing.T) {
	env := newBalanceEnv(t, 100)

	step, done, err := env.Step(mat.NewVecDense(1, []float64{1}))
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("episode should not end on the first step")
	}

	if step.Observation.Len() != 4 {
		t.Errorf("got %v state features, want 4", step.Observation.Len())
	}
	if step.Number != 1 {
		t.Errorf("got step number %v, want 1", step.Number)
	}

	// Force to the right accelerates the cart to the right
	if step.Observation.AtVec(1) <= 0 {
		t.Errorf("cart speed should be positive, got %v",
			step.Observation.AtVec(1))
	}

	// The pole was balanced, so the reward is +1
	if step.Reward != 1.0 {
		t.Errorf("got reward %v, want 1", step.Reward)
	}
}

func TestCartpoleIllegalAction(t *testing.T) {
	env := newBalanceEnv(t, 100)

	if _, _, err := env.Step(mat.NewVecDense(1, []float64{7})); err == nil {
		t.Error("illegal actions should result in an error")
	}
	if _, _, err := env.Step(mat.NewVecDense(1, []float64{-1})); err == nil {
		t.Error("illegal actions should result in an error")
	}
}

func TestCartpoleEpisodeEndsOnFall(t *testing.T) {
	env := newBalanceEnv(t, 10_000)

	// Pushing the cart left forever topples the pole
	action := mat.NewVecDense(1, []float64{0})
	var step ts.TimeStep
	var done bool
	var err error

	for i := 0; i < 1000; i++ {
		step, done, err = env.Step(action)
		if err != nil {
			t.Fatal(err)
		}
		if done {
			break
		}
	}

	if !done {
		t.Fatal("the pole should have fallen")
	}
	if !step.TerminalEnd() {
		t.Error("falling should end the episode in a terminal state")
	}
	if math.Abs(step.Observation.AtVec(2)) < cartpole.FailAngle {
		t.Errorf("episode ended with the pole balanced at angle %v",
			step.Observation.AtVec(2))
	}
	if step.Reward != -1.0 {
		t.Errorf("got reward %v on the failing step, want -1", step.Reward)
	}
}

func TestCartpoleEpisodeEndsOnStepLimit(t *testing.T) {
	env := newBalanceEnv(t, 3)

	// Alternate directions so the pole stays near upright
	var done bool
	var step ts.TimeStep
	var err error
	for i := 0; i < 3; i++ {
		step, done, err = env.Step(mat.NewVecDense(1,
			[]float64{float64(i % 2)}))
		if err != nil {
			t.Fatal(err)
		}
	}

	if !done {
		t.Error("episode should end at the step limit")
	}
	if step.TerminalEnd() {
		t.Error("a step limit cutoff is not a terminal state")
	}
}

func TestCartpoleReset(t *testing.T) {
	env := newBalanceEnv(t, 100)

	if _, _, err := env.Step(mat.NewVecDense(1, []float64{1})); err != nil {
		t.Fatal(err)
	}

	step := env.Reset()
	if !step.First() {
		t.Error("reset should return a First timestep")
	}
	if step.Number != 0 {
		t.Errorf("got step number %v after reset, want 0", step.Number)
	}
	if step.Observation.AtVec(2) != 0.01 {
		t.Errorf("got angle %v after reset, want the starter's 0.01",
			step.Observation.AtVec(2))
	}
}
