package vpg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/lucasgandara/govpg/environment"
	"github.com/lucasgandara/govpg/initwfn"
	"github.com/lucasgandara/govpg/network"
	"github.com/lucasgandara/govpg/policy"
	"github.com/lucasgandara/govpg/solver"
)

// Status describes what a Trainer is currently doing
type Status int

const (
	Initializing Status = iota
	Collecting
	Computing
	Updating
	Finished
)

// String implements the fmt.Stringer interface
func (s Status) String() string {
	switch s {
	case Initializing:
		return "Initializing"
	case Collecting:
		return "Collecting"
	case Computing:
		return "Computing"
	case Updating:
		return "Updating"
	case Finished:
		return "Finished"
	}
	return "Unknown"
}

// EpochLogger logs the metrics of a single training epoch. Update is
// called once per epoch and Close once when training ends, regardless
// of whether training ended normally or with an error.
type EpochLogger interface {
	Update(epoch int, loss, reward float64, steps int, advantages float64)
	Close() error
}

// Trainer runs the full VPG training loop on an environment. Each
// epoch collects a single full episode under the current policy,
// computes the advantage sequence selected by the configuration, and
// performs one policy-gradient update. The Trainer owns the policy,
// the optional value baseline, and the solver state.
//
// A Trainer is single-use: construct, call Train once, then read the
// trained policy and the per-epoch histories.
type Trainer struct {
	config  Config
	env     environment.Environment
	status  Status
	logger  EpochLogger
	updater *updater

	behaviour *policy.CategoricalMLP
	valueFn   *policy.ValueMLP

	// Per-epoch histories
	rewards       []float64
	losses        []float64
	advantageSums []float64
}

// NewTrainer validates the configuration and constructs a Trainer for
// the argument environment. The policy network and, when the
// configuration selects the baselined advantage expression, the value
// network are sized from the environment's specifications. The value
// network is read-only: it supplies baseline estimates but is never
// fitted. Configuration errors are reported here, before any
// environment interaction. A nil logger disables epoch logging.
func NewTrainer(env environment.Environment, config Config, seed uint64,
	logger EpochLogger) (*Trainer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("newtrainer: %v", err)
	}

	actionSpec := env.ActionSpec()
	if actionSpec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("newtrainer: %w: VPG acts in discrete "+
			"action spaces only", ErrInvalidArgument)
	}
	numActions := int(actionSpec.UpperBound.AtVec(0)) + 1
	features := env.ObservationSpec().Shape.Len()

	init, err := initwfn.NewGlorotN(math.Sqrt(2.0))
	if err != nil {
		return nil, fmt.Errorf("newtrainer: could not create weight "+
			"initializer: %v", err)
	}

	hiddenSizes := []int{config.HiddenLayerUnits}
	biases := []bool{true}
	activations := []*network.Activation{network.ReLU()}

	behaviour, err := policy.NewCategoricalMLP(features, numActions, 1,
		hiddenSizes, biases, activations, init.InitWFn(), seed)
	if err != nil {
		return nil, fmt.Errorf("newtrainer: could not create policy: %v", err)
	}

	var valueFn *policy.ValueMLP
	if config.AdvantageExpression.Baselined() {
		valueFn, err = policy.NewValueMLP(features, hiddenSizes, biases,
			activations, init.InitWFn())
		if err != nil {
			return nil, fmt.Errorf("newtrainer: could not create value "+
				"network: %v", err)
		}
	}

	sol, err := solver.NewDefaultAdam(config.LearningRate, 1)
	if err != nil {
		return nil, fmt.Errorf("newtrainer: could not create solver: %v", err)
	}

	return &Trainer{
		config:    config,
		env:       env,
		status:    Initializing,
		logger:    logger,
		updater:   newUpdater(behaviour, sol),
		behaviour: behaviour,
		valueFn:   valueFn,
	}, nil
}

// Train runs the training loop for the configured number of epochs.
// When an episode exceeds the configured step limit, the run ends
// after that epoch's update; this is a designed early stop, not an
// error. Any other failure aborts the run and is returned.
func (t *Trainer) Train() error {
	if t.logger != nil {
		defer t.logger.Close()
	}

	var valueFn policy.ValueFn
	if t.valueFn != nil {
		valueFn = t.valueFn
	}

	for epoch := 0; epoch < t.config.Epochs; epoch++ {
		t.status = Collecting
		traj, exceeded, err := Collect(t.env, t.behaviour, valueFn,
			t.config.StepLimit)
		if err != nil {
			return fmt.Errorf("train: epoch %v: %v", epoch, err)
		}

		t.status = Computing
		rewardsToGo := RewardsToGo(traj.Rewards, t.config.Gamma)
		advantages, err := Advantages(t.config.AdvantageExpression,
			traj.Rewards, rewardsToGo, traj.Values)
		if err != nil {
			return fmt.Errorf("train: epoch %v: %v", epoch, err)
		}

		t.status = Updating
		loss, err := t.updater.update(traj, advantages)
		if err != nil {
			return fmt.Errorf("train: epoch %v: %v", epoch, err)
		}

		epochReward := floats.Sum(traj.Rewards)
		advantageSum := floats.Sum(advantages)
		t.rewards = append(t.rewards, epochReward)
		t.losses = append(t.losses, loss)
		t.advantageSums = append(t.advantageSums, advantageSum)

		if t.logger != nil {
			t.logger.Update(epoch, loss, epochReward, traj.Steps(),
				advantageSum)
		}

		if exceeded {
			break
		}
	}

	t.status = Finished
	return nil
}

// Policy returns the policy being trained. After Train returns without
// error, this is the trained policy.
func (t *Trainer) Policy() *policy.CategoricalMLP {
	return t.behaviour
}

// Status returns what the Trainer is currently doing
func (t *Trainer) Status() Status {
	return t.status
}

// Rewards returns the total reward of each completed epoch's episode
func (t *Trainer) Rewards() []float64 {
	return t.rewards
}

// Losses returns the policy-gradient loss of each completed epoch
func (t *Trainer) Losses() []float64 {
	return t.losses
}

// SummedAdvantages returns the summed advantage of each completed
// epoch's episode
func (t *Trainer) SummedAdvantages() []float64 {
	return t.advantageSums
}
