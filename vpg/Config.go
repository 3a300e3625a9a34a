package vpg

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default hyperparameter values
const (
	DefaultEpochs           int     = 50
	DefaultLearningRate     float64 = 0.001
	DefaultHiddenLayerUnits int     = 64
	DefaultGamma            float64 = 0.99

	// DefaultStepLimit is the default safety bound on per-epoch
	// episode length. It is a caller-level safeguard, not part of the
	// trajectory collection contract.
	DefaultStepLimit int = 5000
)

// Config holds the hyperparameters of a VPG training run. A Config is
// immutable once constructed and, together with a random seed, fully
// determines the reproducibility of a run. Configs are JSON
// serializable so that runs can be reconstructed from saved
// experiments.
type Config struct {
	// Epochs is the number of epochs to train for. One trajectory is
	// collected and one policy update performed per epoch.
	Epochs int

	// LearningRate is the step size of the Adam update
	LearningRate float64

	// HiddenLayerUnits is the number of units in the policy network's
	// hidden layer
	HiddenLayerUnits int

	// AdvantageExpression selects the advantage formulation
	AdvantageExpression AdvantageExpression

	// Gamma is the discount factor of the rewards-to-go
	Gamma float64

	// StepLimit bounds the length of a single episode. When an
	// episode exceeds the limit the run ends early; this is a
	// designed early-stop guard, not an error. A value <= 0 disables
	// the guard.
	StepLimit int
}

// NewConfig returns a Config with default hyperparameter values
func NewConfig() Config {
	return Config{
		Epochs:              DefaultEpochs,
		LearningRate:        DefaultLearningRate,
		HiddenLayerUnits:    DefaultHiddenLayerUnits,
		AdvantageExpression: RewardToGo,
		Gamma:               DefaultGamma,
		StepLimit:           DefaultStepLimit,
	}
}

// Validate returns an error describing whether or not the
// configuration is valid. Validation happens eagerly, before any
// environment interaction begins.
func (c Config) Validate() error {
	if c.Epochs < 1 {
		return fmt.Errorf("validate: %w: epochs must be at least 1, "+
			"got %v", ErrInvalidArgument, c.Epochs)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: %w: learning rate must be positive, "+
			"got %v", ErrInvalidArgument, c.LearningRate)
	}
	if c.HiddenLayerUnits < 1 {
		return fmt.Errorf("validate: %w: hidden layer units must be at "+
			"least 1, got %v", ErrInvalidArgument, c.HiddenLayerUnits)
	}
	if err := c.AdvantageExpression.Validate(); err != nil {
		return err
	}
	if c.Gamma <= 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: %w: gamma must be in (0, 1], got %v",
			ErrInvalidArgument, c.Gamma)
	}
	return nil
}

// LoadConfig loads a Config from a JSON file
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadconfig: could not read config "+
			"file: %v", err)
	}

	config := NewConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("loadconfig: could not unmarshal "+
			"config: %v", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
