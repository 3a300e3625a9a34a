package solver

import G "gorgonia.org/gorgonia"

// VanillaConfig holds the hyperparameters of a plain gradient descent
// solver. A Clip <= 0 disables gradient clipping.
type VanillaConfig struct {
	StepSize float64
	Batch    int
	Clip     float64
}

// NewVanilla returns a plain gradient descent Solver, clipping
// gradients to within (-clip, clip) when clip is positive
func NewVanilla(stepSize float64, batchSize int,
	clip float64) (*Solver, error) {
	vanilla := VanillaConfig{
		StepSize: stepSize,
		Batch:    batchSize,
		Clip:     clip,
	}

	return newSolver(Vanilla, vanilla)
}

// Create builds the Gorgonia vanilla solver the config describes
func (v VanillaConfig) Create() G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(v.StepSize),
		G.WithBatchSize(float64(v.Batch)),
	}
	if v.Clip > 0 {
		opts = append(opts, G.WithClip(v.Clip))
	}

	return G.NewVanillaSolver(opts...)
}

// ValidType returns whether a Solver of type t can be built from the
// config
func (v VanillaConfig) ValidType(t Type) bool {
	return t == Vanilla
}
