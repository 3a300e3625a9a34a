package solver

import G "gorgonia.org/gorgonia"

// AdamConfig holds the hyperparameters of an Adam solver
type AdamConfig struct {
	StepSize float64
	Epsilon  float64
	Beta1    float64
	Beta2    float64
	Batch    int
}

// NewDefaultAdam returns an Adam Solver with the argument step size and
// batch size and the usual defaults for the remaining hyperparameters:
// epsilon 1e-8, beta1 0.9, beta2 0.999. This is the solver the policy
// update step uses.
func NewDefaultAdam(stepSize float64, batchSize int) (*Solver, error) {
	return NewAdam(stepSize, 1e-8, 0.9, 0.999, batchSize)
}

// NewAdam returns an Adam Solver with every hyperparameter given
// explicitly
func NewAdam(stepSize, epsilon, beta1, beta2 float64, batchSize int) (*Solver,
	error) {
	adam := AdamConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Beta1:    beta1,
		Beta2:    beta2,
		Batch:    batchSize,
	}

	return newSolver(Adam, adam)
}

// Create builds the Gorgonia Adam solver the config describes
func (a AdamConfig) Create() G.Solver {
	return G.NewAdamSolver(
		G.WithLearnRate(a.StepSize),
		G.WithEps(a.Epsilon),
		G.WithBeta1(a.Beta1),
		G.WithBeta2(a.Beta2),
		G.WithBatchSize(float64(a.Batch)),
	)
}

// ValidType returns whether a Solver of type t can be built from the
// config
func (a AdamConfig) ValidType(t Type) bool {
	return t == Adam
}
