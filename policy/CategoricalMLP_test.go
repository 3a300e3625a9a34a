package policy_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/lucasgandara/govpg/initwfn"
	"github.com/lucasgandara/govpg/network"
	"github.com/lucasgandara/govpg/policy"
)

func newTestPolicy(t *testing.T, batch int) *policy.CategoricalMLP {
	init, err := initwfn.NewGlorotN(math.Sqrt(2.0))
	if err != nil {
		t.Fatal(err)
	}

	p, err := policy.NewCategoricalMLP(3, 2, batch, []int{5}, []bool{true},
		[]*network.Activation{network.ReLU()}, init.InitWFn(), 42)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCategoricalMLPSelectAction(t *testing.T) {
	p := newTestPolicy(t, 1)
	obs := mat.NewVecDense(3, []float64{0.1, -0.2, 0.3})

	for i := 0; i < 25; i++ {
		action, logProb, err := p.SelectAction(obs)
		if err != nil {
			t.Fatal(err)
		}

		a := int(action.AtVec(0))
		if a < 0 || a > 1 {
			t.Errorf("sampled illegal action %v", a)
		}

		// Log probabilities of a categorical distribution are
		// nonpositive and finite
		if logProb > 0 || math.IsNaN(logProb) || math.IsInf(logProb, 0) {
			t.Errorf("got log probability %v", logProb)
		}
	}
}

func TestCategoricalMLPSamplesAllActions(t *testing.T) {
	p := newTestPolicy(t, 1)
	obs := mat.NewVecDense(3, []float64{0.0, 0.0, 0.0})

	// A freshly initialized policy is near uniform, so both actions
	// should appear within a reasonable number of samples
	seen := make(map[int]bool)
	for i := 0; i < 500 && len(seen) < 2; i++ {
		action, _, err := p.SelectAction(obs)
		if err != nil {
			t.Fatal(err)
		}
		seen[int(action.AtVec(0))] = true
	}

	if len(seen) != 2 {
		t.Errorf("policy only ever sampled actions %v", seen)
	}
}

func TestCategoricalMLPCloneWithBatch(t *testing.T) {
	p := newTestPolicy(t, 1)

	clone, err := p.CloneWithBatch(7)
	if err != nil {
		t.Fatal(err)
	}

	if clone.Network().BatchSize() != 7 {
		t.Errorf("got batch size %v, want 7", clone.Network().BatchSize())
	}
	if clone.Network().Graph() == p.Network().Graph() {
		t.Error("clone should live on its own graph")
	}
}

func TestValueMLP(t *testing.T) {
	init, err := initwfn.NewGlorotN(math.Sqrt(2.0))
	if err != nil {
		t.Fatal(err)
	}

	v, err := policy.NewValueMLP(3, []int{5}, []bool{true},
		[]*network.Activation{network.ReLU()}, init.InitWFn())
	if err != nil {
		t.Fatal(err)
	}

	obs := mat.NewVecDense(3, []float64{0.1, -0.2, 0.3})
	value, err := v.Value(obs)
	if err != nil {
		t.Fatal(err)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		t.Errorf("got value estimate %v", value)
	}

	// Value estimates are deterministic
	again, err := v.Value(obs)
	if err != nil {
		t.Fatal(err)
	}
	if value != again {
		t.Errorf("value estimates differ: %v and %v", value, again)
	}
}
