package vpg_test

import (
	"errors"
	"math"
	"testing"

	"github.com/lucasgandara/govpg/vpg"
)

const tolerance float64 = 1e-10

// equalApprox returns whether two float slices are elementwise equal
// to within tolerance
func equalApprox(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

func TestRewardsToGo(t *testing.T) {
	tests := []struct {
		rewards []float64
		gamma   float64
		want    []float64
	}{
		{[]float64{1, 1, 1}, 0.99, []float64{2.9701, 1.99, 1.0}},
		{[]float64{5}, 0.5, []float64{5}},
		{[]float64{1, 2, 3}, 1.0, []float64{6, 5, 3}},
		{[]float64{2, -1, 4}, 0.5, []float64{2.5, 1.0, 4.0}},
	}

	for i, test := range tests {
		got := vpg.RewardsToGo(test.rewards, test.gamma)
		if !equalApprox(got, test.want) {
			t.Errorf("test %v: got %v, want %v", i, got, test.want)
		}
	}
}

func TestRewardsToGoEmpty(t *testing.T) {
	got := vpg.RewardsToGo([]float64{}, 0.99)
	if len(got) != 0 {
		t.Errorf("rewards-to-go of an empty episode should be empty, "+
			"got %v", got)
	}
}

func TestRewardsToGoDoesNotModifyInput(t *testing.T) {
	rewards := []float64{1, 2, 3}
	vpg.RewardsToGo(rewards, 0.99)

	if !equalApprox(rewards, []float64{1, 2, 3}) {
		t.Errorf("input rewards were modified: %v", rewards)
	}
}

func TestAdvantagesTotalReward(t *testing.T) {
	rewards := []float64{1, 1, 1}
	rewardsToGo := vpg.RewardsToGo(rewards, 0.99)

	got, err := vpg.Advantages(vpg.TotalReward, rewards, rewardsToGo, nil)
	if err != nil {
		t.Fatal(err)
	}

	// The total reward expression uses the per-step rewards directly
	if !equalApprox(got, rewards) {
		t.Errorf("got %v, want %v", got, rewards)
	}
}

func TestAdvantagesRewardToGo(t *testing.T) {
	rewards := []float64{1, 1, 1}
	rewardsToGo := vpg.RewardsToGo(rewards, 0.99)

	got, err := vpg.Advantages(vpg.RewardToGo, rewards, rewardsToGo, nil)
	if err != nil {
		t.Fatal(err)
	}

	if !equalApprox(got, []float64{2.9701, 1.99, 1.0}) {
		t.Errorf("got %v, want %v", got, []float64{2.9701, 1.99, 1.0})
	}
}

func TestAdvantagesBaselined(t *testing.T) {
	rewards := []float64{1, 1, 1}
	rewardsToGo := vpg.RewardsToGo(rewards, 0.99)
	values := []float64{0.5, 0.5, 0.5}

	got, err := vpg.Advantages(vpg.RewardToGoBaselined, rewards, rewardsToGo,
		values)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{2.4701, 1.49, 0.5}
	if !equalApprox(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAdvantagesBaselinedShapeMismatch(t *testing.T) {
	rewards := []float64{1, 1, 1}
	rewardsToGo := vpg.RewardsToGo(rewards, 0.99)
	values := []float64{0.5, 0.5}

	_, err := vpg.Advantages(vpg.RewardToGoBaselined, rewards, rewardsToGo,
		values)
	if !errors.Is(err, vpg.ErrShapeMismatch) {
		t.Errorf("expected a shape mismatch error, got %v", err)
	}
}

func TestAdvantagesUnknownExpression(t *testing.T) {
	_, err := vpg.Advantages(vpg.AdvantageExpression("no-such-expression"),
		[]float64{1}, []float64{1}, nil)
	if !errors.Is(err, vpg.ErrInvalidArgument) {
		t.Errorf("expected an invalid argument error, got %v", err)
	}
}
