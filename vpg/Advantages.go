package vpg

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// AdvantageExpression selects the advantage formulation used as the
// per-step learning signal of the policy-gradient loss
type AdvantageExpression string

// Available advantage expressions
const (
	// TotalReward uses the raw per-step reward sequence as the
	// advantage. Despite the name it is not the episodic total
	// broadcast to every step; the name is kept for compatibility
	// with existing experiment configs.
	TotalReward AdvantageExpression = "total_reward"

	// RewardToGo uses the discounted rewards-to-go as the advantage
	RewardToGo AdvantageExpression = "reward_to_go"

	// RewardToGoBaselined subtracts a value function baseline from
	// the discounted rewards-to-go
	RewardToGoBaselined AdvantageExpression = "reward_to_go_baselined"
)

// Validate returns an error if the expression is not one of the
// recognized advantage expressions
func (a AdvantageExpression) Validate() error {
	switch a {
	case TotalReward, RewardToGo, RewardToGoBaselined:
		return nil
	}
	return fmt.Errorf("validate: %w: unknown advantage expression %q",
		ErrInvalidArgument, string(a))
}

// Baselined returns whether the expression needs a value function
// baseline during trajectory collection
func (a AdvantageExpression) Baselined() bool {
	return a == RewardToGoBaselined
}

// RewardsToGo converts one episode's reward sequence into the
// discounted reward-to-go sequence
//
//	G_t = r_t + gamma*G_{t+1},  G_{T-1} = r_{T-1}
//
// with no bootstrapping beyond the episode. A single backward pass
// over the rewards. An empty reward sequence yields an empty result.
func RewardsToGo(rewards []float64, gamma float64) []float64 {
	rewardsToGo := make([]float64, len(rewards))

	running := 0.0
	for i := len(rewards) - 1; i >= 0; i-- {
		running = rewards[i] + gamma*running
		rewardsToGo[i] = running
	}
	return rewardsToGo
}

// Advantages computes the advantage sequence for a trajectory under
// the argument advantage expression. The rewards and rewardsToGo
// sequences are those of the trajectory; values holds the value
// function baseline and is only consulted by the baselined
// expression. Advantages is a pure function: it is deterministic and
// has no side effects.
func Advantages(expression AdvantageExpression, rewards, rewardsToGo,
	values []float64) ([]float64, error) {
	switch expression {
	case TotalReward:
		return rewards, nil

	case RewardToGo:
		return rewardsToGo, nil

	case RewardToGoBaselined:
		if len(values) != len(rewardsToGo) {
			return nil, fmt.Errorf("advantages: %w: rewardsToGo(%v), "+
				"values(%v)", ErrShapeMismatch, len(rewardsToGo), len(values))
		}
		advantages := make([]float64, len(rewardsToGo))
		floats.SubTo(advantages, rewardsToGo, values)
		return advantages, nil
	}

	return nil, fmt.Errorf("advantages: %w: unknown advantage expression %q",
		ErrInvalidArgument, string(expression))
}
