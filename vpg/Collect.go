package vpg

import (
	"fmt"

	"github.com/lucasgandara/govpg/environment"
	"github.com/lucasgandara/govpg/policy"
)

// Collect runs one full episode of env under the argument policy and
// returns the recorded Trajectory. At every step the current
// observation is fed through the policy, an action is sampled from the
// resulting categorical distribution, the log-probability of the
// sampled action is recorded, and the environment is stepped with the
// action. Collection terminates exactly when the environment signals
// episode completion.
//
// When valueFn is non-nil, a value estimate is recorded for every
// observation so that the baselined advantage expression can be
// computed later.
//
// stepLimit bounds the episode length. It is a caller-level safeguard
// rather than part of the collection contract; a value <= 0 disables
// it. When the limit is exceeded, Collect returns the trajectory
// recorded so far with exceeded set to true. This is a designed
// early stop, not an error.
//
// Collect reads the policy's weights but never updates them. Any
// error surfaced by the environment or the policy is propagated
// unchanged; Collect performs no retries.
func Collect(env environment.Environment, p policy.Policy,
	valueFn policy.ValueFn, stepLimit int) (traj *Trajectory,
	exceeded bool, err error) {
	step := env.Reset()
	features := step.Observation.Len()

	traj = &Trajectory{Features: features}
	if valueFn != nil {
		traj.Values = make([]float64, 0)
	}

	for {
		obs := step.Observation

		action, logProb, err := p.SelectAction(obs)
		if err != nil {
			return nil, false, fmt.Errorf("collect: could not select "+
				"action: %v", err)
		}

		if valueFn != nil {
			value, err := valueFn.Value(obs)
			if err != nil {
				return nil, false, fmt.Errorf("collect: could not estimate "+
					"state value: %v", err)
			}
			traj.Values = append(traj.Values, value)
		}

		next, last, err := env.Step(action)
		if err != nil {
			return nil, false, err
		}

		for i := 0; i < features; i++ {
			traj.Observations = append(traj.Observations, obs.AtVec(i))
		}
		traj.Actions = append(traj.Actions, action.AtVec(0))
		traj.LogProbs = append(traj.LogProbs, logProb)
		traj.Rewards = append(traj.Rewards, next.Reward)

		step = next
		if last {
			break
		}
		if stepLimit > 0 && traj.Steps() >= stepLimit {
			return traj, true, nil
		}
	}

	return traj, false, nil
}
