package easy21

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Environment is the game the agent trains against. It supplies states
// within the tabular bounds, scalar rewards, and a terminal flag.
type Environment interface {
	// Reset starts a new episode and returns its initial state.
	Reset() State
	// Step applies the given action and returns the resulting state,
	// the reward for the transition, and whether the episode ended.
	Step(action Action) (State, float32, bool)
}

// Trainer drives a TDAgent against an Environment, one episode at a time,
// following the agent's observe-and-act contract: each step's reward is
// delivered together with the next observation, and the terminal call
// carries the final reward and produces no action.
type Trainer struct {
	Agent *TDAgent
	Env   Environment

	// CheckpointEvery is the number of episodes between Checkpoint
	// callbacks. Zero disables checkpointing.
	CheckpointEvery int
	// Checkpoint, if set, is invoked with the number of episodes
	// completed so far. A checkpoint error aborts the run.
	Checkpoint func(episode int, agent *TDAgent) error
}

// Stats summarizes a training run.
type Stats struct {
	Episodes            int
	Wins, Draws, Losses int
	// MeanReward is the mean per-episode return over the whole run.
	MeanReward float32
}

// Run trains for the given number of episodes.
func (t *Trainer) Run(episodes int) (Stats, error) {
	var stats Stats
	var total float32
	for i := 1; i <= episodes; i++ {
		ret, err := t.runEpisode()
		if err != nil {
			return stats, errors.Wrapf(err, "episode %d", i)
		}

		total += ret
		stats.Episodes++
		switch {
		case ret > 0:
			stats.Wins++
		case ret < 0:
			stats.Losses++
		default:
			stats.Draws++
		}

		if t.CheckpointEvery > 0 && i%t.CheckpointEvery == 0 && t.Checkpoint != nil {
			if err := t.Checkpoint(i, t.Agent); err != nil {
				return stats, errors.Wrapf(err, "checkpoint at episode %d", i)
			}
		}

		if episodes/10 > 0 && i%(episodes/10) == 0 {
			glog.V(1).Infof("[episode=%d] Mean reward: %.4f", i, total/float32(i))
		}
	}

	if stats.Episodes > 0 {
		stats.MeanReward = total / float32(stats.Episodes)
	}

	return stats, nil
}

// runEpisode plays one episode to termination and returns its total reward.
func (t *Trainer) runEpisode() (float32, error) {
	state := t.Env.Reset()
	var reward *float32
	var total float32
	for {
		action, err := t.Agent.ObserveAndAct(state, reward, false)
		if err != nil {
			return total, err
		}

		next, r, done := t.Env.Step(action)
		total += r
		reward = &r

		if done {
			_, err := t.Agent.ObserveAndAct(next, reward, true)
			return total, err
		}

		state = next
	}
}

// EvalGreedy plays the given number of episodes greedily (no exploration,
// no learning) and returns the mean per-episode reward.
func EvalGreedy(agent *TDAgent, env Environment, episodes int) (float32, error) {
	if episodes <= 0 {
		return 0, nil
	}

	var total float32
	for i := 0; i < episodes; i++ {
		state := env.Reset()
		for {
			action, err := agent.TakeAction(state, false)
			if err != nil {
				return 0, errors.Wrapf(err, "eval episode %d", i)
			}

			next, r, done := env.Step(action)
			total += r
			if done {
				break
			}

			state = next
		}
	}

	return total / float32(episodes), nil
}
