// Package easy21 implements a tabular temporal-difference learning agent
// for the Easy21 card game, together with the training loop that drives it.
//
// The agent learns state-action values with one-step TD updates delayed by
// one transition: each call that delivers a reward updates the previous
// transition, bootstrapping off the current one, except at episode
// termination where the final transition is finalized against the terminal
// reward alone.
package easy21

import (
	"github.com/pkg/errors"

	"github.com/easy21-rl/go-easy21/internal/f32"
)

// Caller-contract violations. Both are fail-fast: the agent never
// recovers or auto-corrects a bad call sequence.
var (
	// ErrStateOutOfRange indicates a state outside the tabular bounds
	// ([0, MaxDealer] x [0, MaxPlayer]).
	ErrStateOutOfRange = errors.New("easy21: state out of range")

	// ErrInvalidCallSequence indicates a reward was delivered with no
	// recorded transition to apply it to.
	ErrInvalidCallSequence = errors.New("easy21: invalid call sequence")
)

// TDAgent is a tabular TD(0) agent with epsilon-greedy exploration.
//
// It maintains dense action-value (Q) and visit-count (N) tables over the
// full state space, and a two-step lookback window used to perform the
// one-step-delayed bootstrapped update. Q and N persist across episodes;
// the window is reset at each episode termination.
//
// TDAgent is not safe for concurrent use. Callers must serialize all
// calls on a given agent.
type TDAgent struct {
	space  *ActionSpace
	params Params

	values *table
	visits *table
	window stepWindow
}

// NewTDAgent creates an agent over the given action set.
func NewTDAgent(actions []Action, params Params) (*TDAgent, error) {
	space, err := NewActionSpace(actions)
	if err != nil {
		return nil, err
	}

	return &TDAgent{
		space:  space,
		params: params.withDefaults(),
		values: newTable(space.Len()),
		visits: newTable(space.Len()),
	}, nil
}

// TakeAction selects an action for the given state without recording it.
//
// When explore is true, a uniformly random action is returned with
// probability N0 / (N0 + total visits to state); otherwise the action
// maximizing Q[state, a] is returned, ties broken by lowest action id.
// Visit counts are not incremented here; only the update step counts.
func (a *TDAgent) TakeAction(state State, explore bool) (Action, error) {
	if !state.valid() {
		return "", errors.Wrapf(ErrStateOutOfRange, "take action in state %+v", state)
	}

	if explore && a.params.Rand.Float32() < a.epsilon(state) {
		return a.space.Action(a.params.Rand.Intn(a.space.Len())), nil
	}

	return a.space.Action(f32.Argmax(a.values.row(state))), nil
}

// ObserveAndAct is the single entry point the training loop calls once per
// decision or observation point.
//
// Unless terminating, it selects an exploring action for state, records
// the (state, action) pair, and returns the action. If reward is non-nil
// it is queued and one update is performed, consuming the oldest pending
// reward. If terminate is true the lookback window is cleared after any
// update and the empty Action is returned; no action is ever produced on
// termination. A call with neither a reward nor terminate records the new
// pair but performs no learning.
func (a *TDAgent) ObserveAndAct(state State, reward *float32, terminate bool) (Action, error) {
	var action Action
	if !terminate {
		var err error
		action, err = a.TakeAction(state, true)
		if err != nil {
			return "", err
		}

		id, _ := a.space.ID(action)
		a.window.push(state, id)
	}

	if reward != nil {
		a.window.pushReward(*reward)
		if err := a.update(terminate); err != nil {
			return "", err
		}
	}

	if terminate {
		a.window.reset()
		return "", nil
	}

	return action, nil
}

// update consumes exactly one pending reward and applies it in one of two
// modes. Non-terminal: a one-step TD update on the older recorded pair,
// bootstrapping off the newer pair's current estimate. Terminal: a
// Monte-Carlo-style update against the reward alone, targeting the single
// recorded pair if only one exists, else the newer one. The asymmetry is
// intentional: the final transition of an episode is finalized immediately,
// every other transition is updated once its successor's reward is known.
func (a *TDAgent) update(terminate bool) error {
	r, ok := a.window.popReward()
	if !ok {
		return errors.Wrap(ErrInvalidCallSequence, "update with no pending reward")
	}

	switch {
	case terminate && a.window.len() == 1:
		s, act := a.window.pair(0)
		a.finalize(s, act, r)
	case a.window.len() < 2:
		return errors.Wrap(ErrInvalidCallSequence, "update requires two recorded transitions")
	case terminate:
		s, act := a.window.pair(1)
		a.finalize(s, act, r)
	default:
		s, act := a.window.pair(0)
		next, nextAct := a.window.pair(1)
		a.bootstrap(s, act, next, nextAct, r)
	}

	return nil
}

// bootstrap performs the one-step TD update
//  N[s,a] += 1
//  Q[s,a] += (r + gamma * Q[s',a'] - Q[s,a]) / N[s,a]
func (a *TDAgent) bootstrap(s State, act int, next State, nextAct int, r float32) {
	a.visits.add(s, act, 1)
	target := r + a.params.Gamma*a.values.at(next, nextAct)
	a.values.add(s, act, (target-a.values.at(s, act))/a.visits.at(s, act))
}

// finalize performs the terminal update, an incremental sample mean
// toward the observed terminal return with no successor term:
//  N[s,a] += 1
//  Q[s,a] += (r - Q[s,a]) / N[s,a]
func (a *TDAgent) finalize(s State, act int, r float32) {
	a.visits.add(s, act, 1)
	a.values.add(s, act, (r-a.values.at(s, act))/a.visits.at(s, act))
}

func (a *TDAgent) epsilon(state State) float32 {
	n0 := a.params.N0
	return n0 / (n0 + f32.Sum(a.visits.row(state)))
}

// Epsilon returns the current exploration probability for the given state.
func (a *TDAgent) Epsilon(state State) (float32, error) {
	if !state.valid() {
		return 0, errors.Wrapf(ErrStateOutOfRange, "epsilon of state %+v", state)
	}
	return a.epsilon(state), nil
}

// Actions returns the agent's action set in id order.
func (a *TDAgent) Actions() []Action {
	return a.space.Actions()
}

// BaseName returns the identifier used to derive output file names.
func (a *TDAgent) BaseName() string {
	return a.params.BaseName
}

// ActionValues returns a copy of the Q table, indexed
// [dealer][player][action id].
func (a *TDAgent) ActionValues() [][][]float32 {
	return a.values.nested()
}

// Visits returns a copy of the N table, indexed [dealer][player][action id].
func (a *TDAgent) Visits() [][][]float32 {
	return a.visits.nested()
}

// StateValue returns the value of a state under the greedy policy,
// max over actions of Q[state, a].
func (a *TDAgent) StateValue(state State) (float32, error) {
	if !state.valid() {
		return 0, errors.Wrapf(ErrStateOutOfRange, "value of state %+v", state)
	}
	return f32.Max(a.values.row(state)), nil
}
