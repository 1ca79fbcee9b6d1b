package easy21

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

var testActions = []Action{"hit", "stick"}

func newTestAgent(t testing.TB) *TDAgent {
	t.Helper()
	agent, err := NewTDAgent(testActions, Params{Rand: rand.New(rand.NewSource(42))})
	if err != nil {
		t.Fatal(err)
	}
	return agent
}

func TestNewTDAgentZeroTables(t *testing.T) {
	agent := newTestAgent(t)
	for d := 0; d <= MaxDealer; d++ {
		for p := 0; p <= MaxPlayer; p++ {
			s := State{Dealer: d, Player: p}
			for a := 0; a < agent.space.Len(); a++ {
				if q := agent.values.at(s, a); q != 0 {
					t.Fatalf("Q%v[%d] = %v, expected 0 after construction", s, a, q)
				}
				if n := agent.visits.at(s, a); n != 0 {
					t.Fatalf("N%v[%d] = %v, expected 0 after construction", s, a, n)
				}
			}
		}
	}
}

func TestTakeActionGreedy(t *testing.T) {
	agent := newTestAgent(t)
	s := State{Dealer: 3, Player: 12}

	// All zero: ties break to the lowest action id.
	action, err := agent.TakeAction(s, false)
	if err != nil {
		t.Fatal(err)
	}
	if action != "hit" {
		t.Errorf("expected tie to break to %q, got %q", "hit", action)
	}

	agent.values.row(s)[1] = 0.5
	action, err = agent.TakeAction(s, false)
	if err != nil {
		t.Fatal(err)
	}
	if action != "stick" {
		t.Errorf("expected argmax action %q, got %q", "stick", action)
	}

	// Selection has no side effects on the visit counts.
	for a := 0; a < agent.space.Len(); a++ {
		if n := agent.visits.at(s, a); n != 0 {
			t.Errorf("N%v[%d] = %v after TakeAction, expected 0", s, a, n)
		}
	}
}

func TestTakeActionExplores(t *testing.T) {
	agent := newTestAgent(t)
	s := State{Dealer: 1, Player: 1}

	// With no visits epsilon is 1, so selection is uniform over actions.
	seen := make(map[Action]int)
	for i := 0; i < 100; i++ {
		action, err := agent.TakeAction(s, true)
		if err != nil {
			t.Fatal(err)
		}
		seen[action]++
	}

	for _, a := range testActions {
		if seen[a] == 0 {
			t.Errorf("action %q never sampled under full exploration: %v", a, seen)
		}
	}
}

func TestStateOutOfRange(t *testing.T) {
	agent := newTestAgent(t)
	for _, s := range []State{
		{Dealer: -1, Player: 0},
		{Dealer: MaxDealer + 1, Player: 0},
		{Dealer: 0, Player: -1},
		{Dealer: 0, Player: MaxPlayer + 1},
	} {
		if _, err := agent.TakeAction(s, false); errors.Cause(err) != ErrStateOutOfRange {
			t.Errorf("TakeAction(%v): expected ErrStateOutOfRange, got %v", s, err)
		}
		if _, err := agent.ObserveAndAct(s, nil, false); errors.Cause(err) != ErrStateOutOfRange {
			t.Errorf("ObserveAndAct(%v): expected ErrStateOutOfRange, got %v", s, err)
		}
	}
}

func TestBootstrapUpdate(t *testing.T) {
	agent := newTestAgent(t)
	s := State{Dealer: 4, Player: 10}
	next := State{Dealer: 4, Player: 15}

	// First update with r=1 and a zero-valued successor moves Q to 1.
	agent.bootstrap(s, 0, next, 0, 1)
	if n := agent.visits.at(s, 0); n != 1 {
		t.Errorf("N = %v, expected 1", n)
	}
	if q := agent.values.at(s, 0); q != 1.0 {
		t.Errorf("Q = %v, expected 1.0", q)
	}

	// Second update with r=0 and a zero-valued successor halves it.
	agent.bootstrap(s, 0, next, 0, 0)
	if n := agent.visits.at(s, 0); n != 2 {
		t.Errorf("N = %v, expected 2", n)
	}
	if q := agent.values.at(s, 0); q != 0.5 {
		t.Errorf("Q = %v, expected 0.5", q)
	}
}

func TestObserveAndActUpdatesPreviousTransition(t *testing.T) {
	agent := newTestAgent(t)
	s := State{Dealer: 2, Player: 8}
	next := State{Dealer: 2, Player: 13}

	action, err := agent.ObserveAndAct(s, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	id, ok := agent.space.ID(action)
	if !ok {
		t.Fatalf("agent returned unknown action %q", action)
	}

	r := float32(1)
	if _, err := agent.ObserveAndAct(next, &r, false); err != nil {
		t.Fatal(err)
	}

	// The reward applies to the older pair, bootstrapped off the newer
	// (still zero-valued) one: Q[s,a] = (1 + 0 - 0) / 1.
	if n := agent.visits.at(s, id); n != 1 {
		t.Errorf("N = %v, expected 1", n)
	}
	if q := agent.values.at(s, id); q != 1.0 {
		t.Errorf("Q = %v, expected 1.0", q)
	}
}

func TestTerminalSingleHistory(t *testing.T) {
	agent := newTestAgent(t)
	s := State{Dealer: 7, Player: 19}

	action, err := agent.ObserveAndAct(s, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := agent.space.ID(action)

	r := float32(-1)
	final, err := agent.ObserveAndAct(State{}, &r, true)
	if err != nil {
		t.Fatal(err)
	}
	if final != "" {
		t.Errorf("terminal call returned action %q, expected none", final)
	}

	if n := agent.visits.at(s, id); n != 1 {
		t.Errorf("N = %v, expected 1", n)
	}
	if q := agent.values.at(s, id); q != -1.0 {
		t.Errorf("Q = %v, expected -1.0", q)
	}
}

func TestTerminalTwoHistoryTargetsNewerPair(t *testing.T) {
	agent := newTestAgent(t)
	s1 := State{Dealer: 5, Player: 9}
	s2 := State{Dealer: 5, Player: 14}

	if _, err := agent.ObserveAndAct(s1, nil, false); err != nil {
		t.Fatal(err)
	}

	zero := float32(0)
	a2, err := agent.ObserveAndAct(s2, &zero, false)
	if err != nil {
		t.Fatal(err)
	}
	id2, _ := agent.space.ID(a2)

	r := float32(1)
	if _, err := agent.ObserveAndAct(State{}, &r, true); err != nil {
		t.Fatal(err)
	}

	// The terminal update finalizes the newer pair against the reward alone.
	if n := agent.visits.at(s2, id2); n != 1 {
		t.Errorf("N = %v, expected 1", n)
	}
	if q := agent.values.at(s2, id2); q != 1.0 {
		t.Errorf("Q = %v, expected 1.0", q)
	}
}

func TestTerminateClearsWindow(t *testing.T) {
	agent := newTestAgent(t)
	s := State{Dealer: 6, Player: 11}

	if _, err := agent.ObserveAndAct(s, nil, false); err != nil {
		t.Fatal(err)
	}

	r := float32(0)
	if _, err := agent.ObserveAndAct(State{}, &r, true); err != nil {
		t.Fatal(err)
	}

	if n := agent.window.len(); n != 0 {
		t.Errorf("window holds %d pairs after termination, expected 0", n)
	}
	if agent.window.nRewards != 0 {
		t.Errorf("window holds %d rewards after termination, expected 0", agent.window.nRewards)
	}

	// A subsequent call starts a fresh two-step window.
	if _, err := agent.ObserveAndAct(s, nil, false); err != nil {
		t.Fatal(err)
	}
	if n := agent.window.len(); n != 1 {
		t.Errorf("window holds %d pairs after fresh observation, expected 1", n)
	}
}

func TestRewardWithoutHistory(t *testing.T) {
	agent := newTestAgent(t)
	r := float32(1)

	// A terminal reward with no recorded transition has nothing to apply to.
	if _, err := agent.ObserveAndAct(State{}, &r, true); errors.Cause(err) != ErrInvalidCallSequence {
		t.Errorf("expected ErrInvalidCallSequence, got %v", err)
	}

	// Likewise a reward on the very first observation: only one pair is
	// recorded and there is no successor to bootstrap from.
	agent = newTestAgent(t)
	if _, err := agent.ObserveAndAct(State{Dealer: 1, Player: 1}, &r, false); errors.Cause(err) != ErrInvalidCallSequence {
		t.Errorf("expected ErrInvalidCallSequence, got %v", err)
	}
}

func TestEpsilonDecays(t *testing.T) {
	agent := newTestAgent(t)
	s := State{Dealer: 8, Player: 3}

	eps, err := agent.Epsilon(s)
	if err != nil {
		t.Fatal(err)
	}
	if eps != 1.0 {
		t.Errorf("epsilon = %v for unvisited state, expected 1.0", eps)
	}

	prev := eps
	for i := 0; i < 1000; i++ {
		agent.finalize(s, i%agent.space.Len(), 0)
		eps, err := agent.Epsilon(s)
		if err != nil {
			t.Fatal(err)
		}
		if eps >= prev {
			t.Fatalf("epsilon %v did not decrease from %v after %d visits", eps, prev, i+1)
		}
		prev = eps
	}

	if prev >= 0.1 {
		t.Errorf("epsilon = %v after 1000 visits, expected well below 0.1", prev)
	}
}

func TestStateValue(t *testing.T) {
	agent := newTestAgent(t)
	s := State{Dealer: 9, Player: 17}
	agent.values.row(s)[0] = -0.25
	agent.values.row(s)[1] = 0.75

	v, err := agent.StateValue(s)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0.75 {
		t.Errorf("V = %v, expected 0.75", v)
	}
}
