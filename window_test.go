package easy21

import (
	"testing"
)

func TestWindowSlides(t *testing.T) {
	var w stepWindow

	states := []State{
		{Dealer: 1, Player: 1},
		{Dealer: 2, Player: 2},
		{Dealer: 3, Player: 3},
	}

	w.push(states[0], 0)
	if w.len() != 1 {
		t.Fatalf("len = %d, expected 1", w.len())
	}

	w.push(states[1], 1)
	if w.len() != 2 {
		t.Fatalf("len = %d, expected 2", w.len())
	}

	// A third push drops the oldest pair.
	w.push(states[2], 0)
	if w.len() != 2 {
		t.Fatalf("len = %d after sliding, expected 2", w.len())
	}

	s, a := w.pair(0)
	if s != states[1] || a != 1 {
		t.Errorf("oldest pair = (%v, %d), expected (%v, 1)", s, a, states[1])
	}
	s, a = w.pair(1)
	if s != states[2] || a != 0 {
		t.Errorf("newest pair = (%v, %d), expected (%v, 0)", s, a, states[2])
	}
}

func TestWindowRewardQueue(t *testing.T) {
	var w stepWindow

	if _, ok := w.popReward(); ok {
		t.Fatal("popReward on empty window returned ok")
	}

	w.pushReward(1)
	w.pushReward(-1)

	r, ok := w.popReward()
	if !ok || r != 1 {
		t.Errorf("popReward = (%v, %v), expected (1, true)", r, ok)
	}

	r, ok = w.popReward()
	if !ok || r != -1 {
		t.Errorf("popReward = (%v, %v), expected (-1, true)", r, ok)
	}

	if _, ok := w.popReward(); ok {
		t.Error("popReward on drained window returned ok")
	}

	// Pushing onto a full queue drops the oldest reward.
	w.pushReward(1)
	w.pushReward(0)
	w.pushReward(-1)

	r, _ = w.popReward()
	if r != 0 {
		t.Errorf("popReward = %v after overflow, expected 0", r)
	}
}

func TestWindowReset(t *testing.T) {
	var w stepWindow
	w.push(State{Dealer: 1, Player: 1}, 0)
	w.push(State{Dealer: 2, Player: 2}, 1)
	w.pushReward(1)

	w.reset()

	if w.len() != 0 || w.nRewards != 0 {
		t.Errorf("window holds %d pairs and %d rewards after reset, expected none",
			w.len(), w.nRewards)
	}
}

func TestWindowPairOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-range pair index")
		}
	}()

	var w stepWindow
	w.pair(0)
}
