package easy21

// stepWindow is the agent's two-step lookback: a bounded sliding window
// over the most recent (state, action) pairs, plus the queue of rewards
// not yet consumed by an update. Pushing onto a full window drops the
// oldest entry. The window is per-episode state and is reset at
// episode termination.
type stepWindow struct {
	states  [2]State
	actions [2]int
	nPairs  int

	rewards  [2]float32
	nRewards int
}

func (w *stepWindow) push(s State, action int) {
	if w.nPairs == 2 {
		w.states[0], w.actions[0] = w.states[1], w.actions[1]
		w.nPairs = 1
	}

	w.states[w.nPairs] = s
	w.actions[w.nPairs] = action
	w.nPairs++
}

func (w *stepWindow) pushReward(r float32) {
	if w.nRewards == 2 {
		w.rewards[0] = w.rewards[1]
		w.nRewards = 1
	}

	w.rewards[w.nRewards] = r
	w.nRewards++
}

// popReward removes and returns the oldest pending reward.
func (w *stepWindow) popReward() (float32, bool) {
	if w.nRewards == 0 {
		return 0, false
	}

	r := w.rewards[0]
	w.rewards[0] = w.rewards[1]
	w.nRewards--
	return r, true
}

func (w *stepWindow) len() int {
	return w.nPairs
}

// pair returns the i'th recorded (state, action) pair, oldest first.
// It panics if i >= len().
func (w *stepWindow) pair(i int) (State, int) {
	if i >= w.nPairs {
		panic("easy21: step window index out of range")
	}
	return w.states[i], w.actions[i]
}

func (w *stepWindow) reset() {
	*w = stepWindow{}
}
