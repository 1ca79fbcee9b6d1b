package easy21

// Bounds of the tabular state space. A state indexes into the value and
// visit tables, so both coordinates must stay within these limits.
const (
	MaxDealer = 10
	MaxPlayer = 21

	numDealer = MaxDealer + 1
	numPlayer = MaxPlayer + 1
)

// State is the agent's observation of the game: the dealer's showing
// card and the player's current sum.
type State struct {
	Dealer int // in [0, MaxDealer]
	Player int // in [0, MaxPlayer]
}

func (s State) valid() bool {
	return s.Dealer >= 0 && s.Dealer <= MaxDealer &&
		s.Player >= 0 && s.Player <= MaxPlayer
}
