// Package game implements the Easy21 card game as a training environment.
//
// Cards have face value 1-10 and are drawn with replacement from an
// infinite deck. A drawn card is red with probability 1/3 (its value is
// subtracted) and black otherwise (its value is added). The player and
// dealer each start with one black card; the dealer's card is showing.
// A sum above 21 or below 1 is a bust.
package game

import (
	"math/rand"

	easy21 "github.com/easy21-rl/go-easy21"
)

// The two moves available to the player.
const (
	Hit   easy21.Action = "hit"
	Stick easy21.Action = "stick"
)

// Actions is the game's action set in id order.
var Actions = []easy21.Action{Hit, Stick}

const dealerStickSum = 17

// Easy21 implements easy21.Environment. It is not safe for concurrent use.
type Easy21 struct {
	rng *rand.Rand

	dealerShowing int
	dealerSum     int
	playerSum     int
	done          bool
}

// New creates a game drawing cards from the given source of randomness.
func New(rng *rand.Rand) *Easy21 {
	return &Easy21{rng: rng, done: true}
}

// Reset deals one black card each to the player and the dealer and
// returns the initial state.
func (g *Easy21) Reset() easy21.State {
	g.dealerShowing = g.drawBlack()
	g.dealerSum = g.dealerShowing
	g.playerSum = g.drawBlack()
	g.done = false
	return g.state()
}

// Step applies the player's action. Hit draws a card for the player;
// busting ends the episode with reward -1. Stick plays out the dealer,
// who hits below 17, and the episode ends with reward +1, 0 or -1 for a
// player win, draw or loss. Terminal states are reported as-is and may
// lie outside the tabular bounds; they carry no further decisions.
//
// Step panics if called on a terminated episode or with an unknown action.
func (g *Easy21) Step(action easy21.Action) (easy21.State, float32, bool) {
	if g.done {
		panic("game: step on terminated episode")
	}

	switch action {
	case Hit:
		g.playerSum += g.draw()
		if bust(g.playerSum) {
			g.done = true
			return g.state(), -1, true
		}

		return g.state(), 0, false

	case Stick:
		for !bust(g.dealerSum) && g.dealerSum < dealerStickSum {
			g.dealerSum += g.draw()
		}

		g.done = true
		return g.state(), g.outcome(), true

	default:
		panic("game: unknown action " + string(action))
	}
}

func (g *Easy21) outcome() float32 {
	switch {
	case bust(g.dealerSum), g.playerSum > g.dealerSum:
		return 1
	case g.playerSum < g.dealerSum:
		return -1
	default:
		return 0
	}
}

func (g *Easy21) state() easy21.State {
	return easy21.State{Dealer: g.dealerShowing, Player: g.playerSum}
}

// draw returns the signed value of one card: 1-10, negated with
// probability 1/3.
func (g *Easy21) draw() int {
	value := g.drawBlack()
	if g.rng.Intn(3) == 0 {
		return -value
	}
	return value
}

func (g *Easy21) drawBlack() int {
	return g.rng.Intn(10) + 1
}

func bust(sum int) bool {
	return sum < 1 || sum > 21
}
