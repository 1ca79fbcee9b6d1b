package easy21

import (
	"math/rand"
	"time"
)

// Params are the configuration options for a TDAgent.
// The zero value is valid: each field falls back to its default.
type Params struct {
	// N0 is the exploration constant. The probability of taking a
	// uniformly random action in a state s decays as
	// N0 / (N0 + total visits to s). Default: 100.
	N0 float32
	// Gamma is the discount factor applied to the bootstrapped
	// successor value. Default: 1 (undiscounted).
	Gamma float32
	// BaseName is the identifier used to derive output file names
	// when saving. Default: "td_learning".
	BaseName string
	// Rand is the source of randomness for exploration.
	// Default: a new time-seeded source.
	Rand *rand.Rand
}

func (p Params) withDefaults() Params {
	if p.N0 == 0 {
		p.N0 = 100
	}
	if p.Gamma == 0 {
		p.Gamma = 1
	}
	if p.BaseName == "" {
		p.BaseName = "td_learning"
	}
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return p
}
