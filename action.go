package easy21

import (
	"github.com/pkg/errors"
)

// Action is one discrete move available to the agent.
// The set of valid actions is fixed at agent construction.
type Action string

// ActionSpace is a finite ordered set of actions, with a bidirectional
// mapping between each action and its integer id. Ids are assigned in
// the order actions were given, starting at zero.
type ActionSpace struct {
	actions []Action
	ids     map[Action]int
}

// NewActionSpace builds an ActionSpace from the given actions.
// Duplicates keep their first-seen id. At least one action is required.
func NewActionSpace(actions []Action) (*ActionSpace, error) {
	if len(actions) == 0 {
		return nil, errors.New("action space must have at least one action")
	}

	s := &ActionSpace{ids: make(map[Action]int, len(actions))}
	for _, a := range actions {
		if _, ok := s.ids[a]; ok {
			continue
		}

		s.ids[a] = len(s.actions)
		s.actions = append(s.actions, a)
	}

	return s, nil
}

// Len returns the number of distinct actions.
func (s *ActionSpace) Len() int {
	return len(s.actions)
}

// ID returns the integer id for the given action.
func (s *ActionSpace) ID(a Action) (int, bool) {
	id, ok := s.ids[a]
	return id, ok
}

// Action returns the action with the given id.
// It panics if the id is out of range.
func (s *ActionSpace) Action(id int) Action {
	return s.actions[id]
}

// Actions returns the actions in id order. The returned slice is a copy.
func (s *ActionSpace) Actions() []Action {
	result := make([]Action, len(s.actions))
	copy(result, s.actions)
	return result
}
