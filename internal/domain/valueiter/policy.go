package valueiter

import "gridlife/internal/domain/life"

// Policy is a total greedy mapping from enumerated states to actions.
// Immutable once solved.
type Policy struct {
	actions map[life.State]life.Action
}

// Action looks up the policy action for a state. The second return is false
// only for states outside the enumerated space.
func (p Policy) Action(s life.State) (life.Action, bool) {
	a, ok := p.actions[s]
	return a, ok
}

// Len reports the number of states the policy covers.
func (p Policy) Len() int {
	return len(p.actions)
}
