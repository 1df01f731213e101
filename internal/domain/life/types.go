package life

// Position is a cell on the grid, 1-based on both axes.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// State is one complete configuration of the world: where food is, where the
// agent is, and the agent's vitals. States are values; transitions produce
// new States and never mutate in place.
type State struct {
	FoodA  bool `json:"food_a"`
	FoodB  bool `json:"food_b"`
	FoodC  bool `json:"food_c"`
	FoodD  bool `json:"food_d"`
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Energy int  `json:"energy"`
	Age    int  `json:"age"`
}

// HasFood reports whether any corner currently holds food.
func (s State) HasFood() bool {
	return s.FoodA || s.FoodB || s.FoodC || s.FoodD
}

// Pos returns the agent's position.
func (s State) Pos() Position {
	return Position{X: s.X, Y: s.Y}
}

type ActionKind string

const (
	ActionMove      ActionKind = "move"
	ActionLook      ActionKind = "look"
	ActionEat       ActionKind = "eat"
	ActionReproduce ActionKind = "reproduce"
)

// Action is a tagged variant: DX/DY are only meaningful for move, LX/LY only
// for look. The action set is closed and enumerated once by Actions.
type Action struct {
	Kind ActionKind `json:"kind"`
	DX   int        `json:"dx,omitempty"`
	DY   int        `json:"dy,omitempty"`
	LX   int        `json:"lx,omitempty"`
	LY   int        `json:"ly,omitempty"`
}

// Observation is what the agent perceives when it takes an action. The agent
// always knows its own position, energy and age exactly; food is only
// revealed for the looked-at corner, and only when the action was a look.
// Observations describe the state the action was taken in.
type Observation struct {
	Looked   bool `json:"looked"`
	LookX    int  `json:"look_x,omitempty"`
	LookY    int  `json:"look_y,omitempty"`
	FoodSeen bool `json:"food_seen,omitempty"`
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Energy   int  `json:"energy"`
	Age      int  `json:"age"`
}

type DeathCause string

const (
	DeathCauseNone       DeathCause = ""
	DeathCauseStarvation DeathCause = "starvation"
	DeathCauseOldAge     DeathCause = "old_age"
)

// InitialState is the canonical simulation start: food at corner A, agent in
// the same cell, nearly starved and newborn. Starting hungry on top of food
// doubles as a sanity check that any sane policy eats first.
func InitialState() State {
	return State{FoodA: true, X: 1, Y: 1, Energy: 1, Age: 0}
}
