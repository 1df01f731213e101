package life

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid life config")

// Config carries every tunable of the generative model. It is immutable and
// threaded explicitly into each component constructor; there is no
// process-wide state.
type Config struct {
	// GridN is the side length of the square grid; positions run 1..GridN.
	GridN int `json:"grid_n"`
	// FoodEnergy is the energy gained by eating food at the agent's cell.
	FoodEnergy int `json:"food_energy"`
	// MetabolismCost is deducted every turn just for existing.
	MetabolismCost int `json:"metabolism_cost"`
	// MoveCost is the extra charge for attempting a move, paid even when the
	// move fails. Zero in the fully observable variant.
	MoveCost int `json:"move_cost"`
	// ReproduceCost is the energy price of resetting age to zero.
	ReproduceCost int `json:"reproduce_cost"`
	// MaxEnergy caps the agent's energy.
	MaxEnergy int `json:"max_energy"`
	// OldAgeThreshold gates move failure: a move succeeds iff a uniform draw
	// in [0, age] lands at or below this threshold.
	OldAgeThreshold int `json:"old_age_threshold"`
	// MaxAge is the age at which the agent dies.
	MaxAge int `json:"max_age"`
	// Discount is the planning discount factor.
	Discount float64 `json:"discount"`
}

func (c Config) Validate() error {
	if c.GridN < 2 {
		return fmt.Errorf("%w: grid size %d, need at least 2", ErrInvalidConfig, c.GridN)
	}
	if c.FoodEnergy < 0 || c.MetabolismCost < 0 || c.MoveCost < 0 || c.ReproduceCost < 0 {
		return fmt.Errorf("%w: negative cost", ErrInvalidConfig)
	}
	if c.MaxEnergy < 1 {
		return fmt.Errorf("%w: max energy %d, need at least 1", ErrInvalidConfig, c.MaxEnergy)
	}
	if c.MaxAge < 1 {
		return fmt.Errorf("%w: max age %d, need at least 1", ErrInvalidConfig, c.MaxAge)
	}
	if c.OldAgeThreshold < 0 {
		return fmt.Errorf("%w: negative old age threshold", ErrInvalidConfig)
	}
	if c.Discount <= 0 || c.Discount > 1 {
		return fmt.Errorf("%w: discount %v, need in (0, 1]", ErrInvalidConfig, c.Discount)
	}
	return nil
}

// MDPDefaults is the fully observable variant's tuning.
func MDPDefaults() Config {
	return Config{
		GridN:          3,
		FoodEnergy:     10,
		MetabolismCost: 1,
		MoveCost:       0,
		ReproduceCost:  3,
		MaxEnergy:      10,
		MaxAge:         7,
		Discount:       0.99,
	}
}

// POMDPDefaults is the partially observable variant's tuning.
func POMDPDefaults() Config {
	return Config{
		GridN:           5,
		FoodEnergy:      10,
		MetabolismCost:  1,
		MoveCost:        1,
		ReproduceCost:   3,
		MaxEnergy:       15,
		OldAgeThreshold: 10,
		MaxAge:          20,
		Discount:        0.95,
	}
}

// Corners lists the four food corners in A, B, C, D order.
func (c Config) Corners() [4]Position {
	return [4]Position{
		{X: 1, Y: 1},
		{X: 1, Y: c.GridN},
		{X: c.GridN, Y: 1},
		{X: c.GridN, Y: c.GridN},
	}
}

// cornerIndex maps a cell to its corner slot, or -1 for non-corner cells.
func (c Config) cornerIndex(x, y int) int {
	for i, p := range c.Corners() {
		if p.X == x && p.Y == y {
			return i
		}
	}
	return -1
}

// FoodAt reports whether the given cell is a corner currently holding food.
func (s State) FoodAt(c Config, x, y int) bool {
	switch c.cornerIndex(x, y) {
	case 0:
		return s.FoodA
	case 1:
		return s.FoodB
	case 2:
		return s.FoodC
	case 3:
		return s.FoodD
	}
	return false
}

// withFoodIndex returns a copy of s with one corner flag set or cleared.
func (s State) withFoodIndex(i int, present bool) State {
	switch i {
	case 0:
		s.FoodA = present
	case 1:
		s.FoodB = present
	case 2:
		s.FoodC = present
	case 3:
		s.FoodD = present
	}
	return s
}
