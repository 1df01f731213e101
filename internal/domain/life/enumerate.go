package life

// EnumerateStates produces every legal state: each single-corner food
// configuration crossed with every cell, energy and age. The fully
// observable solver never sees a zero-food state (regrowth is folded into
// its chance node), so that configuration is only emitted when
// includeEmptyFood is set. Order is deterministic but callers must treat the
// result as a set.
func EnumerateStates(c Config, includeEmptyFood bool) []State {
	foods := make([][4]bool, 0, 5)
	if includeEmptyFood {
		foods = append(foods, [4]bool{})
	}
	foods = append(foods,
		[4]bool{true, false, false, false},
		[4]bool{false, true, false, false},
		[4]bool{false, false, true, false},
		[4]bool{false, false, false, true},
	)

	out := make([]State, 0, len(foods)*c.GridN*c.GridN*(c.MaxEnergy+1)*(c.MaxAge+1))
	for x := 1; x <= c.GridN; x++ {
		for y := 1; y <= c.GridN; y++ {
			for energy := 0; energy <= c.MaxEnergy; energy++ {
				for age := 0; age <= c.MaxAge; age++ {
					for _, f := range foods {
						out = append(out, State{
							FoodA: f[0], FoodB: f[1], FoodC: f[2], FoodD: f[3],
							X: x, Y: y, Energy: energy, Age: age,
						})
					}
				}
			}
		}
	}
	return out
}
