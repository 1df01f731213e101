package life

// Actions enumerates the closed action set in its fixed order: the eight
// move directions, then (for the partially observable variant) a look at
// each corner, then eat, then reproduce. Planners and solvers rely on this
// order for deterministic tie-breaking.
func Actions(c Config, withLook bool) []Action {
	moves := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	out := make([]Action, 0, 14)
	for _, m := range moves {
		out = append(out, Action{Kind: ActionMove, DX: m[0], DY: m[1]})
	}
	if withLook {
		for _, p := range c.Corners() {
			out = append(out, Action{Kind: ActionLook, LX: p.X, LY: p.Y})
		}
	}
	out = append(out, Action{Kind: ActionEat}, Action{Kind: ActionReproduce})
	return out
}
