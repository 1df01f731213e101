// Package pomcp is an online Monte-Carlo planner for the partially
// observable life gridworld: repeated simulated rollouts through a search
// tree branched on actions and observations. Upper-confidence selection at
// visited nodes estimates action values from sampled rewards without ever
// enumerating the state space.
package pomcp

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gridlife/internal/domain/belief"
	"gridlife/internal/domain/life"
)

var ErrInvalidPlanner = errors.New("invalid planner settings")

type Planner struct {
	cfg         life.Config
	rollouts    int
	maxDepth    int
	exploration float64
	actions     []life.Action
}

func New(cfg life.Config, rollouts, maxDepth int, exploration float64) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rollouts < 1 {
		return nil, fmt.Errorf("%w: rollout budget %d, need at least 1", ErrInvalidPlanner, rollouts)
	}
	if maxDepth < 1 {
		return nil, fmt.Errorf("%w: search depth %d, need at least 1", ErrInvalidPlanner, maxDepth)
	}
	if exploration <= 0 {
		return nil, fmt.Errorf("%w: exploration constant %v, need > 0", ErrInvalidPlanner, exploration)
	}
	return &Planner{
		cfg:         cfg,
		rollouts:    rollouts,
		maxDepth:    maxDepth,
		exploration: exploration,
		actions:     life.Actions(cfg, true),
	}, nil
}

// ActionStat is one root action's search diagnostics.
type ActionStat struct {
	Action life.Action `json:"action"`
	Visits int         `json:"visits"`
	Value  float64     `json:"value"`
}

// Plan searches from the given belief and returns the best root action.
func (p *Planner) Plan(b *belief.Belief, rng *rand.Rand) life.Action {
	a, _ := p.Search(b, rng)
	return a
}

// Search runs the full rollout budget and returns the chosen action together
// with per-action statistics. The tree is rebuilt on every call; the chosen
// action is the one with the highest estimated value, ties broken by action
// enumeration order.
func (p *Planner) Search(b *belief.Belief, rng *rand.Rand) (life.Action, []ActionStat) {
	t := newTree(p)
	root := t.alloc()
	for i := 0; i < p.rollouts; i++ {
		s := b.Sample(rng)
		t.simulate(s, root, 0, rng)
	}

	stats := make([]ActionStat, 0, len(p.actions))
	bestIdx := 0
	bestValue := math.Inf(-1)
	for i, handles := 0, t.nodes[root].acts; i < len(p.actions); i++ {
		stat := ActionStat{Action: p.actions[i]}
		if handles != nil {
			child := t.nodes[handles[i]]
			stat.Visits = child.visits
			stat.Value = child.value
		}
		stats = append(stats, stat)
		if stat.Visits > 0 && stat.Value > bestValue {
			bestValue = stat.Value
			bestIdx = i
		}
	}
	return p.actions[bestIdx], stats
}

// tree is an arena of search nodes. Children are referenced by index into
// the arena, never by pointer, so growth cannot invalidate references and
// the whole structure is freed at once when planning returns.
type tree struct {
	p     *Planner
	nodes []node
}

type node struct {
	visits int
	value  float64
	// acts holds one child handle per action, nil until the node expands.
	acts []int32
	// obs branches an action child on the observation that followed it.
	obs map[life.Observation]int32
}

func newTree(p *Planner) *tree {
	return &tree{p: p, nodes: make([]node, 0, 4*p.rollouts)}
}

func (t *tree) alloc() int32 {
	t.nodes = append(t.nodes, node{})
	return int32(len(t.nodes) - 1)
}

// simulate runs one rollout step from state s at tree node h. Handles are
// re-indexed after every alloc because the arena may have grown.
func (t *tree) simulate(s life.State, h int32, depth int, rng *rand.Rand) float64 {
	if depth >= t.p.maxDepth || t.p.cfg.Terminal(s) {
		return 0
	}

	if t.nodes[h].acts == nil {
		acts := make([]int32, len(t.p.actions))
		for i := range acts {
			acts[i] = t.alloc()
		}
		t.nodes[h].acts = acts
		g := t.rollout(s, depth, rng)
		t.record(h, g)
		return g
	}

	ai := t.selectAction(h)
	actionChild := t.nodes[h].acts[ai]
	next, o, r := t.p.cfg.Step(s, t.p.actions[ai], rng)

	if t.nodes[actionChild].obs == nil {
		t.nodes[actionChild].obs = make(map[life.Observation]int32, 1)
	}
	obsChild, ok := t.nodes[actionChild].obs[o]
	if !ok {
		obsChild = t.alloc()
		t.nodes[actionChild].obs[o] = obsChild
	}

	g := r + t.p.cfg.Discount*t.simulate(next, obsChild, depth+1, rng)
	t.record(actionChild, g)
	t.record(h, g)
	return g
}

// selectAction picks the upper-confidence-maximizing action child of h,
// trying each untried action once first.
func (t *tree) selectAction(h int32) int {
	n := t.nodes[h]
	best := 0
	bestScore := math.Inf(-1)
	for i, ch := range n.acts {
		child := t.nodes[ch]
		if child.visits == 0 {
			return i
		}
		score := child.value +
			t.p.exploration*math.Sqrt(math.Log(float64(n.visits+1))/float64(child.visits))
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

// rollout estimates a leaf's value with a cheap uniform-random continuation.
func (t *tree) rollout(s life.State, depth int, rng *rand.Rand) float64 {
	g := 0.0
	discount := 1.0
	for d := depth; d < t.p.maxDepth; d++ {
		if t.p.cfg.Terminal(s) {
			break
		}
		a := t.p.actions[rng.IntN(len(t.p.actions))]
		var r float64
		s, _, r = t.p.cfg.Step(s, a, rng)
		g += discount * r
		discount *= t.p.cfg.Discount
	}
	return g
}

// record folds a sampled return into a node's running average.
func (t *tree) record(h int32, g float64) {
	n := &t.nodes[h]
	n.visits++
	n.value += (g - n.value) / float64(n.visits)
}
