package episode

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"gridlife/internal/app/ports"
	"gridlife/internal/domain/belief"
	"gridlife/internal/domain/life"
	"gridlife/internal/domain/pomcp"
	"gridlife/internal/domain/valueiter"
)

var (
	ErrInvalidRequest = errors.New("invalid episode request")
	ErrUnknownVariant = errors.New("unknown episode variant")
	ErrEpisodeOver    = errors.New("episode already finished")
)

// maxRunBudget bounds a single run request; a finished episode always stops
// the loop well before this.
const maxRunBudget = 10_000

type SolverSettings struct {
	Tolerance     float64
	MaxIterations int
}

type PlannerSettings struct {
	Rollouts    int
	MaxDepth    int
	Exploration float64
}

func DefaultSolverSettings() SolverSettings {
	return SolverSettings{Tolerance: 1e-6, MaxIterations: 100}
}

func DefaultPlannerSettings() PlannerSettings {
	return PlannerSettings{Rollouts: 2000, MaxDepth: 50, Exploration: 25}
}

const DefaultParticles = 500

type Deps struct {
	TxManager ports.TxManager
	Episodes  ports.EpisodeRepository
	Steps     ports.StepRepository
	Metrics   ports.EpisodeMetrics
	// MDP and POMDP are the per-variant model tunings.
	MDP   life.Config
	POMDP life.Config
	// Solver, Planner and Particles leave room for env overrides; zero
	// values take the defaults above.
	Solver    SolverSettings
	Planner   PlannerSettings
	Particles int
	Now       func() time.Time
}

// UseCase drives episodes: it owns the belief and random source of each live
// episode and queries the per-variant engine for one action at a time.
type UseCase struct {
	deps    Deps
	solver  *valueiter.Solver
	planner *pomcp.Planner
	filter  *belief.Filter

	mu       sync.Mutex
	policy   *valueiter.Result
	sessions map[string]*session
}

// session is the in-process half of a live episode: its random source and,
// for the partially observable variant, its belief. It is rebuilt from the
// persisted record after a restart.
type session struct {
	rng    *rand.Rand
	belief *belief.Belief
}

func New(deps Deps) (*UseCase, error) {
	if deps.Solver == (SolverSettings{}) {
		deps.Solver = DefaultSolverSettings()
	}
	if deps.Planner == (PlannerSettings{}) {
		deps.Planner = DefaultPlannerSettings()
	}
	if deps.Particles == 0 {
		deps.Particles = DefaultParticles
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	solver, err := valueiter.New(deps.MDP, deps.Solver.Tolerance, deps.Solver.MaxIterations)
	if err != nil {
		return nil, err
	}
	planner, err := pomcp.New(deps.POMDP, deps.Planner.Rollouts, deps.Planner.MaxDepth, deps.Planner.Exploration)
	if err != nil {
		return nil, err
	}
	filter, err := belief.NewFilter(deps.POMDP, deps.Particles)
	if err != nil {
		return nil, err
	}

	return &UseCase{
		deps:     deps,
		solver:   solver,
		planner:  planner,
		filter:   filter,
		sessions: make(map[string]*session),
	}, nil
}

func (u *UseCase) Start(ctx context.Context, req StartRequest) (StartResponse, error) {
	if req.Variant != VariantMDP && req.Variant != VariantPOMDP {
		return StartResponse{}, ErrUnknownVariant
	}
	now := u.deps.Now()
	seed := req.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}

	rec := ports.EpisodeRecord{
		ID:        uuid.NewString(),
		Variant:   string(req.Variant),
		Seed:      seed,
		Status:    ports.EpisodeRunning,
		State:     life.InitialState(),
		Version:   1,
		UpdatedAt: now,
	}
	if err := u.deps.Episodes.SaveWithVersion(ctx, rec, 0); err != nil {
		u.recordError(err)
		return StartResponse{}, err
	}

	u.mu.Lock()
	u.sessions[rec.ID] = u.newSession(rec)
	u.mu.Unlock()

	return StartResponse{Episode: rec}, nil
}

func (u *UseCase) Step(ctx context.Context, req StepRequest) (StepResponse, error) {
	if req.EpisodeID == "" {
		return StepResponse{}, ErrInvalidRequest
	}
	rec, err := u.deps.Episodes.GetByID(ctx, req.EpisodeID)
	if err != nil {
		u.recordError(err)
		return StepResponse{}, err
	}
	if rec.Status == ports.EpisodeFinished {
		return StepResponse{}, ErrEpisodeOver
	}

	sess := u.session(rec)

	var (
		action life.Action
		obs    *life.Observation
		reward float64
		next   life.State
	)
	switch Variant(rec.Variant) {
	case VariantMDP:
		policy, perr := u.mdpPolicy()
		if perr != nil {
			u.recordError(perr)
			return StepResponse{}, perr
		}
		a, ok := policy.Action(rec.State)
		if !ok {
			err := errors.New("state missing from solved policy")
			u.recordError(err)
			return StepResponse{}, err
		}
		action = a
		// The fully observable reward scores the pre-transition state.
		reward = u.deps.MDP.StateReward(rec.State)
		next = sampleOutcome(u.deps.MDP.Outcomes(rec.State, a), sess.rng)
	case VariantPOMDP:
		action = u.planner.Plan(sess.belief, sess.rng)
		var o life.Observation
		next, o, reward = u.deps.POMDP.Step(rec.State, action, sess.rng)
		sess.belief = u.filter.Update(sess.belief, action, o, sess.rng)
		obs = &o
	default:
		return StepResponse{}, ErrUnknownVariant
	}

	cfg := u.config(Variant(rec.Variant))
	now := u.deps.Now()
	expected := rec.Version
	rec.State = next
	rec.StepCount++
	rec.RewardTotal += reward
	rec.Version++
	rec.UpdatedAt = now
	terminal := cfg.Terminal(next)
	if terminal {
		rec.Status = ports.EpisodeFinished
		rec.DeathCause = cfg.CauseOf(next)
	}

	step := ports.StepRecord{
		EpisodeID:   rec.ID,
		Index:       rec.StepCount,
		Action:      action,
		Observation: obs,
		Reward:      reward,
		StateAfter:  next,
		Terminal:    terminal,
		OccurredAt:  now,
	}

	err = u.deps.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.deps.Episodes.SaveWithVersion(txCtx, rec, expected); err != nil {
			return err
		}
		return u.deps.Steps.Append(txCtx, []ports.StepRecord{step})
	})
	if err != nil {
		u.recordError(err)
		return StepResponse{}, err
	}

	if u.deps.Metrics != nil {
		u.deps.Metrics.RecordStep(action.Kind)
		if terminal {
			u.deps.Metrics.RecordCompleted(rec.DeathCause)
		}
	}
	if terminal {
		u.mu.Lock()
		delete(u.sessions, rec.ID)
		u.mu.Unlock()
	}

	return StepResponse{
		EpisodeID:   rec.ID,
		Index:       step.Index,
		Action:      action,
		Observation: obs,
		Reward:      reward,
		State:       next,
		Terminal:    terminal,
		DeathCause:  rec.DeathCause,
		RewardTotal: rec.RewardTotal,
	}, nil
}

// Run steps an episode until it terminates or the budget runs out. The loop
// never requests a transition from a terminal state.
func (u *UseCase) Run(ctx context.Context, req RunRequest) (RunResponse, error) {
	if req.EpisodeID == "" || req.MaxSteps < 1 || req.MaxSteps > maxRunBudget {
		return RunResponse{}, ErrInvalidRequest
	}

	steps := make([]StepResponse, 0, req.MaxSteps)
	for i := 0; i < req.MaxSteps; i++ {
		resp, err := u.Step(ctx, StepRequest{EpisodeID: req.EpisodeID})
		if err != nil {
			return RunResponse{}, err
		}
		steps = append(steps, resp)
		if resp.Terminal {
			break
		}
	}

	rec, err := u.deps.Episodes.GetByID(ctx, req.EpisodeID)
	if err != nil {
		return RunResponse{}, err
	}
	return RunResponse{Steps: steps, Episode: rec}, nil
}

func (u *UseCase) config(v Variant) life.Config {
	if v == VariantPOMDP {
		return u.deps.POMDP
	}
	return u.deps.MDP
}

// session returns the live session for an episode, rebuilding it when the
// process restarted since the episode began: the random stream is re-derived
// from the seed and step count, and the belief collapses to the persisted
// state, which the driver knows exactly.
func (u *UseCase) session(rec ports.EpisodeRecord) *session {
	u.mu.Lock()
	defer u.mu.Unlock()
	if s, ok := u.sessions[rec.ID]; ok {
		return s
	}
	s := u.newSession(rec)
	u.sessions[rec.ID] = s
	return s
}

func (u *UseCase) newSession(rec ports.EpisodeRecord) *session {
	s := &session{
		rng: rand.New(rand.NewPCG(uint64(rec.Seed), uint64(rec.StepCount))),
	}
	if Variant(rec.Variant) == VariantPOMDP {
		s.belief = u.filter.Init(rec.State)
	}
	return s
}

// mdpPolicy solves the fully observable model once and caches the result for
// the process lifetime. Policies are never persisted.
func (u *UseCase) mdpPolicy() (valueiter.Policy, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.policy == nil {
		res := u.solver.Solve()
		if !res.Converged {
			log.Printf("episode: value iteration stopped after %d sweeps with residual %g; using best-effort policy",
				res.Iterations, res.Residual)
		}
		u.policy = &res
	}
	return u.policy.Policy, nil
}

func sampleOutcome(outcomes []life.Outcome, rng *rand.Rand) life.State {
	r := rng.Float64()
	acc := 0.0
	for _, o := range outcomes {
		acc += o.Prob
		if r < acc {
			return o.State
		}
	}
	return outcomes[len(outcomes)-1].State
}

func (u *UseCase) recordError(err error) {
	if u.deps.Metrics == nil {
		return
	}
	if errors.Is(err, ports.ErrConflict) {
		u.deps.Metrics.RecordConflict()
		return
	}
	u.deps.Metrics.RecordFailure()
}
