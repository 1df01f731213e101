package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	metricsinmem "gridlife/internal/adapter/metrics/inmemory"
	memoryrepo "gridlife/internal/adapter/repo/memory"
	"gridlife/internal/app/episode"
	"gridlife/internal/domain/life"
)

func main() {
	var (
		variant   string
		seed      int64
		maxSteps  int
		rollouts  int
		depth     int
		particles int
		quiet     bool
	)
	flag.StringVar(&variant, "variant", "mdp", "simulation variant: mdp or pomdp")
	flag.Int64Var(&seed, "seed", 0, "random seed, 0 uses the clock")
	flag.IntVar(&maxSteps, "steps", 1000, "step budget for the episode")
	flag.IntVar(&rollouts, "rollouts", 0, "planner rollouts per step, 0 uses the default")
	flag.IntVar(&depth, "depth", 0, "planner search depth, 0 uses the default")
	flag.IntVar(&particles, "particles", 0, "belief particle count, 0 uses the default")
	flag.BoolVar(&quiet, "quiet", false, "print only the episode summary")
	flag.Parse()

	v := episode.Variant(strings.ToLower(strings.TrimSpace(variant)))
	if v != episode.VariantMDP && v != episode.VariantPOMDP {
		fmt.Fprintf(os.Stderr, "unknown variant %q\n", variant)
		os.Exit(2)
	}

	store := memoryrepo.NewStore()
	planner := episode.DefaultPlannerSettings()
	if rollouts > 0 {
		planner.Rollouts = rollouts
	}
	if depth > 0 {
		planner.MaxDepth = depth
	}

	uc, err := episode.New(episode.Deps{
		TxManager: memoryrepo.NewTxManager(store),
		Episodes:  memoryrepo.NewEpisodeRepo(store),
		Steps:     memoryrepo.NewStepRepo(store),
		Metrics:   metricsinmem.NewRecorder(),
		MDP:       life.MDPDefaults(),
		POMDP:     life.POMDPDefaults(),
		Planner:   planner,
		Particles: particles,
	})
	if err != nil {
		log.Fatalf("build episode usecase: %v", err)
	}

	ctx := context.Background()
	started, err := uc.Start(ctx, episode.StartRequest{Variant: v, Seed: seed})
	if err != nil {
		log.Fatalf("start episode: %v", err)
	}
	if !quiet {
		fmt.Printf("episode %s variant=%s seed=%d\n", started.Episode.ID, v, started.Episode.Seed)
		printState(started.Episode.State)
	}

	run, err := uc.Run(ctx, episode.RunRequest{EpisodeID: started.Episode.ID, MaxSteps: maxSteps})
	if err != nil {
		log.Fatalf("run episode: %v", err)
	}

	for _, s := range run.Steps {
		if quiet {
			continue
		}
		fmt.Printf("step %d: %s reward=%.0f\n", s.Index, describeAction(s.Action), s.Reward)
		if s.Observation != nil && s.Observation.Looked {
			fmt.Printf("  looked at (%d,%d): food=%v\n", s.Observation.LookX, s.Observation.LookY, s.Observation.FoodSeen)
		}
		printState(s.State)
	}

	ep := run.Episode
	fmt.Printf("steps=%d total reward=%.0f\n", ep.StepCount, ep.RewardTotal)
	switch ep.DeathCause {
	case life.DeathCauseStarvation:
		fmt.Println("AGENT DIED OF STARVATION")
	case life.DeathCauseOldAge:
		fmt.Println("AGENT DIED OF OLD AGE")
	default:
		fmt.Println("agent survived the step budget")
	}
}

func printState(s life.State) {
	fmt.Printf("  pos=(%d,%d) energy=%d age=%d food=[A:%v B:%v C:%v D:%v]\n",
		s.X, s.Y, s.Energy, s.Age, s.FoodA, s.FoodB, s.FoodC, s.FoodD)
}

func describeAction(a life.Action) string {
	switch a.Kind {
	case life.ActionMove:
		return fmt.Sprintf("move(%+d,%+d)", a.DX, a.DY)
	case life.ActionLook:
		return fmt.Sprintf("look(%d,%d)", a.LX, a.LY)
	case life.ActionEat:
		return "eat"
	case life.ActionReproduce:
		return "reproduce"
	default:
		return string(a.Kind)
	}
}
