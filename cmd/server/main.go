package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"

	httpadapter "gridlife/internal/adapter/http"
	metricsinmem "gridlife/internal/adapter/metrics/inmemory"
	gormrepo "gridlife/internal/adapter/repo/gorm"
	memoryrepo "gridlife/internal/adapter/repo/memory"
	"gridlife/internal/app/episode"
	"gridlife/internal/app/ports"
	"gridlife/internal/app/replay"
	"gridlife/internal/app/status"
	"gridlife/internal/domain/life"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	episodes, steps, txManager := buildRepos()
	kpiRecorder := metricsinmem.NewRecorder()

	uc, err := episode.New(episode.Deps{
		TxManager: txManager,
		Episodes:  episodes,
		Steps:     steps,
		Metrics:   kpiRecorder,
		MDP:       life.MDPDefaults(),
		POMDP:     life.POMDPDefaults(),
		Solver:    solverFromEnv(),
		Planner:   plannerFromEnv(),
		Particles: intEnv("GRIDLIFE_PARTICLES", episode.DefaultParticles),
	})
	if err != nil {
		log.Fatalf("build episode usecase: %v", err)
	}

	h := httpadapter.Handler{
		EpisodeUC: uc,
		StatusUC:  status.UseCase{Episodes: episodes},
		ReplayUC:  replay.UseCase{Steps: steps},
		KPI:       kpiRecorder,
	}

	addr := strings.TrimSpace(os.Getenv("GRIDLIFE_ADDR"))
	if addr == "" {
		addr = ":8080"
	}

	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	log.Printf("gridlife server listening on %s", addr)
	s.Spin()
}

// buildRepos opens postgres when GRIDLIFE_DB_DSN is set and otherwise falls
// back to the in-memory store, which is enough for local runs.
func buildRepos() (ports.EpisodeRepository, ports.StepRepository, ports.TxManager) {
	dsn := strings.TrimSpace(os.Getenv("GRIDLIFE_DB_DSN"))
	if dsn == "" {
		log.Println("GRIDLIFE_DB_DSN not set, using in-memory store")
		store := memoryrepo.NewStore()
		return memoryrepo.NewEpisodeRepo(store), memoryrepo.NewStepRepo(store), memoryrepo.NewTxManager(store)
	}

	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	migrationsDir := strings.TrimSpace(os.Getenv("GRIDLIFE_MIGRATIONS_DIR"))
	if migrationsDir == "" {
		migrationsDir = "./migrations"
	}
	if err := gormrepo.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	return gormrepo.NewEpisodeRepo(db), gormrepo.NewStepRepo(db), gormrepo.NewTxManager(db)
}

func solverFromEnv() episode.SolverSettings {
	s := episode.DefaultSolverSettings()
	s.Tolerance = floatEnv("GRIDLIFE_SOLVER_TOLERANCE", s.Tolerance)
	s.MaxIterations = intEnv("GRIDLIFE_SOLVER_MAX_ITERATIONS", s.MaxIterations)
	return s
}

func plannerFromEnv() episode.PlannerSettings {
	p := episode.DefaultPlannerSettings()
	p.Rollouts = intEnv("GRIDLIFE_PLANNER_ROLLOUTS", p.Rollouts)
	p.MaxDepth = intEnv("GRIDLIFE_PLANNER_MAX_DEPTH", p.MaxDepth)
	p.Exploration = floatEnv("GRIDLIFE_PLANNER_EXPLORATION", p.Exploration)
	return p
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func floatEnv(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
