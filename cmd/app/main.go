package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/replantlab/missiond/internal/assign"
	"github.com/replantlab/missiond/internal/bootstrap"
	"github.com/replantlab/missiond/internal/catalog"
	"github.com/replantlab/missiond/internal/clock"
	"github.com/replantlab/missiond/internal/config"
	"github.com/replantlab/missiond/internal/database"
	"github.com/replantlab/missiond/internal/handler"
	"github.com/replantlab/missiond/internal/logger"
	"github.com/replantlab/missiond/internal/notify"
	"github.com/replantlab/missiond/internal/scheduler"
	"github.com/replantlab/missiond/internal/server"
	"github.com/replantlab/missiond/internal/settle"
	"github.com/replantlab/missiond/internal/sweep"
	"github.com/replantlab/missiond/internal/verify"
	"github.com/replantlab/missiond/internal/worker"
)

// Scheduler pool sizing. Two periodic jobs share the pool; the queue gives a
// little slack when a tick lands while the previous run is still going.
const (
	schedulerWorkers   = 2
	schedulerQueueSize = 8
)

const deadLetterFileName = "notifications.jsonl"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "missiond: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger setup failed: %w", err)
	}
	defer logFile.Close()

	// Strict env checks only outside dev: local runs lean on Load's defaults.
	if cfg.Environment == "production" {
		warnings, err := config.ValidateEnvWithWarnings()
		if err != nil {
			return fmt.Errorf("environment validation failed: %w", err)
		}
		for _, w := range warnings {
			logger.Warn(w)
		}
	}

	if err := database.RunMigrations(cfg.GetDBConnString()); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	logger.Info(bootstrap.LogMsgMigrationsApplied)

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return fmt.Errorf("database pool failed: %w", err)
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	matcher, err := clock.NewMatcher(cfg.ReferenceTimezone)
	if err != nil {
		return fmt.Errorf("timezone setup failed: %w", err)
	}

	catalogCache := catalog.New(repos.Catalog, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)

	if err := os.MkdirAll(cfg.NotifyDeadLetterDir, bootstrap.DirPermission); err != nil {
		return fmt.Errorf("dead-letter directory failed: %w", err)
	}
	notifier, err := notify.NewResilientNotifier(
		notify.NewLogNotifier(),
		cfg.NotifyMaxRetries,
		cfg.NotifyRetryInterval,
		filepath.Join(cfg.NotifyDeadLetterDir, deadLetterFileName),
	)
	if err != nil {
		return fmt.Errorf("notifier setup failed: %w", err)
	}

	settleService := settle.NewService(repos.Instance, repos.Progression, repos.Badge, repos.Checklist, notifier)
	verifyService := verify.NewService(repos.Instance, repos.Proof, repos.Vote, repos.Post, catalogCache, settleService, notifier, cfg.VoteQuorum)
	assignService := assign.NewService(catalogCache, repos.Profile, repos.Instance, notifier, matcher, cfg.AssignWorkers, cfg.AssignUserTimeout)
	sweepService := sweep.NewService(repos.Instance, repos.Checklist)

	workerPool := worker.NewPool(schedulerWorkers, schedulerQueueSize)
	workerPool.Start()

	sched := scheduler.New(workerPool)
	sched.Schedule(cfg.AssignInterval, assign.NewTickJob(assignService))
	sched.Schedule(cfg.SweepInterval, sweep.NewJob(sweepService))
	logger.Info(bootstrap.LogMsgSchedulerStarted,
		"assign_interval", cfg.AssignInterval,
		"sweep_interval", cfg.SweepInterval)

	handler.InitValidator()

	srv := server.NewServer(cfg, server.Dependencies{
		DB:     dbPool,
		Verify: verifyService,
		Assign: assignService,
		Badges: repos.Badge,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-stop:
		bootstrap.GracefulShutdown(context.Background(), bootstrap.ShutdownComponents{
			Server:     srv,
			Scheduler:  sched,
			WorkerPool: workerPool,
			Notifier:   notifier,
			DBPool:     dbPool,
		})
	}

	return nil
}
