package bootstrap

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/replantlab/missiond/internal/logger"
	"github.com/replantlab/missiond/internal/notify"
	"github.com/replantlab/missiond/internal/scheduler"
	"github.com/replantlab/missiond/internal/server"
	"github.com/replantlab/missiond/internal/worker"
)

// ShutdownComponents holds everything that needs graceful shutdown.
type ShutdownComponents struct {
	Server     *server.Server
	Scheduler  *scheduler.Scheduler
	WorkerPool *worker.Pool
	Notifier   *notify.ResilientNotifier
	DBPool     *pgxpool.Pool
}

// GracefulShutdown stops components in dependency order:
//  1. HTTP server (stop accepting new requests)
//  2. Scheduler (stop producing new ticks)
//  3. Worker pool (finish queued jobs)
//  4. Notifier (drain pending retries to the dead-letter file)
//  5. Database pool
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	logger.Info(LogMsgShuttingDown)

	if err := components.Server.Stop(ctx); err != nil {
		logger.Error(LogMsgServerForcedShutdown, "error", err)
	}

	components.Scheduler.Stop()
	logger.Info(LogMsgSchedulerStopped)

	components.WorkerPool.Stop()

	if components.Notifier != nil {
		if err := components.Notifier.Shutdown(ctx); err != nil {
			logger.Error(LogMsgNotifierDrainFailed, "error", err)
		}
	}

	components.DBPool.Close()
	logger.Info(LogMsgDatabaseClosed)

	logger.Info(LogMsgServerStopped)
}
