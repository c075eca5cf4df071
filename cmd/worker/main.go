// cmd/worker/main.go
// Worker: evaluasi ulang reserves semua sumur sesuai WORKER_SCHEDULE (format cron).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"dca-reserves/internal/app"
	"dca-reserves/internal/config"
	"dca-reserves/internal/services"
	"dca-reserves/internal/util"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	a := app.New(cfg, log)
	defer a.Close()
	if a.DB == nil {
		log.Fatal("worker needs a database (DB_DSN or MYSQL_HOST)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(cfg.Worker.Schedule, func() { runBatch(ctx, a, log) })
	if err != nil {
		log.WithError(err).WithField("schedule", cfg.Worker.Schedule).Fatal("invalid WORKER_SCHEDULE")
	}

	log.WithField("schedule", cfg.Worker.Schedule).Info("Worker started...")
	c.Start()
	<-ctx.Done()

	log.Info("Worker stopping...")
	<-c.Stop().Done()
}

func runBatch(ctx context.Context, a *app.App, log *logrus.Logger) {
	start := time.Now()
	runLog := log.WithField("run_id", util.NewRunID("batch"))
	runLog.Info("batch evaluation started")
	results, err := a.Reserves.EvaluateAll(ctx, nil, services.EvaluateRequest{})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			runLog.WithError(r.Err).WithField("well_id", r.WellID).Warn("evaluate well failed")
		}
	}
	entry := runLog.WithFields(logrus.Fields{
		"wells":       len(results),
		"failed":      failed,
		"ledger_rows": a.Reserves.Ledger.Len(),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("batch evaluation aborted")
		return
	}
	entry.Info("batch evaluation done")
}
