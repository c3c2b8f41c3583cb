package cli

import (
	"context"
	"fmt"

	"github.com/goliatone/go-docrender/command"
	"github.com/robfig/cron/v3"
)

// newBatchScheduler registers the batch on its cron expression. Failed runs
// are logged and the schedule keeps going.
func (a *app) newBatchScheduler(batch *command.BatchCommand) (*cron.Cron, error) {
	expr := batch.CronOptions().Expression
	run := batch.CronHandler()

	scheduler := cron.New()
	_, err := scheduler.AddFunc(expr, func() {
		a.logger.Info("running scheduled batch", "schedule", expr)
		if err := run(); err != nil {
			a.logger.Error("scheduled batch failed", "err", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	return scheduler, nil
}

// runScheduled blocks until ctx is done, then waits for a running batch.
func (a *app) runScheduled(ctx context.Context, batch *command.BatchCommand) error {
	scheduler, err := a.newBatchScheduler(batch)
	if err != nil {
		return err
	}
	scheduler.Start()
	if entries := scheduler.Entries(); len(entries) > 0 {
		a.logger.Info("batch scheduled", "schedule", batch.CronOptions().Expression, "next", entries[0].Next)
	}

	<-ctx.Done()
	<-scheduler.Stop().Done()
	a.logger.Info("scheduler stopped")
	return nil
}
