package app

import (
	"context"
	"io"
	"time"

	"github.com/robfig/cron/v3"

	"leetcode-anki/internal/adapter/report"
	"leetcode-anki/internal/domain/model"
	"leetcode-anki/internal/domain/ports"
	"leetcode-anki/internal/usecase"
)

// Builder runs one deck build.
type Builder interface {
	Run(ctx context.Context) (model.RunReport, error)
}

// App runs the deck build once, or repeatedly on a cron schedule.
type App struct {
	cron     *cron.Cron
	builder  Builder
	notifier ports.Notifier
	logger   ports.Logger
	schedule string
	out      io.Writer
}

// New constructs an App instance. notifier may be nil.
func New(builder Builder, notifier ports.Notifier, logger ports.Logger, schedule string, out io.Writer) *App {
	return &App{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		builder:  builder,
		notifier: notifier,
		logger:   logger,
		schedule: schedule,
		out:      out,
	}
}

// Run builds the deck. Without a schedule it returns the build error; with
// one it builds immediately, then on every tick until ctx is done, logging
// failures instead of returning them.
func (a *App) Run(ctx context.Context) error {
	if a.schedule == "" {
		return a.runOnce(ctx)
	}

	if err := a.scheduleJob(ctx); err != nil {
		return err
	}

	a.logger.Info(ctx, "running first build immediately")
	if err := a.runOnce(ctx); err != nil {
		a.logger.Error(ctx, "initial build failed", "error", err)
	}

	a.logger.Info(ctx, "starting scheduler", "cron", a.schedule)
	a.cron.Start()

	<-ctx.Done()
	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	a.logger.Info(context.Background(), "scheduler stopped")
	return nil
}

func (a *App) scheduleJob(ctx context.Context) error {
	_, err := a.cron.AddFunc(a.schedule, func() {
		if ctx.Err() != nil {
			return
		}
		if err := a.runOnce(ctx); err != nil {
			a.logger.Error(ctx, "scheduled build failed", "error", err)
		}
	})
	return err
}

func (a *App) runOnce(ctx context.Context) error {
	result, err := a.builder.Run(ctx)
	a.notify(ctx, result, err)
	if err != nil {
		return err
	}
	if a.out != nil {
		report.Render(a.out, result)
	}
	return nil
}

func (a *App) notify(ctx context.Context, result model.RunReport, runErr error) {
	if a.notifier == nil {
		return
	}
	if err := a.notifier.Send(ctx, usecase.BuildNotification(result, runErr)); err != nil {
		a.logger.Warn(ctx, "failed to send notification", "error", err)
	}
}
