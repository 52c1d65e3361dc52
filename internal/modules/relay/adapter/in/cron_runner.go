package in

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/robfig/cron/v3"

	relayin "folio/internal/modules/relay/port/in"
)

const pushTimeout = 2 * time.Minute

// CronRunner pushes the outbox on a five-field cron schedule.
type CronRunner struct {
	usecase relayin.Usecase
	logger  hclog.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	isPushing bool
}

func NewCronRunner(usecase relayin.Usecase, logger hclog.Logger) *CronRunner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CronRunner{
		usecase: usecase,
		logger:  logger,
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// ValidateSchedule reports whether schedule is a five-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

func (r *CronRunner) Start(ctx context.Context, schedule string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isRunning {
		return nil
	}
	if err := ValidateSchedule(schedule); err != nil {
		return err
	}
	if _, err := r.cron.AddFunc(schedule, func() { r.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule push job: %w", err)
	}
	r.cron.Start()
	r.isRunning = true
	next := r.cron.Entries()[0].Schedule.Next(time.Now())
	r.logger.Info("relay scheduler started", "schedule", schedule, "next", next.Format(time.RFC3339))
	return nil
}

// RunOnce pushes now unless a push is already in flight.
func (r *CronRunner) RunOnce(ctx context.Context) {
	r.mu.Lock()
	if r.isPushing {
		r.mu.Unlock()
		r.logger.Debug("push already running, skipping")
		return
	}
	r.isPushing = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.isPushing = false
		r.mu.Unlock()
	}()

	pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()
	if _, err := r.usecase.Push(pushCtx); err != nil {
		r.logger.Warn("scheduled push failed", "error", err)
	}
}

// Stop waits for a running push to finish.
func (r *CronRunner) Stop() {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return
	}
	r.isRunning = false
	r.mu.Unlock()

	<-r.cron.Stop().Done()
	r.logger.Info("relay scheduler stopped")
}
