// Package schedule runs ingestion on a cron expression.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
	"github.com/custodia-labs/docrag/internal/logger"
)

// Ensure CronScheduler implements the interface.
var _ driving.Scheduler = (*CronScheduler)(nil)

// parser accepts standard five-field expressions and descriptors like @hourly.
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Job is the work run on every tick.
type Job interface {
	Run(ctx context.Context) error
}

// CronScheduler runs a job on a cron schedule, skipping ticks while the
// previous run is still active.
type CronScheduler struct {
	cron     *cron.Cron
	job      Job
	spec     string
	onResult func(domain.TaskResult)

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a CronScheduler.
type Option func(*CronScheduler)

// WithResultHandler registers a callback invoked after every run.
func WithResultHandler(fn func(domain.TaskResult)) Option {
	return func(c *CronScheduler) {
		c.onResult = fn
	}
}

// ValidateSpec checks a cron expression without scheduling anything.
func ValidateSpec(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("%w: cron %q: %w", domain.ErrInvalidInput, spec, err)
	}
	return nil
}

// NewCronScheduler creates a scheduler running job on spec.
func NewCronScheduler(spec string, job Job, opts ...Option) (*CronScheduler, error) {
	if job == nil {
		return nil, fmt.Errorf("%w: no job to schedule", domain.ErrInvalidInput)
	}
	if err := ValidateSpec(spec); err != nil {
		return nil, err
	}

	c := &CronScheduler{
		cron: cron.New(cron.WithParser(parser)),
		job:  job,
		spec: spec,
	}
	for _, opt := range opts {
		opt(c)
	}

	log := logger.L().With(zap.String("job", domain.TaskIDCronIngest), zap.String("spec", spec))
	if _, err := c.cron.AddFunc(spec, c.wrap()); err != nil {
		log.Error("schedule job failed", zap.Error(err))
		return nil, err
	}
	log.Info("job scheduled")
	return c, nil
}

// Start runs the cron loop and blocks until ctx is cancelled or Stop is called.
func (c *CronScheduler) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return errors.New("scheduler already running")
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	runCtx := c.ctx
	c.mu.Unlock()

	c.cron.Start()
	<-runCtx.Done()
	<-c.cron.Stop().Done()

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// Stop ends the loop and waits for a running job to finish.
func (c *CronScheduler) Stop() error {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-c.cron.Stop().Done()
	return nil
}

// RunOnce executes the job immediately, outside the schedule.
func (c *CronScheduler) RunOnce(ctx context.Context) domain.TaskResult {
	return c.run(ctx)
}

func (c *CronScheduler) wrap() func() {
	var running atomic.Bool
	return func() {
		if !running.CompareAndSwap(false, true) {
			logger.L().Info("job skipped: still running",
				zap.String("job", domain.TaskIDCronIngest),
				zap.String("spec", c.spec),
			)
			return
		}
		defer running.Store(false)

		c.mu.Lock()
		ctx := c.ctx
		c.mu.Unlock()
		if ctx == nil {
			ctx = context.Background()
		}
		c.run(ctx)
	}
}

func (c *CronScheduler) run(ctx context.Context) domain.TaskResult {
	log := logger.L().With(zap.String("job", domain.TaskIDCronIngest), zap.String("spec", c.spec))

	result := domain.TaskResult{TaskID: domain.TaskIDCronIngest, StartedAt: time.Now()}
	log.Info("job started")
	err := c.job.Run(ctx)
	result.EndedAt = time.Now()

	switch {
	case err == nil:
		result.Success = true
		log.Info("job finished", zap.Duration("duration", result.Duration()))
	case errors.Is(err, domain.ErrNothingToIngest), errors.Is(err, domain.ErrIngestionInProgress):
		result.Error = err.Error()
		log.Info("job finished", zap.String("outcome", err.Error()), zap.Duration("duration", result.Duration()))
	default:
		result.Error = err.Error()
		log.Error("job finished", zap.Error(err), zap.Duration("duration", result.Duration()))
	}

	if c.onResult != nil {
		c.onResult(result)
	}
	return result
}
