// Package watch runs ingestion when files land in the unprocessed directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driving"
	"github.com/custodia-labs/docrag/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = domain.DefaultWatchDebounce

// ChangeSource emits changes for a directory.
type ChangeSource interface {
	Watch(ctx context.Context) (<-chan domain.FileChange, error)
}

// Job is the work run after a burst of changes settles.
type Job interface {
	Run(ctx context.Context) error
}

// Scheduler ingests once at start-up and again whenever new files have
// stopped arriving for the debounce period.
type Scheduler struct {
	source   ChangeSource
	job      Job
	debounce time.Duration
	onResult func(domain.TaskResult)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithResultHandler registers a callback invoked after every run.
func WithResultHandler(fn func(domain.TaskResult)) Option {
	return func(s *Scheduler) {
		s.onResult = fn
	}
}

// New creates a watch scheduler.
func New(source ChangeSource, job Job, debounce time.Duration, opts ...Option) (*Scheduler, error) {
	if source == nil || job == nil {
		return nil, fmt.Errorf("%w: watch needs a change source and a job", domain.ErrInvalidInput)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	s := &Scheduler{source: source, job: job, debounce: debounce}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start blocks until ctx is cancelled, Stop is called, or the change
// source closes. A stopped Scheduler can be started again.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return errors.New("watcher already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancel, s.done = nil, nil
		s.mu.Unlock()
		close(done)
	}()

	changes, err := s.source.Watch(runCtx)
	if err != nil {
		return fmt.Errorf("starting watch: %w", err)
	}

	// Pick up files that arrived while nothing was watching.
	s.run(runCtx)

	timer := time.NewTimer(s.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-runCtx.Done():
			return ctx.Err()

		case change, ok := <-changes:
			if !ok {
				return ctx.Err()
			}
			if !change.TriggersIngestion() {
				continue
			}
			logger.Debug("watch: %s %s", change.Type, change.Path)
			timer.Reset(s.debounce)

		case <-timer.C:
			s.run(runCtx)
		}
	}
}

// Stop ends the loop and waits for it to exit.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	log := logger.L().With(zap.String("job", domain.TaskIDWatchIngest))

	result := domain.TaskResult{TaskID: domain.TaskIDWatchIngest, StartedAt: time.Now()}
	err := s.job.Run(ctx)
	result.EndedAt = time.Now()

	switch {
	case err == nil:
		result.Success = true
		log.Info("job finished", zap.Duration("duration", result.Duration()))
	case errors.Is(err, domain.ErrNothingToIngest), errors.Is(err, domain.ErrIngestionInProgress):
		result.Error = err.Error()
		log.Debug("job finished", zap.String("outcome", err.Error()))
	default:
		result.Error = err.Error()
		log.Error("job finished", zap.Error(err), zap.Duration("duration", result.Duration()))
	}

	if s.onResult != nil {
		s.onResult(result)
	}
}
