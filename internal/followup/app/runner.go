package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/piorhaii05/eatup/internal/followup/domain"
	"golang.org/x/sync/errgroup"
)

var ErrClosed = errors.New("follow-up runner closed")

type RunnerOptions struct {
	Workers     int
	MaxAttempts int
	QueueSize   int

	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Runner executes queued tasks on a fixed set of workers, retrying each with
// exponential backoff. A task that still fails is logged and dropped.
type Runner struct {
	exec TaskExecutor
	opts RunnerOptions
	log  *slog.Logger

	newBackOff func() backoff.BackOff

	mu     sync.RWMutex
	closed bool
	tasks  chan domain.Task
}

func NewRunner(exec TaskExecutor, opts RunnerOptions, log *slog.Logger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 128
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 500 * time.Millisecond
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	r := &Runner{
		exec:  exec,
		opts:  opts,
		log:   log.With("component", "followup"),
		tasks: make(chan domain.Task, opts.QueueSize),
	}
	r.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = r.opts.InitialInterval
		b.MaxInterval = r.opts.MaxInterval
		b.MaxElapsedTime = 0
		return b
	}
	return r
}

// Enqueue blocks while the queue is full, until ctx is done.
func (r *Runner) Enqueue(ctx context.Context, tasks ...domain.Task) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}

	for _, t := range tasks {
		select {
		case r.tasks <- t:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Run starts the workers and returns once Close has been called and the
// queue is drained, or when ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range r.opts.Workers {
		g.Go(func() error {
			r.log.Debug("worker started", slog.Int("worker", i+1))
			for {
				select {
				case t, ok := <-r.tasks:
					if !ok {
						return nil
					}
					_ = r.Process(ctx, t)
				case <-ctx.Done():
					return nil
				}
			}
		})
	}
	return g.Wait()
}

// Close stops accepting tasks. Workers finish what is already queued.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.tasks)
}

// Process runs one task to completion, with retries.
func (r *Runner) Process(ctx context.Context, t domain.Task) error {
	log := r.log.With(
		slog.String("task_id", t.ID),
		slog.String("kind", string(t.Kind)),
		slog.String("order_id", t.OrderID),
	)

	attempt := 0
	op := func() error {
		attempt++
		err := r.exec.Execute(ctx, t)
		if err != nil {
			log.Warn("follow-up attempt failed", slog.Int("attempt", attempt), slog.Any("err", err))
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.opts.MaxAttempts-1)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		log.Error("follow-up dropped", slog.Int("attempts", attempt), slog.Any("err", err))
		return err
	}

	log.Info("follow-up done", slog.Int("attempts", attempt))
	return nil
}
