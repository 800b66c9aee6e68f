package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/piorhaii05/eatup/internal/followup/domain"
)

// Fallback enqueues on primary and, when that fails, on secondary.
type Fallback struct {
	primary   Queue
	secondary Queue
	log       *slog.Logger
}

func NewFallback(primary, secondary Queue, log *slog.Logger) *Fallback {
	if log == nil {
		log = slog.Default()
	}
	return &Fallback{primary: primary, secondary: secondary, log: log.With("component", "followup")}
}

func (f *Fallback) Enqueue(ctx context.Context, tasks ...domain.Task) error {
	err := f.primary.Enqueue(ctx, tasks...)
	if err == nil {
		return nil
	}
	f.log.Warn("primary follow-up queue failed, using fallback", slog.Any("err", err))
	if err2 := f.secondary.Enqueue(ctx, tasks...); err2 != nil {
		return errors.Join(err, err2)
	}
	return nil
}
