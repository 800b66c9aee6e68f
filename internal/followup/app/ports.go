package app

import (
	"context"

	"github.com/piorhaii05/eatup/internal/followup/domain"
)

// Queue accepts follow-up tasks for later execution.
type Queue interface {
	Enqueue(ctx context.Context, tasks ...domain.Task) error
}

type CartCleaner interface {
	RemoveMultiple(ctx context.Context, userID string, productIDs []string) error
}

type VoucherCounter interface {
	IncrementUsed(ctx context.Context, voucherID string) error
}

type TaskExecutor interface {
	Execute(ctx context.Context, t domain.Task) error
}
