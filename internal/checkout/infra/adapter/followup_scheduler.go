package adapter

import (
	"context"
	"time"

	checkoutapp "github.com/piorhaii05/eatup/internal/checkout/app"
	followupapp "github.com/piorhaii05/eatup/internal/followup/app"
	followupdomain "github.com/piorhaii05/eatup/internal/followup/domain"
)

// FollowupScheduler turns a placed order into queued follow-up tasks.
type FollowupScheduler struct {
	queue followupapp.Queue
	now   func() time.Time
}

func NewFollowupScheduler(queue followupapp.Queue) *FollowupScheduler {
	return &FollowupScheduler{queue: queue, now: time.Now}
}

func (s *FollowupScheduler) OrderPlaced(ctx context.Context, o checkoutapp.PlacedOrder) error {
	tasks := followupdomain.ForOrder(o.OrderID, o.UserID, o.ProductIDs, o.VoucherID, s.now().UTC())
	return s.queue.Enqueue(ctx, tasks...)
}
