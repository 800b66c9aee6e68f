package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/piorhaii05/eatup/internal/followup/domain"
	"github.com/piorhaii05/eatup/pkg/apiclient"
)

// Executor runs a task against the backend. Errors that retrying cannot fix
// come back as *backoff.PermanentError.
type Executor struct {
	cart     CartCleaner
	vouchers VoucherCounter
}

func NewExecutor(cart CartCleaner, vouchers VoucherCounter) *Executor {
	return &Executor{cart: cart, vouchers: vouchers}
}

func (e *Executor) Execute(ctx context.Context, t domain.Task) error {
	if err := t.Validate(); err != nil {
		return backoff.Permanent(err)
	}

	var err error
	switch t.Kind {
	case domain.KindCartRemove:
		err = e.cart.RemoveMultiple(ctx, t.UserID, t.ProductIDs)
	case domain.KindVoucherIncrement:
		err = e.vouchers.IncrementUsed(ctx, t.VoucherID)
	}
	if err != nil && permanent(err) {
		return backoff.Permanent(err)
	}
	return err
}

// permanent reports whether the backend rejected the call for good.
func permanent(err error) bool {
	var reqErr *apiclient.RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	switch reqErr.Status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return reqErr.Status >= 400 && reqErr.Status < 500
}
