package httpapi

import (
	"context"
	"net/url"

	"github.com/piorhaii05/eatup/internal/order/app"
	"github.com/piorhaii05/eatup/internal/order/domain"
	"github.com/piorhaii05/eatup/pkg/apiclient"
)

type OrderAPI struct {
	c *apiclient.Client
}

func NewOrderAPI(c *apiclient.Client) *OrderAPI {
	return &OrderAPI{c: c}
}

func (a *OrderAPI) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	if err := a.c.Get(ctx, "order/user/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

type cancelRequest struct {
	Status domain.Status `json:"status"`
}

func (a *OrderAPI) Cancel(ctx context.Context, orderID string) error {
	return a.c.Put(ctx, "order/cancel/"+url.PathEscape(orderID), cancelRequest{Status: domain.StatusCancelled}, nil)
}

func (a *OrderAPI) SubmitReview(ctx context.Context, req app.ReviewRequest) error {
	return a.c.Post(ctx, "reviews/submit", req, nil)
}
