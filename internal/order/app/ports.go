package app

import (
	"context"

	"github.com/piorhaii05/eatup/internal/order/domain"
)

type ReviewRequest struct {
	OrderID      string `json:"order_id"`
	UserID       string `json:"user_id"`
	RestaurantID string `json:"restaurant_id"`
	domain.Review
}

type OrderAPI interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Cancel(ctx context.Context, orderID string) error
	SubmitReview(ctx context.Context, req ReviewRequest) error
}

type UserResolver interface {
	CurrentUserID(ctx context.Context) (string, error)
}
