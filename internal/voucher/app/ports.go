package app

import (
	"context"

	"github.com/piorhaii05/eatup/internal/voucher/domain"
)

type ApplyRequest struct {
	VoucherID    string `json:"voucher_id"`
	Code         string `json:"code"`
	UserID       string `json:"user_id"`
	RestaurantID string `json:"restaurant_id"`
	OrderTotal   int64  `json:"order_total"`
}

// ApplyResult is the backend's verdict. DiscountAmount is zero when the
// backend does not price the voucher itself.
type ApplyResult struct {
	DiscountAmount int64 `json:"discount_amount"`
}

type VoucherAPI interface {
	List(ctx context.Context) ([]domain.Voucher, error)
	Apply(ctx context.Context, req ApplyRequest) (ApplyResult, error)
}

type UserResolver interface {
	CurrentUserID(ctx context.Context) (string, error)
}
