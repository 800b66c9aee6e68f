package app

import (
	"context"

	"github.com/piorhaii05/eatup/internal/checkout/domain"
)

type Address struct {
	ID      string `json:"_id"`
	Label   string `json:"label"`
	Summary string `json:"summary"`
}

type BankCard struct {
	ID       string `json:"_id"`
	BankName string `json:"bank_name"`
	Masked   string `json:"masked_number"`
}

// AccountReader resolves the user's default records. A missing default is
// reported as ok == false, not as an error.
type AccountReader interface {
	DefaultAddress(ctx context.Context, userID string) (Address, bool, error)
	DefaultBank(ctx context.Context, userID string) (BankCard, bool, error)
}

type Discount struct {
	VoucherID    string `json:"voucher_id"`
	Code         string `json:"code"`
	Amount       int64  `json:"amount"`
	RestaurantID string `json:"restaurant_id,omitempty"`
}

// VoucherSource hands over the voucher the picker left behind, once.
type VoucherSource interface {
	TakeApplied(ctx context.Context) (Discount, bool, error)
}

type OrderAPI interface {
	// CreateOrder returns the backend order id. A non-empty idempotencyKey
	// lets the backend collapse duplicates.
	CreateOrder(ctx context.Context, draft domain.OrderDraft, idempotencyKey string) (string, error)
}

type PaymentIntent struct {
	OrderURL   string
	AppTransID string
}

type PaymentStatus struct {
	ReturnCode    int
	ReturnMessage string
}

// Succeeded follows the provider convention where 1 means paid.
func (s PaymentStatus) Succeeded() bool { return s.ReturnCode == 1 }

type PaymentAPI interface {
	CreateIntent(ctx context.Context, amount int64, draft domain.OrderDraft) (PaymentIntent, error)
	CheckStatus(ctx context.Context, appTransID string) (PaymentStatus, error)
}

// ExternalOpener opens the provider's payment page outside the app.
type ExternalOpener interface {
	Open(ctx context.Context, url string) error
}

type PlacedOrder struct {
	OrderID    string
	UserID     string
	ProductIDs []string
	VoucherID  string
}

// AfterOrder schedules the post-commit side effects of a placed order.
type AfterOrder interface {
	OrderPlaced(ctx context.Context, o PlacedOrder) error
}

type UserResolver interface {
	CurrentUserID(ctx context.Context) (string, error)
}
