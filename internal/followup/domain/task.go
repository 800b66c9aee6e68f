package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindCartRemove       Kind = "cart.remove-multiple"
	KindVoucherIncrement Kind = "voucher.increment-used"
)

// Task is one post-commit side effect of a placed order.
type Task struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id,omitempty"`
	ProductIDs []string  `json:"product_ids,omitempty"`
	VoucherID  string    `json:"voucher_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

var ErrInvalidTask = errors.New("invalid follow-up task")

func (t Task) Validate() error {
	switch t.Kind {
	case KindCartRemove:
		if t.UserID == "" || len(t.ProductIDs) == 0 {
			return ErrInvalidTask
		}
	case KindVoucherIncrement:
		if t.VoucherID == "" {
			return ErrInvalidTask
		}
	default:
		return ErrInvalidTask
	}
	return nil
}

// ForOrder builds the follow-ups of one order: clearing its cart lines, and
// counting the voucher use when a voucher was applied.
func ForOrder(orderID, userID string, productIDs []string, voucherID string, now time.Time) []Task {
	var tasks []Task
	if len(productIDs) > 0 {
		tasks = append(tasks, Task{
			ID:         uuid.NewString(),
			Kind:       KindCartRemove,
			OrderID:    orderID,
			UserID:     userID,
			ProductIDs: append([]string(nil), productIDs...),
			CreatedAt:  now,
		})
	}
	if voucherID != "" {
		tasks = append(tasks, Task{
			ID:        uuid.NewString(),
			Kind:      KindVoucherIncrement,
			OrderID:   orderID,
			VoucherID: voucherID,
			CreatedAt: now,
		})
	}
	return tasks
}
