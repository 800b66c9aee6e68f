package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Voucher struct {
	ID                string          `json:"_id"`
	Code              string          `json:"code"`
	DiscountType      DiscountType    `json:"discount_type"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	MinOrderAmount    int64           `json:"min_order_amount"`
	MaxDiscountAmount *int64          `json:"max_discount_amount"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	UsageLimit        *int64          `json:"usage_limit"`
	UsedCount         int64           `json:"used_count"`
	Active            *bool           `json:"active"`
	RestaurantID      *string         `json:"restaurant_id"`
}

// Reason says why a voucher cannot be used. The empty Reason means available.
type Reason string

const (
	Available          Reason = ""
	ReasonOtherStore   Reason = "not applicable to this store"
	ReasonInactive     Reason = "inactive"
	ReasonNotStarted   Reason = "not yet started"
	ReasonExpired      Reason = "expired"
	ReasonExhausted    Reason = "usage exhausted"
	ReasonBelowMinimum Reason = "below minimum order"
)

// Scope carries what classification depends on besides the voucher itself.
type Scope struct {
	OrderTotal   int64
	RestaurantID string
	// SystemRestaurantID is the sentinel id of system-wide vouchers.
	SystemRestaurantID string
	Now                time.Time
}

// Classify checks the rules in a fixed order and reports the first one that
// fails.
func Classify(v Voucher, sc Scope) Reason {
	if rid := restaurantOf(v); rid != "" && rid != sc.RestaurantID && rid != sc.SystemRestaurantID {
		return ReasonOtherStore
	}
	if v.Active != nil && !*v.Active {
		return ReasonInactive
	}
	if !v.StartDate.IsZero() && sc.Now.Before(v.StartDate) {
		return ReasonNotStarted
	}
	if !v.EndDate.IsZero() && sc.Now.After(v.EndDate) {
		return ReasonExpired
	}
	if v.UsageLimit != nil && v.UsedCount >= *v.UsageLimit {
		return ReasonExhausted
	}
	if sc.OrderTotal < v.MinOrderAmount {
		return ReasonBelowMinimum
	}
	return Available
}

func restaurantOf(v Voucher) string {
	if v.RestaurantID == nil {
		return ""
	}
	return strings.TrimSpace(*v.RestaurantID)
}

// SystemWide reports whether v applies to every restaurant.
func SystemWide(v Voucher, systemRestaurantID string) bool {
	rid := restaurantOf(v)
	return rid == "" || rid == systemRestaurantID
}

// DiscountAmount is what v takes off orderTotal, always within [0, orderTotal].
// Percentage discounts are truncated to whole currency units.
func DiscountAmount(v Voucher, orderTotal int64) int64 {
	if orderTotal <= 0 {
		return 0
	}

	var d int64
	switch v.DiscountType {
	case DiscountPercentage:
		d = decimal.NewFromInt(orderTotal).
			Mul(v.DiscountValue).
			Div(decimal.NewFromInt(100)).
			Truncate(0).
			IntPart()
		if v.MaxDiscountAmount != nil && d > *v.MaxDiscountAmount {
			d = *v.MaxDiscountAmount
		}
	case DiscountFixed:
		d = v.DiscountValue.Truncate(0).IntPart()
	}

	if d > orderTotal {
		d = orderTotal
	}
	if d < 0 {
		d = 0
	}
	return d
}

type Unavailable struct {
	Voucher Voucher
	Reason  Reason
}

// Partition splits vouchers into usable ones and the rest with their reason,
// keeping input order on both sides.
func Partition(vouchers []Voucher, sc Scope) (available []Voucher, unavailable []Unavailable) {
	for _, v := range vouchers {
		if r := Classify(v, sc); r != Available {
			unavailable = append(unavailable, Unavailable{Voucher: v, Reason: r})
			continue
		}
		available = append(available, v)
	}
	return available, unavailable
}

// AppliedVoucherKey is the local store key the voucher screen leaves its
// choice under for checkout to pick up on its next focus.
const AppliedVoucherKey = "appliedVoucher"

type AppliedVoucher struct {
	ID             string `json:"voucher_id"`
	Code           string `json:"code"`
	DiscountAmount int64  `json:"discount_amount"`
	RestaurantID   string `json:"restaurant_id,omitempty"`
}
