package domain

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "COD"
	PaymentBank    PaymentMethod = "BANK"
	PaymentZaloPay PaymentMethod = "ZALOPAY"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case PaymentCOD, PaymentBank, PaymentZaloPay:
		return m, true
	}
	return "", false
}

// RequiresBank reports whether checkout needs a default card for m.
func (m PaymentMethod) RequiresBank() bool { return m == PaymentBank }

// Redirect reports whether m hands off to an external payment page.
func (m PaymentMethod) Redirect() bool { return m == PaymentZaloPay }

const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusPaid       = "Paid"
)

// Line is one selected cart line as checkout sees it.
type Line struct {
	ProductID    string   `json:"product_id"`
	Title        string   `json:"product_title"`
	Price        int64    `json:"product_price"`
	Quantity     int32    `json:"quantity"`
	RestaurantID string   `json:"restaurant_id"`
	Images       []string `json:"product_image,omitempty"`
}

type OrderItem struct {
	ProductID    string `json:"product_id"`
	Quantity     int32  `json:"quantity"`
	PriceAtOrder int64  `json:"price_at_order"`
}

type OrderDraft struct {
	UserID         string        `json:"user_id"`
	RestaurantID   string        `json:"restaurant_id"`
	AddressID      string        `json:"address_id"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	BankID         *string       `json:"bank_id"`
	Items          []OrderItem   `json:"items"`
	TotalAmount    int64         `json:"total_amount"`
	ShippingFee    int64         `json:"shipping_fee"`
	DiscountAmount int64         `json:"discount_amount"`
	VoucherID      *string       `json:"voucher_id"`
	Status         string        `json:"status"`
}

// ProductIDs lists the cart lines the draft consumes.
func (d OrderDraft) ProductIDs() []string {
	ids := make([]string, 0, len(d.Items))
	for _, it := range d.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

type Totals struct {
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"shipping_fee"`
	Discount    int64 `json:"discount"`
	Total       int64 `json:"total"`
}

// ComputeTotals never yields a negative total.
func ComputeTotals(lines []Line, shippingFee, discount int64) Totals {
	var sub int64
	for _, l := range lines {
		sub += l.Price * int64(l.Quantity)
	}
	return Totals{
		Subtotal:    sub,
		ShippingFee: shippingFee,
		Discount:    discount,
		Total:       max(0, sub+shippingFee-discount),
	}
}

// PendingKey is the local store key of the in-flight redirect payment.
const PendingKey = "pendingOrderData"

// PendingOrder bridges a redirect payment and its reconciliation. AppTransID
// is empty until the provider has issued a transaction id.
type PendingOrder struct {
	AppTransID string     `json:"app_trans_id"`
	PaymentURL string     `json:"payment_url,omitempty"`
	Draft      OrderDraft `json:"draft"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Claims reports whether a return for appTransID may reconcile p. A record
// not yet bound to a transaction claims nothing.
func (p PendingOrder) Claims(appTransID string) bool {
	return p.AppTransID != "" && p.AppTransID == appTransID
}

var ErrNoTransactionID = errors.New("return url carries no transaction id")

// PaymentReturn is what the provider appends to the registered return URL.
type PaymentReturn struct {
	AppTransID string
	// Status is the provider's own hint; only the status check is trusted.
	Status string
	Amount string
}

// ParsePaymentReturn extracts the transaction id from a provider return URL
// or a bare query string.
func ParsePaymentReturn(raw string) (PaymentReturn, error) {
	raw = strings.TrimSpace(raw)
	query := raw
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		query = raw[i+1:]
	}
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return PaymentReturn{}, err
	}

	id := values.Get("apptransid")
	if id == "" {
		id = values.Get("app_trans_id")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return PaymentReturn{}, ErrNoTransactionID
	}

	return PaymentReturn{
		AppTransID: id,
		Status:     values.Get("status"),
		Amount:     values.Get("amount"),
	}, nil
}
