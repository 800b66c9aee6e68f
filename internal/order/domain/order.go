package domain

import (
	"errors"
	"slices"
	"time"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusPaid       Status = "Paid"
	StatusConfirmed  Status = "Confirmed"
	StatusDelivering Status = "Delivering"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
	StatusRated      Status = "Rated"
)

type Item struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	ProductImage string `json:"product_image,omitempty"`
	Quantity     int32  `json:"quantity"`
	PriceAtOrder int64  `json:"price_at_order"`
}

type Order struct {
	ID             string    `json:"_id"`
	UserID         string    `json:"user_id"`
	RestaurantID   string    `json:"restaurant_id"`
	AddressID      string    `json:"address_id,omitempty"`
	PaymentMethod  string    `json:"payment_method"`
	Items          []Item    `json:"items"`
	TotalAmount    int64     `json:"total_amount"`
	ShippingFee    int64     `json:"shipping_fee"`
	DiscountAmount int64     `json:"discount_amount"`
	VoucherID      *string   `json:"voucher_id,omitempty"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt,omitzero"`
}

// CanCancel gates the cancel affordance.
func (o Order) CanCancel() bool { return o.Status == StatusPending }

// CanRate gates the rating affordance. A rated order reports StatusRated.
func (o Order) CanRate() bool { return o.Status == StatusDelivered }

// SortNewestFirst orders by creation time, newest first. Ties keep their
// backend order.
func SortNewestFirst(orders []Order) {
	slices.SortStableFunc(orders, func(a, b Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

type ItemRating struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

type Review struct {
	RestaurantRating  int          `json:"restaurant_rating"`
	RestaurantComment string       `json:"restaurant_comment,omitempty"`
	Items             []ItemRating `json:"items"`
}

var ErrIncompleteRating = errors.New("every item and the restaurant need a rating")

func validStars(n int) bool { return n >= 1 && n <= 5 }

// CheckComplete requires a 1 to 5 star rating for the restaurant and for
// every item of o.
func (r Review) CheckComplete(o Order) error {
	if !validStars(r.RestaurantRating) {
		return ErrIncompleteRating
	}
	rated := make(map[string]int, len(r.Items))
	for _, it := range r.Items {
		rated[it.ProductID] = it.Rating
	}
	for _, it := range o.Items {
		if !validStars(rated[it.ProductID]) {
			return ErrIncompleteRating
		}
	}
	return nil
}
