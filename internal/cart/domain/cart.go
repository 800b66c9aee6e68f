package domain

import (
	"encoding/json"
	"strings"
)

// Images accepts either a single path or a list of paths on the wire.
type Images []string

func (im *Images) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if one == "" {
			*im = nil
		} else {
			*im = Images{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*im = many
	return nil
}

type CartItem struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	ProductPrice   int64  `json:"product_price"`
	Quantity       int32  `json:"quantity"`
	RestaurantID   string `json:"restaurant_id"`
	RestaurantName string `json:"restaurant_name"`
	ProductImage   Images `json:"product_image"`
}

func (it CartItem) LineTotal() int64 {
	return it.ProductPrice * int64(it.Quantity)
}

// RestaurantGroup is one section of the cart screen.
type RestaurantGroup struct {
	RestaurantID   string
	RestaurantName string
	Items          []CartItem
}

// SelectedLine is what checkout consumes.
type SelectedLine struct {
	ProductID    string   `json:"product_id"`
	ProductTitle string   `json:"product_title"`
	ProductPrice int64    `json:"product_price"`
	Quantity     int32    `json:"quantity"`
	RestaurantID string   `json:"restaurant_id"`
	ProductImage []string `json:"product_image"`
}

func (l SelectedLine) LineTotal() int64 {
	return l.ProductPrice * int64(l.Quantity)
}

func (it CartItem) ToSelectedLine() SelectedLine {
	return SelectedLine{
		ProductID:    it.ProductID,
		ProductTitle: it.ProductName,
		ProductPrice: it.ProductPrice,
		Quantity:     it.Quantity,
		RestaurantID: it.RestaurantID,
		ProductImage: append([]string(nil), it.ProductImage...),
	}
}

// GroupByRestaurant keeps restaurants in first-seen order and items in their
// original order inside each group.
func GroupByRestaurant(items []CartItem) []RestaurantGroup {
	var groups []RestaurantGroup
	index := make(map[string]int)

	for _, it := range items {
		i, ok := index[it.RestaurantID]
		if !ok {
			i = len(groups)
			index[it.RestaurantID] = i
			groups = append(groups, RestaurantGroup{
				RestaurantID:   it.RestaurantID,
				RestaurantName: it.RestaurantName,
			})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// DistinctRestaurants counts restaurants among items.
func DistinctRestaurants(items []CartItem) int {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		seen[it.RestaurantID] = struct{}{}
	}
	return len(seen)
}

// CheckoutEnabled holds when something is selected and all of it comes from
// one restaurant.
func CheckoutEnabled(selected []CartItem) bool {
	return len(selected) > 0 && DistinctRestaurants(selected) <= 1
}

func Subtotal(items []CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.LineTotal()
	}
	return total
}

// MediaURL resolves a stored image path against the media base URL. Absolute
// URLs pass through.
func MediaURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
