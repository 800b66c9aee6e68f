package adapter

import (
	cartapp "github.com/piorhaii05/eatup/internal/cart/app"
	cartdomain "github.com/piorhaii05/eatup/internal/cart/domain"
	checkoutdomain "github.com/piorhaii05/eatup/internal/checkout/domain"
)

// CartSelectionReader carries the cart screen's selection into checkout.
type CartSelectionReader struct {
	svc *cartapp.Service
}

func NewCartSelectionReader(svc *cartapp.Service) *CartSelectionReader {
	return &CartSelectionReader{svc: svc}
}

// SelectedLines fails with the cart's own validation error when the
// selection cannot be checked out.
func (r *CartSelectionReader) SelectedLines() ([]checkoutdomain.Line, error) {
	lines, err := r.svc.SelectedLines()
	if err != nil {
		return nil, err
	}
	return ToLines(lines), nil
}

func ToLines(lines []cartdomain.SelectedLine) []checkoutdomain.Line {
	out := make([]checkoutdomain.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, checkoutdomain.Line{
			ProductID:    l.ProductID,
			Title:        l.ProductTitle,
			Price:        l.ProductPrice,
			Quantity:     l.Quantity,
			RestaurantID: l.RestaurantID,
			Images:       append([]string(nil), l.ProductImage...),
		})
	}
	return out
}
