package httpapi

import (
	"context"
	"net/url"

	"github.com/piorhaii05/eatup/internal/cart/domain"
	"github.com/piorhaii05/eatup/pkg/apiclient"
)

// CartAPI is the REST adapter for the backend cart collection.
type CartAPI struct {
	c *apiclient.Client
}

func NewCartAPI(c *apiclient.Client) *CartAPI {
	return &CartAPI{c: c}
}

func (a *CartAPI) Get(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := a.c.Get(ctx, "cart/"+url.PathEscape(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

type updateRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

func (a *CartAPI) SetQuantity(ctx context.Context, userID, productID string, quantity int32) error {
	return a.c.Put(ctx, "cart/update", updateRequest{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}, nil)
}

type removeRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

func (a *CartAPI) Remove(ctx context.Context, userID, productID string) error {
	return a.c.Delete(ctx, "cart/remove", removeRequest{UserID: userID, ProductID: productID}, nil)
}

type removeMultipleRequest struct {
	UserID     string   `json:"user_id"`
	ProductIDs []string `json:"product_ids"`
}

// RemoveMultiple drops the lines of a placed order in one call.
func (a *CartAPI) RemoveMultiple(ctx context.Context, userID string, productIDs []string) error {
	return a.c.Delete(ctx, "cart/remove-multiple", removeMultipleRequest{
		UserID:     userID,
		ProductIDs: productIDs,
	}, nil)
}
