package app

import (
	"context"

	"github.com/piorhaii05/eatup/internal/cart/domain"
)

type CartAPI interface {
	Get(ctx context.Context, userID string) ([]domain.CartItem, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int32) error
	Remove(ctx context.Context, userID, productID string) error
}

type UserResolver interface {
	CurrentUserID(ctx context.Context) (string, error)
}
