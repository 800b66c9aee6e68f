package app_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/piorhaii05/eatup/internal/cart/app"
	"github.com/piorhaii05/eatup/internal/cart/domain"
	"github.com/piorhaii05/eatup/pkg/logger"
	"golang.org/x/sync/errgroup"
)

type staticUsers string

func (u staticUsers) CurrentUserID(context.Context) (string, error) { return string(u), nil }

type memCartAPI struct {
	mu    sync.Mutex
	items []domain.CartItem
}

func (m *memCartAPI) Get(ctx context.Context, userID string) ([]domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CartItem(nil), m.items...), nil
}

func (m *memCartAPI) SetQuantity(ctx context.Context, userID, productID string, quantity int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ProductID == productID {
			m.items[i].Quantity = quantity
		}
	}
	return nil
}

func (m *memCartAPI) Remove(ctx context.Context, userID, productID string) error { return nil }

func newTestService(t *testing.T, n int) (*app.Service, []string) {
	t.Helper()
	api := &memCartAPI{}
	ids := make([]string, n)
	for i := range ids {
		ids[i] = uuid.NewString()
		api.items = append(api.items, domain.CartItem{
			ProductID:    ids[i],
			ProductPrice: 1000,
			Quantity:     1,
			RestaurantID: "R1",
		})
	}
	svc := app.NewService(api, staticUsers(uuid.NewString()), "", logger.Discard())
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return svc, ids
}

func TestCart_ConcurrentToggleSelect(t *testing.T) {
	const N = 50
	svc, ids := newTestService(t, N)

	g, _ := errgroup.WithContext(context.Background())
	for _, id := range ids {
		g.Go(func() error {
			_, err := svc.ToggleSelect(id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent toggle failed: %v", err)
	}

	if got := svc.Subtotal(); got != int64(N*1000) {
		t.Fatalf("expected subtotal=%d, got=%d", N*1000, got)
	}
	if !svc.IsCheckoutEnabled() {
		t.Fatal("single-restaurant selection should be enabled")
	}
}

func TestCart_ConcurrentIncrement(t *testing.T) {
	ctx := context.Background()
	svc, ids := newTestService(t, 1)

	// Increments race on the read-modify-write; the backend owns the final
	// value, so only check the view stays consistent with it.
	const N = 20
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < N; i++ {
		g.Go(func() error {
			return svc.Increment(ctx, ids[0])
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent increment failed: %v", err)
	}

	items := svc.Items()
	if len(items) != 1 || items[0].Quantity < 2 || items[0].Quantity > N+1 {
		t.Fatalf("unexpected quantity after increments: %+v", items)
	}
}
