package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/piorhaii05/eatup/internal/cart/domain"
	"github.com/piorhaii05/eatup/pkg/apperr"
	"github.com/piorhaii05/eatup/pkg/staleguard"
)

var (
	ErrItemNotFound        = errors.New("item not in cart")
	ErrEmptySelection      = errors.New("no items selected")
	ErrMultipleRestaurants = errors.New("selection spans several restaurants")
	ErrStale               = errors.New("result discarded: view left focus")
)

// Confirm asks the user before a destructive action.
type Confirm func(item domain.CartItem) bool

// Service backs the cart screen: the fetched items, the selection and the
// quantity/remove actions. It is safe for concurrent use.
type Service struct {
	api          CartAPI
	users        UserResolver
	mediaBaseURL string
	log          *slog.Logger

	guard staleguard.Guard

	mu       sync.Mutex
	items    []domain.CartItem
	selected map[string]struct{}
}

func NewService(api CartAPI, users UserResolver, mediaBaseURL string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		api:          api,
		users:        users,
		mediaBaseURL: mediaBaseURL,
		log:          log.With("component", "cart"),
		selected:     make(map[string]struct{}),
	}
}

// Refresh refetches the cart. Results that arrive after Blur (or after a
// newer Refresh) are dropped and reported as ErrStale.
func (s *Service) Refresh(ctx context.Context) error {
	ticket := s.guard.Begin()

	userID, err := s.users.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	items, err := s.api.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ticket.Current() {
		return ErrStale
	}

	s.items = items
	present := make(map[string]struct{}, len(items))
	for _, it := range items {
		present[it.ProductID] = struct{}{}
	}
	for id := range s.selected {
		if _, ok := present[id]; !ok {
			delete(s.selected, id)
		}
	}
	return nil
}

// Blur is called when the screen loses focus.
func (s *Service) Blur() {
	s.guard.Invalidate()
}

func (s *Service) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem(nil), s.items...)
}

func (s *Service) Groups() []domain.RestaurantGroup {
	return domain.GroupByRestaurant(s.Items())
}

// ToggleSelect flips membership of id and reports whether it is now selected.
func (s *Service) ToggleSelect(productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.find(productID); !ok {
		return false, ErrItemNotFound
	}
	if _, ok := s.selected[productID]; ok {
		delete(s.selected, productID)
		return false, nil
	}
	s.selected[productID] = struct{}{}
	return true, nil
}

func (s *Service) IsSelected(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selected[productID]
	return ok
}

func (s *Service) IsCheckoutEnabled() bool {
	return domain.CheckoutEnabled(s.selectedItems())
}

func (s *Service) Subtotal() int64 {
	return domain.Subtotal(s.selectedItems())
}

// SelectedLines returns the checkout payload, or the reason checkout is not
// allowed yet.
func (s *Service) SelectedLines() ([]domain.SelectedLine, error) {
	items := s.selectedItems()
	if len(items) == 0 {
		return nil, apperr.Invalid(ErrEmptySelection, "Please select at least one item")
	}
	if !domain.CheckoutEnabled(items) {
		return nil, apperr.Invalid(ErrMultipleRestaurants, "You can only order from one restaurant at a time")
	}

	lines := make([]domain.SelectedLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.ToSelectedLine())
	}
	return lines, nil
}

func (s *Service) Increment(ctx context.Context, productID string) error {
	return s.changeQuantity(ctx, productID, +1)
}

// Decrement never drops an item: at quantity 1 it does nothing.
func (s *Service) Decrement(ctx context.Context, productID string) error {
	return s.changeQuantity(ctx, productID, -1)
}

func (s *Service) changeQuantity(ctx context.Context, productID string, delta int32) error {
	s.mu.Lock()
	item, ok := s.find(productID)
	s.mu.Unlock()
	if !ok {
		return ErrItemNotFound
	}

	next := item.Quantity + delta
	if next < 1 {
		return nil
	}

	userID, err := s.users.CurrentUserID(ctx)
	if err != nil {
		return err
	}
	if err := s.api.SetQuantity(ctx, userID, productID, next); err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	// The update went through; a superseded refresh is not a failure.
	if err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrStale) {
		return err
	}
	return nil
}

// Remove deletes an item after the user confirms. It reports false when the
// user declined.
func (s *Service) Remove(ctx context.Context, productID string, confirm Confirm) (bool, error) {
	s.mu.Lock()
	item, ok := s.find(productID)
	s.mu.Unlock()
	if !ok {
		return false, ErrItemNotFound
	}
	if confirm == nil || !confirm(item) {
		return false, nil
	}

	userID, err := s.users.CurrentUserID(ctx)
	if err != nil {
		return false, err
	}
	if err := s.api.Remove(ctx, userID, productID); err != nil {
		return false, fmt.Errorf("failed to remove item: %w", err)
	}

	s.mu.Lock()
	delete(s.selected, productID)
	for i, it := range s.items {
		if it.ProductID == productID {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.log.Info("item removed", slog.String("product_id", productID))
	return true, nil
}

func (s *Service) ImageURL(path string) string {
	return domain.MediaURL(s.mediaBaseURL, path)
}

func (s *Service) selectedItems() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartItem, 0, len(s.selected))
	for _, it := range s.items {
		if _, ok := s.selected[it.ProductID]; ok {
			out = append(out, it)
		}
	}
	return out
}

// find must be called with mu held.
func (s *Service) find(productID string) (domain.CartItem, bool) {
	for _, it := range s.items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return domain.CartItem{}, false
}
