package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/piorhaii05/eatup/internal/order/domain"
	"github.com/piorhaii05/eatup/pkg/apperr"
	"github.com/piorhaii05/eatup/pkg/staleguard"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNotRateable   = errors.New("order cannot be rated")
	ErrStale         = errors.New("result discarded: view left focus")
)

// Service backs order history and order detail.
type Service struct {
	api   OrderAPI
	users UserResolver
	log   *slog.Logger

	guard staleguard.Guard

	mu     sync.Mutex
	orders []domain.Order
}

func NewService(api OrderAPI, users UserResolver, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{api: api, users: users, log: log.With("component", "order")}
}

func (s *Service) Load(ctx context.Context) error {
	ticket := s.guard.Begin()

	userID, err := s.users.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	orders, err := s.api.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	domain.SortNewestFirst(orders)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ticket.Current() {
		return ErrStale
	}
	s.orders = orders
	return nil
}

func (s *Service) Blur() {
	s.guard.Invalidate()
}

func (s *Service) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...)
}

func (s *Service) Get(orderID string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(orderID)
	if i < 0 {
		return domain.Order{}, ErrOrderNotFound
	}
	return s.orders[i], nil
}

// Cancel asks the backend to cancel and then marks the local copy cancelled
// without a refetch. Whether the order may still be cancelled is for the
// backend to decide; the UI only offers it when CanCancel holds.
func (s *Service) Cancel(ctx context.Context, orderID string) error {
	if _, err := s.Get(orderID); err != nil {
		return err
	}
	if err := s.api.Cancel(ctx, orderID); err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	s.setStatus(orderID, domain.StatusCancelled)
	s.log.Info("order cancelled", slog.String("order_id", orderID))
	return nil
}

// SubmitReview rejects incomplete ratings before any request is made.
func (s *Service) SubmitReview(ctx context.Context, orderID string, review domain.Review) error {
	o, err := s.Get(orderID)
	if err != nil {
		return err
	}
	if !o.CanRate() {
		return apperr.Invalid(ErrNotRateable, "Only delivered orders can be rated")
	}
	if err := review.CheckComplete(o); err != nil {
		return apperr.Invalid(err, "Please rate every item and the restaurant")
	}

	userID, err := s.users.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	err = s.api.SubmitReview(ctx, ReviewRequest{
		OrderID:      orderID,
		UserID:       userID,
		RestaurantID: o.RestaurantID,
		Review:       review,
	})
	if err != nil {
		return fmt.Errorf("failed to submit review: %w", err)
	}

	s.setStatus(orderID, domain.StatusRated)
	s.log.Info("order rated", slog.String("order_id", orderID), slog.Int("restaurant_rating", review.RestaurantRating))
	return nil
}

func (s *Service) setStatus(orderID string, st domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(orderID); i >= 0 {
		s.orders[i].Status = st
	}
}

// indexOf must be called with mu held.
func (s *Service) indexOf(orderID string) int {
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			return i
		}
	}
	return -1
}
