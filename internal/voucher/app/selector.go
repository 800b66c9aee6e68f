package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/piorhaii05/eatup/internal/voucher/domain"
	"github.com/piorhaii05/eatup/pkg/apperr"
	"github.com/piorhaii05/eatup/pkg/localstore"
	"github.com/piorhaii05/eatup/pkg/staleguard"
)

var (
	ErrNotLoaded   = errors.New("vouchers not loaded")
	ErrUnknown     = errors.New("voucher not found")
	ErrUnavailable = errors.New("voucher unavailable")
	ErrNoSelection = errors.New("no voucher selected")
	ErrStale       = errors.New("result discarded: view left focus")
)

// Selector backs the voucher picker for one order total and restaurant.
type Selector struct {
	api      VoucherAPI
	users    UserResolver
	store    localstore.Store
	systemID string
	now      func() time.Time
	log      *slog.Logger

	guard staleguard.Guard

	mu          sync.Mutex
	scope       domain.Scope
	loaded      bool
	available   []domain.Voucher
	unavailable []domain.Unavailable
	selectedID  string
}

func NewSelector(api VoucherAPI, users UserResolver, store localstore.Store, systemRestaurantID string, log *slog.Logger) *Selector {
	if log == nil {
		log = slog.Default()
	}
	return &Selector{
		api:      api,
		users:    users,
		store:    store,
		systemID: systemRestaurantID,
		now:      time.Now,
		log:      log.With("component", "voucher"),
	}
}

// Load fetches every voucher and classifies it against orderTotal and
// restaurantID. A previous selection survives only if still available.
func (s *Selector) Load(ctx context.Context, orderTotal int64, restaurantID string) error {
	ticket := s.guard.Begin()

	vouchers, err := s.api.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load vouchers: %w", err)
	}

	sc := domain.Scope{
		OrderTotal:         orderTotal,
		RestaurantID:       restaurantID,
		SystemRestaurantID: s.systemID,
		Now:                s.now(),
	}
	available, unavailable := domain.Partition(vouchers, sc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ticket.Current() {
		return ErrStale
	}

	s.scope = sc
	s.loaded = true
	s.available = available
	s.unavailable = unavailable
	if _, ok := s.findAvailable(s.selectedID); !ok {
		s.selectedID = ""
	}
	return nil
}

func (s *Selector) Blur() {
	s.guard.Invalidate()
}

func (s *Selector) Available() []domain.Voucher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Voucher(nil), s.available...)
}

func (s *Selector) Unavailable() []domain.Unavailable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Unavailable(nil), s.unavailable...)
}

// Toggle selects id, or clears the selection when id is already selected.
// It reports whether id is selected afterwards.
func (s *Selector) Toggle(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return false, ErrNotLoaded
	}
	if _, ok := s.findAvailable(id); !ok {
		for _, u := range s.unavailable {
			if u.Voucher.ID == id {
				return false, apperr.Invalid(ErrUnavailable, "Voucher "+string(u.Reason))
			}
		}
		return false, ErrUnknown
	}

	if s.selectedID == id {
		s.selectedID = ""
		return false, nil
	}
	s.selectedID = id
	return true, nil
}

func (s *Selector) Selected() (domain.Voucher, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findAvailable(s.selectedID)
}

// Discount previews what the selected voucher takes off the loaded total.
func (s *Selector) Discount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.findAvailable(s.selectedID)
	if !ok {
		return 0
	}
	return domain.DiscountAmount(v, s.scope.OrderTotal)
}

// Apply confirms the selection with the backend and leaves the result in the
// local store for checkout to consume.
func (s *Selector) Apply(ctx context.Context) (domain.AppliedVoucher, error) {
	s.mu.Lock()
	v, ok := s.findAvailable(s.selectedID)
	sc := s.scope
	s.mu.Unlock()
	if !ok {
		return domain.AppliedVoucher{}, apperr.Invalid(ErrNoSelection, "Please select a voucher")
	}

	userID, err := s.users.CurrentUserID(ctx)
	if err != nil {
		return domain.AppliedVoucher{}, err
	}

	res, err := s.api.Apply(ctx, ApplyRequest{
		VoucherID:    v.ID,
		Code:         v.Code,
		UserID:       userID,
		RestaurantID: sc.RestaurantID,
		OrderTotal:   sc.OrderTotal,
	})
	if err != nil {
		return domain.AppliedVoucher{}, fmt.Errorf("failed to apply voucher: %w", err)
	}

	discount := domain.DiscountAmount(v, sc.OrderTotal)
	if res.DiscountAmount > 0 {
		discount = min(res.DiscountAmount, sc.OrderTotal)
	}

	applied := domain.AppliedVoucher{
		ID:             v.ID,
		Code:           v.Code,
		DiscountAmount: discount,
		RestaurantID:   sc.RestaurantID,
	}
	if err := localstore.Put(s.store, domain.AppliedVoucherKey, applied); err != nil {
		return domain.AppliedVoucher{}, err
	}

	s.log.Info("voucher applied",
		slog.String("voucher_id", v.ID),
		slog.Int64("discount", discount),
	)
	return applied, nil
}

// findAvailable must be called with mu held.
func (s *Selector) findAvailable(id string) (domain.Voucher, bool) {
	if id == "" {
		return domain.Voucher{}, false
	}
	for _, v := range s.available {
		if v.ID == id {
			return v, true
		}
	}
	return domain.Voucher{}, false
}
