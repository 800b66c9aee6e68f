package adapter

import (
	"context"

	checkoutapp "github.com/piorhaii05/eatup/internal/checkout/app"
	voucherdomain "github.com/piorhaii05/eatup/internal/voucher/domain"
	"github.com/piorhaii05/eatup/pkg/localstore"
)

// StoredVoucherSource consumes what the voucher picker left in the local
// store.
type StoredVoucherSource struct {
	store localstore.Store
}

func NewStoredVoucherSource(store localstore.Store) *StoredVoucherSource {
	return &StoredVoucherSource{store: store}
}

func (s *StoredVoucherSource) TakeApplied(ctx context.Context) (checkoutapp.Discount, bool, error) {
	v, ok, err := localstore.Take[voucherdomain.AppliedVoucher](s.store, voucherdomain.AppliedVoucherKey)
	if err != nil || !ok {
		return checkoutapp.Discount{}, false, err
	}
	return checkoutapp.Discount{
		VoucherID:    v.ID,
		Code:         v.Code,
		Amount:       v.DiscountAmount,
		RestaurantID: v.RestaurantID,
	}, true, nil
}
