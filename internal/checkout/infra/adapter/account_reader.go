package adapter

import (
	"context"

	accountapp "github.com/piorhaii05/eatup/internal/account/app"
	accountdomain "github.com/piorhaii05/eatup/internal/account/domain"
	checkoutapp "github.com/piorhaii05/eatup/internal/checkout/app"
)

type AccountServiceReader struct {
	svc *accountapp.Service
}

func NewAccountServiceReader(svc *accountapp.Service) *AccountServiceReader {
	return &AccountServiceReader{svc: svc}
}

func (r *AccountServiceReader) DefaultAddress(ctx context.Context, userID string) (checkoutapp.Address, bool, error) {
	a, ok, err := r.svc.DefaultAddress(ctx, userID)
	if err != nil || !ok {
		return checkoutapp.Address{}, false, err
	}
	return toCheckoutAddress(a), true, nil
}

func (r *AccountServiceReader) DefaultBank(ctx context.Context, userID string) (checkoutapp.BankCard, bool, error) {
	b, ok, err := r.svc.DefaultBank(ctx, userID)
	if err != nil || !ok {
		return checkoutapp.BankCard{}, false, err
	}
	return checkoutapp.BankCard{
		ID:       b.ID,
		BankName: b.BankName,
		Masked:   b.Masked(),
	}, true, nil
}

func toCheckoutAddress(a accountdomain.Address) checkoutapp.Address {
	summary := a.Address
	if a.Phone != "" {
		summary = a.Name + " (" + a.Phone + "), " + a.Address
	}
	return checkoutapp.Address{
		ID:      a.ID,
		Label:   a.Name,
		Summary: summary,
	}
}
