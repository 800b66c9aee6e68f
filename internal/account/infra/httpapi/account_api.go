package httpapi

import (
	"context"
	"net/url"

	"github.com/piorhaii05/eatup/internal/account/domain"
	"github.com/piorhaii05/eatup/pkg/apiclient"
)

type AccountAPI struct {
	c *apiclient.Client
}

func NewAccountAPI(c *apiclient.Client) *AccountAPI {
	return &AccountAPI{c: c}
}

// getDefault treats a 404 or an empty body as "no default".
func getDefault[T any](ctx context.Context, c *apiclient.Client, path string, id func(T) string) (T, bool, error) {
	var zero, out T
	if err := c.Get(ctx, path, &out); err != nil {
		if apiclient.IsNotFound(err) {
			return zero, false, nil
		}
		return zero, false, err
	}
	if id(out) == "" {
		return zero, false, nil
	}
	return out, true, nil
}

func (a *AccountAPI) DefaultAddress(ctx context.Context, userID string) (domain.Address, bool, error) {
	return getDefault(ctx, a.c, "address/default/"+url.PathEscape(userID), func(v domain.Address) string { return v.ID })
}

func (a *AccountAPI) DefaultBank(ctx context.Context, userID string) (domain.BankCard, bool, error) {
	return getDefault(ctx, a.c, "bank/default/"+url.PathEscape(userID), func(v domain.BankCard) string { return v.ID })
}

func (a *AccountAPI) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	var out []domain.Address
	if err := a.c.Get(ctx, "address/user/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *AccountAPI) ListBanks(ctx context.Context, userID string) ([]domain.BankCard, error) {
	var out []domain.BankCard
	if err := a.c.Get(ctx, "bank/user/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

type setDefaultRequest struct {
	UserID string `json:"user_id"`
}

func (a *AccountAPI) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	return a.c.Put(ctx, "address/set-default/"+url.PathEscape(addressID), setDefaultRequest{UserID: userID}, nil)
}

func (a *AccountAPI) SetDefaultBank(ctx context.Context, userID, bankID string) error {
	return a.c.Put(ctx, "bank/set-default/"+url.PathEscape(bankID), setDefaultRequest{UserID: userID}, nil)
}

type addBankRequest struct {
	UserID string `json:"user_id"`
	domain.NewCard
}

func (a *AccountAPI) AddBank(ctx context.Context, userID string, card domain.NewCard) (domain.BankCard, error) {
	var out domain.BankCard
	if err := a.c.Post(ctx, "bank/add", addBankRequest{UserID: userID, NewCard: card}, &out); err != nil {
		return domain.BankCard{}, err
	}
	return out, nil
}
