package httpapi

import (
	"context"
	"net/url"

	"github.com/piorhaii05/eatup/internal/voucher/app"
	"github.com/piorhaii05/eatup/internal/voucher/domain"
	"github.com/piorhaii05/eatup/pkg/apiclient"
)

type VoucherAPI struct {
	c *apiclient.Client
}

func NewVoucherAPI(c *apiclient.Client) *VoucherAPI {
	return &VoucherAPI{c: c}
}

func (a *VoucherAPI) List(ctx context.Context) ([]domain.Voucher, error) {
	var out []domain.Voucher
	if err := a.c.Get(ctx, "vouchers", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *VoucherAPI) Apply(ctx context.Context, req app.ApplyRequest) (app.ApplyResult, error) {
	var res app.ApplyResult
	if err := a.c.Post(ctx, "vouchers/apply", req, &res); err != nil {
		return app.ApplyResult{}, err
	}
	return res, nil
}

// IncrementUsed bumps the voucher's used_count after an order is placed.
func (a *VoucherAPI) IncrementUsed(ctx context.Context, voucherID string) error {
	return a.c.Put(ctx, "vouchers/increase-used-count/"+url.PathEscape(voucherID), nil, nil)
}
