package httpapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/piorhaii05/eatup/internal/checkout/app"
	"github.com/piorhaii05/eatup/internal/checkout/domain"
	"github.com/piorhaii05/eatup/pkg/apiclient"
)

type OrderAPI struct {
	c *apiclient.Client
}

func NewOrderAPI(c *apiclient.Client) *OrderAPI {
	return &OrderAPI{c: c}
}

type createOrderResponse struct {
	ID    string `json:"_id"`
	Order struct {
		ID string `json:"_id"`
	} `json:"order"`
}

func (a *OrderAPI) CreateOrder(ctx context.Context, draft domain.OrderDraft, idempotencyKey string) (string, error) {
	var res createOrderResponse
	if err := a.c.Post(ctx, "order/create", draft, &res, apiclient.IdempotencyKey(idempotencyKey)); err != nil {
		return "", err
	}
	if res.Order.ID != "" {
		return res.Order.ID, nil
	}
	return res.ID, nil
}

// PaymentAPI talks to the backend's ZaloPay endpoints.
type PaymentAPI struct {
	c *apiclient.Client
}

func NewPaymentAPI(c *apiclient.Client) *PaymentAPI {
	return &PaymentAPI{c: c}
}

type createIntentRequest struct {
	Amount    int64             `json:"amount"`
	OrderData domain.OrderDraft `json:"order_data"`
}

type providerResult struct {
	ReturnCode    *int   `json:"return_code"`
	ReturnMessage string `json:"return_message"`
	OrderURL      string `json:"order_url"`
	AppTransID    string `json:"app_trans_id"`
}

func (a *PaymentAPI) CreateIntent(ctx context.Context, amount int64, draft domain.OrderDraft) (app.PaymentIntent, error) {
	var res providerResult
	if err := a.c.Post(ctx, "zalopay/create", createIntentRequest{Amount: amount, OrderData: draft}, &res); err != nil {
		return app.PaymentIntent{}, err
	}
	if res.ReturnCode != nil && *res.ReturnCode != 1 {
		msg := strings.TrimSpace(res.ReturnMessage)
		if msg == "" {
			msg = "payment intent rejected"
		}
		return app.PaymentIntent{}, fmt.Errorf("zalopay create: %d: %s", *res.ReturnCode, msg)
	}
	return app.PaymentIntent{OrderURL: res.OrderURL, AppTransID: res.AppTransID}, nil
}

type checkStatusRequest struct {
	AppTransID string `json:"app_trans_id"`
}

func (a *PaymentAPI) CheckStatus(ctx context.Context, appTransID string) (app.PaymentStatus, error) {
	var res providerResult
	if err := a.c.Post(ctx, "zalopay/check-status", checkStatusRequest{AppTransID: appTransID}, &res); err != nil {
		return app.PaymentStatus{}, err
	}
	st := app.PaymentStatus{ReturnMessage: res.ReturnMessage}
	if res.ReturnCode != nil {
		st.ReturnCode = *res.ReturnCode
	}
	return st, nil
}
