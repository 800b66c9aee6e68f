package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/piorhaii05/eatup/internal/order/app"
	"github.com/piorhaii05/eatup/internal/order/domain"
	"github.com/piorhaii05/eatup/pkg/apiclient"
)

func TestOrderAPI(t *testing.T) {
	var (
		calls  []string
		review map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.URL.Path {
		case "/order/user/u1":
			_, _ = w.Write([]byte(`[{"_id":"o1","status":"Delivered","total_amount":145000,"createdAt":"2026-10-01T10:00:00Z","items":[{"product_id":"p1","quantity":2,"price_at_order":50000}]}]`))
		case "/reviews/submit":
			_ = json.NewDecoder(r.Body).Decode(&review)
			w.WriteHeader(http.StatusCreated)
		case "/order/cancel/o2":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Order can no longer be cancelled"}`))
		}
	}))
	defer srv.Close()

	api := NewOrderAPI(apiclient.New(srv.URL))
	ctx := context.Background()

	orders, err := api.ListByUser(ctx, "u1")
	if err != nil || len(orders) != 1 || orders[0].Status != domain.StatusDelivered || orders[0].CreatedAt.IsZero() {
		t.Fatalf("orders=%+v err=%v", orders, err)
	}

	err = api.SubmitReview(ctx, app.ReviewRequest{
		OrderID: "o1",
		UserID:  "u1",
		Review: domain.Review{
			RestaurantRating: 5,
			Items:            []domain.ItemRating{{ProductID: "p1", Rating: 4}},
		},
	})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if review["order_id"] != "o1" || review["restaurant_rating"] != float64(5) {
		t.Fatalf("review body: %v", review)
	}

	err = api.Cancel(ctx, "o2")
	var reqErr *apiclient.RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != "Order can no longer be cancelled" {
		t.Fatalf("cancel: %v", err)
	}
	if calls[len(calls)-1] != "PUT /order/cancel/o2" {
		t.Fatalf("calls: %v", calls)
	}
}
