package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/piorhaii05/eatup/internal/checkout/domain"
	"github.com/piorhaii05/eatup/pkg/apiclient"
)

func TestOrderAPICreateSendsIdempotencyKey(t *testing.T) {
	var (
		gotKey   string
		gotDraft domain.OrderDraft
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/order/create" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotDraft)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"created","order":{"_id":"o-42"}}`))
	}))
	defer srv.Close()

	api := NewOrderAPI(apiclient.New(srv.URL))
	draft := domain.OrderDraft{UserID: "u1", Status: domain.StatusPaid, TotalAmount: 145000}

	id, err := api.CreateOrder(context.Background(), draft, "261019_1")
	if err != nil || id != "o-42" {
		t.Fatalf("id=%q err=%v", id, err)
	}
	if gotKey != "261019_1" || gotDraft.Status != domain.StatusPaid || gotDraft.TotalAmount != 145000 {
		t.Fatalf("key=%q draft=%+v", gotKey, gotDraft)
	}

	if _, err := api.CreateOrder(context.Background(), draft, ""); err != nil {
		t.Fatalf("create without key: %v", err)
	}
	if gotKey != "" {
		t.Fatalf("empty key must not be sent, got %q", gotKey)
	}
}

func TestPaymentAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/zalopay/create":
			var body struct {
				Amount int64 `json:"amount"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Amount == 0 {
				_, _ = w.Write([]byte(`{"return_code":2,"return_message":"invalid amount"}`))
				return
			}
			_, _ = w.Write([]byte(`{"return_code":1,"order_url":"https://sb-openapi.zalopay.vn/v2/x","app_trans_id":"261019_77"}`))
		case "/zalopay/check-status":
			var body checkStatusRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.AppTransID == "261019_77" {
				_, _ = w.Write([]byte(`{"return_code":1,"return_message":"Giao dịch thành công"}`))
				return
			}
			_, _ = w.Write([]byte(`{"return_code":3,"return_message":"processing"}`))
		}
	}))
	defer srv.Close()

	api := NewPaymentAPI(apiclient.New(srv.URL))
	ctx := context.Background()

	intent, err := api.CreateIntent(ctx, 145000, domain.OrderDraft{})
	if err != nil || intent.AppTransID != "261019_77" || intent.OrderURL == "" {
		t.Fatalf("intent=%+v err=%v", intent, err)
	}

	if _, err := api.CreateIntent(ctx, 0, domain.OrderDraft{}); err == nil {
		t.Fatal("provider rejection must be an error")
	}

	st, err := api.CheckStatus(ctx, "261019_77")
	if err != nil || !st.Succeeded() {
		t.Fatalf("status=%+v err=%v", st, err)
	}
	st, _ = api.CheckStatus(ctx, "other")
	if st.Succeeded() || st.ReturnCode != 3 {
		t.Fatalf("status=%+v", st)
	}
}
