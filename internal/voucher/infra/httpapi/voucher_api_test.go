package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/piorhaii05/eatup/internal/voucher/app"
	"github.com/piorhaii05/eatup/pkg/apiclient"
)

func TestVoucherAPI(t *testing.T) {
	var lastMethod, lastPath string
	var lastBody app.ApplyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastMethod, lastPath = r.Method, r.URL.Path
		switch r.URL.Path {
		case "/vouchers":
			_, _ = w.Write([]byte(`[{"_id":"v1","code":"A","discount_type":"fixed","discount_value":"20000","min_order_amount":100000,"used_count":0,"active":true}]`))
		case "/vouchers/apply":
			_ = json.NewDecoder(r.Body).Decode(&lastBody)
			_, _ = w.Write([]byte(`{"message":"applied","discount_amount":20000}`))
		}
	}))
	defer srv.Close()

	api := NewVoucherAPI(apiclient.New(srv.URL))
	ctx := context.Background()

	list, err := api.List(ctx)
	if err != nil || len(list) != 1 || list[0].DiscountValue.IntPart() != 20000 {
		t.Fatalf("list: %+v err=%v", list, err)
	}

	res, err := api.Apply(ctx, app.ApplyRequest{VoucherID: "v1", Code: "A", UserID: "u1", OrderTotal: 150000})
	if err != nil || res.DiscountAmount != 20000 {
		t.Fatalf("apply: %+v err=%v", res, err)
	}
	if lastBody.Code != "A" || lastBody.OrderTotal != 150000 {
		t.Fatalf("apply body: %+v", lastBody)
	}

	if err := api.IncrementUsed(ctx, "v1"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if lastMethod != http.MethodPut || lastPath != "/vouchers/increase-used-count/v1" {
		t.Fatalf("increment call: %s %s", lastMethod, lastPath)
	}
}
