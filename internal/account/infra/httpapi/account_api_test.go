package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/piorhaii05/eatup/internal/account/domain"
	"github.com/piorhaii05/eatup/pkg/apiclient"
)

func TestDefaultLookups(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/address/default/u1":
			_, _ = w.Write([]byte(`{"_id":"a1","name":"Home","address":"1 Le Loi","is_default":true}`))
		case "/bank/default/u1":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"No default bank"}`))
		case "/address/default/u2":
			_, _ = w.Write([]byte(`null`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	api := NewAccountAPI(apiclient.New(srv.URL))
	ctx := context.Background()

	addr, ok, err := api.DefaultAddress(ctx, "u1")
	if err != nil || !ok || addr.ID != "a1" {
		t.Fatalf("address: %+v ok=%v err=%v", addr, ok, err)
	}

	if _, ok, err := api.DefaultBank(ctx, "u1"); err != nil || ok {
		t.Fatalf("404 must mean no default: ok=%v err=%v", ok, err)
	}

	if _, ok, err := api.DefaultAddress(ctx, "u2"); err != nil || ok {
		t.Fatalf("null body must mean no default: ok=%v err=%v", ok, err)
	}

	if _, _, err := api.DefaultBank(ctx, "u3"); err == nil {
		t.Fatal("server errors must surface")
	}
}

func TestAddBankAndSetDefault(t *testing.T) {
	var body map[string]any
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.Method + " " + r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		if r.URL.Path == "/bank/add" {
			_, _ = w.Write([]byte(`{"_id":"b9","bank_name":"VCB","card_number":"4111111111111111"}`))
		}
	}))
	defer srv.Close()

	api := NewAccountAPI(apiclient.New(srv.URL))
	ctx := context.Background()

	card, err := api.AddBank(ctx, "u1", domain.NewCard{BankName: "VCB", CardNumber: "4111111111111111", CardHolder: "AN", ExpiryDate: "12/27"})
	if err != nil || card.ID != "b9" {
		t.Fatalf("card=%+v err=%v", card, err)
	}
	if body["user_id"] != "u1" || body["card_number"] != "4111111111111111" {
		t.Fatalf("body: %v", body)
	}

	if err := api.SetDefaultBank(ctx, "u1", "b9"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if path != "PUT /bank/set-default/b9" || body["user_id"] != "u1" {
		t.Fatalf("call: %s %v", path, body)
	}
}
