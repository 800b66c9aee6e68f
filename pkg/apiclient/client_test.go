package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/echo":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			var in map[string]any
			_ = json.NewDecoder(r.Body).Decode(&in)
			in["idem"] = r.Header.Get("Idempotency-Key")
			_ = json.NewEncoder(w).Encode(in)
		case "/api/bad":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"voucher expired"}`))
		case "/api/err-field":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"already cancelled"}`))
		case "/api/html":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>oops</html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", WithTokenSource(func(context.Context) string { return "tok" }))
	ctx := context.Background()

	t.Run("round trip with token and idempotency key", func(t *testing.T) {
		var out map[string]any
		err := c.Post(ctx, "/echo", map[string]any{"a": "b"}, &out, IdempotencyKey("tx-1"))
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if out["a"] != "b" || out["idem"] != "tx-1" {
			t.Fatalf("got %v", out)
		}
	})

	t.Run("server message is surfaced", func(t *testing.T) {
		err := c.Get(ctx, "bad", nil)
		var reqErr *RequestError
		if !errors.As(err, &reqErr) || reqErr.Status != http.StatusBadRequest || reqErr.Message != "voucher expired" {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("error field is surfaced", func(t *testing.T) {
		err := c.Put(ctx, "err-field", nil, nil)
		var reqErr *RequestError
		if !errors.As(err, &reqErr) || reqErr.Message != "already cancelled" {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("non json body -> empty message", func(t *testing.T) {
		err := c.Get(ctx, "html", nil)
		var reqErr *RequestError
		if !errors.As(err, &reqErr) || reqErr.Message != "" {
			t.Fatalf("got %v", err)
		}
	})

	t.Run("404 matches ErrNotFound", func(t *testing.T) {
		err := c.Delete(ctx, "missing", nil, nil)
		if !IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, WithTimeout(time.Second))
	err := c.Get(context.Background(), "cart/u1", nil)
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestClientContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(srv.URL).Get(ctx, "slow", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
