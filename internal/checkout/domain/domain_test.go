package domain

import (
	"errors"
	"testing"
)

func TestTransition(t *testing.T) {
	t.Run("direct happy path", func(t *testing.T) {
		s := StateLoading
		for _, e := range []Event{EventLoaded, EventSubmit, EventPlaced} {
			next, err := Transition(s, e)
			if err != nil {
				t.Fatalf("%s on %s: %v", e, s, err)
			}
			s = next
		}
		if s != StateSuccess || !s.Terminal() {
			t.Fatalf("ended in %s", s)
		}
	})

	t.Run("redirect path", func(t *testing.T) {
		s := StateReady
		s, _ = Transition(s, EventSubmit)
		s, _ = Transition(s, EventRedirected)
		if s != StateAwaitingExternalPayment {
			t.Fatalf("got %s", s)
		}
		s, _ = Transition(s, EventPlaced)
		if s != StateSuccess {
			t.Fatalf("got %s", s)
		}
	})

	t.Run("illegal moves are rejected", func(t *testing.T) {
		illegal := []struct {
			from State
			ev   Event
		}{
			{StateLoading, EventSubmit},
			{StateSubmitting, EventSubmit},
			{StateSuccess, EventSubmit},
			{StateReady, EventPlaced},
			{StateAwaitingExternalPayment, EventReload},
			{StateLoading, EventRedirected},
		}
		for _, tc := range illegal {
			got, err := Transition(tc.from, tc.ev)
			if !errors.Is(err, ErrIllegalTransition) {
				t.Fatalf("%s on %s: err=%v", tc.ev, tc.from, err)
			}
			if got != tc.from {
				t.Fatalf("state must not move on error: %s", got)
			}
		}
	})

	t.Run("failed allows retry and reload", func(t *testing.T) {
		if s, err := Transition(StateFailed, EventSubmit); err != nil || s != StateSubmitting {
			t.Fatalf("retry: %s %v", s, err)
		}
		if s, err := Transition(StateFailed, EventReload); err != nil || s != StateLoading {
			t.Fatalf("reload: %s %v", s, err)
		}
	})
}

func TestComputeTotals(t *testing.T) {
	lines := []Line{
		{ProductID: "a1", Price: 50000, Quantity: 2},
		{ProductID: "a2", Price: 30000, Quantity: 1},
	}

	got := ComputeTotals(lines, 15000, 20000)
	if got.Subtotal != 130000 || got.Total != 125000 {
		t.Fatalf("totals: %+v", got)
	}

	t.Run("never negative", func(t *testing.T) {
		for _, tc := range []struct{ sub, ship, disc int64 }{
			{0, 0, 0},
			{10000, 15000, 999999},
			{0, 15000, 15001},
		} {
			l := []Line{{Price: tc.sub, Quantity: 1}}
			if got := ComputeTotals(l, tc.ship, tc.disc); got.Total < 0 {
				t.Fatalf("%+v -> %d", tc, got.Total)
			}
		}
	})
}

func TestParsePaymentReturn(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
		err  error
	}{
		{"deep link", "eatup://payment-result?amount=145000&appid=2553&apptransid=261019_123456&bankcode=&status=1", "261019_123456", nil},
		{"http return", "http://localhost:8080/payment/return?apptransid=261019_9&status=-49", "261019_9", nil},
		{"bare query", "apptransid=261019_7", "261019_7", nil},
		{"snake case", "?app_trans_id=261019_8", "261019_8", nil},
		{"fragment ignored", "eatup://r?apptransid=261019_5#done", "261019_5", nil},
		{"missing", "eatup://payment-result?status=1", "", ErrNoTransactionID},
		{"empty", "", "", ErrNoTransactionID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePaymentReturn(tc.raw)
			if !errors.Is(err, tc.err) {
				t.Fatalf("err=%v want %v", err, tc.err)
			}
			if got.AppTransID != tc.want {
				t.Fatalf("got %q", got.AppTransID)
			}
		})
	}
}

func TestPendingClaims(t *testing.T) {
	bound := PendingOrder{AppTransID: "t1"}
	if !bound.Claims("t1") || bound.Claims("t2") {
		t.Fatal("bound record must only match its own transaction")
	}
	if (PendingOrder{}).Claims("anything") || (PendingOrder{}).Claims("") {
		t.Fatal("unbound record must not match any transaction")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	if m, ok := ParsePaymentMethod(" zalopay "); !ok || !m.Redirect() {
		t.Fatalf("got %q %v", m, ok)
	}
	if m, _ := ParsePaymentMethod("bank"); !m.RequiresBank() {
		t.Fatal("bank needs a card")
	}
	if _, ok := ParsePaymentMethod("bitcoin"); ok {
		t.Fatal("unknown method accepted")
	}
}
