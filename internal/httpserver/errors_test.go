package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	cartapp "github.com/piorhaii05/eatup/internal/cart/app"
	checkoutdomain "github.com/piorhaii05/eatup/internal/checkout/domain"
	"github.com/piorhaii05/eatup/internal/session"
	"github.com/piorhaii05/eatup/pkg/apiclient"
	"github.com/piorhaii05/eatup/pkg/apperr"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation -> 400", apperr.Invalid(nil, "Please add a delivery address"), http.StatusBadRequest, codeInvalidArgument},
		{"no session -> 401", session.ErrSessionExpired, http.StatusUnauthorized, codeUnauthenticated},
		{"illegal transition -> 409", fmt.Errorf("%w: submit on submitting", checkoutdomain.ErrIllegalTransition), http.StatusConflict, codeFailedPrecondition},
		{"stale -> 409", cartapp.ErrStale, http.StatusConflict, codeAborted},
		{"unknown item -> 404", fmt.Errorf("remove: %w", cartapp.ErrItemNotFound), http.StatusNotFound, codeNotFound},
		{"unreachable -> 503", fmt.Errorf("%w: dial tcp", apiclient.ErrUnreachable), http.StatusServiceUnavailable, codeUnavailable},
		{"deadline -> 503", context.DeadlineExceeded, http.StatusServiceUnavailable, codeUnavailable},
		{"backend 4xx passes through", &apiclient.RequestError{Status: http.StatusUnprocessableEntity, Message: "Voucher used up"}, http.StatusUnprocessableEntity, codeUpstream},
		{"backend 5xx -> 502", &apiclient.RequestError{Status: http.StatusInternalServerError}, http.StatusBadGateway, codeUpstream},
		{"anything else -> 500", errors.New("boom"), http.StatusInternalServerError, codeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, gotCode, _ := httpStatusFromError(tc.err)
			if gotStatus != tc.status || gotCode != tc.code {
				t.Fatalf("got (%d,%s)", gotStatus, gotCode)
			}
		})
	}

	t.Run("backend message reaches the user", func(t *testing.T) {
		_, _, msg := httpStatusFromError(&apiclient.RequestError{Status: 400, Message: "Voucher used up"})
		if msg != "Voucher used up" {
			t.Fatalf("msg=%q", msg)
		}
	})
}
