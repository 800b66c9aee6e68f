package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cartapp "github.com/piorhaii05/eatup/internal/cart/app"
	checkoutapp "github.com/piorhaii05/eatup/internal/checkout/app"
	checkoutdomain "github.com/piorhaii05/eatup/internal/checkout/domain"
	orderapp "github.com/piorhaii05/eatup/internal/order/app"
	"github.com/piorhaii05/eatup/internal/session"
	voucherapp "github.com/piorhaii05/eatup/internal/voucher/app"
	"github.com/piorhaii05/eatup/pkg/apiclient"
	"github.com/piorhaii05/eatup/pkg/apperr"
)

const (
	codeInvalidArgument    = "INVALID_ARGUMENT"
	codeUnauthenticated    = "UNAUTHENTICATED"
	codeNotFound           = "NOT_FOUND"
	codeFailedPrecondition = "FAILED_PRECONDITION"
	codeAborted            = "ABORTED"
	codeUpstream           = "UPSTREAM"
	codeUnavailable        = "UNAVAILABLE"
	codeInternal           = "INTERNAL"
)

var staleErrors = []error{
	cartapp.ErrStale,
	voucherapp.ErrStale,
	checkoutapp.ErrStale,
	orderapp.ErrStale,
}

var notFoundErrors = []error{
	cartapp.ErrItemNotFound,
	voucherapp.ErrUnknown,
	orderapp.ErrOrderNotFound,
}

// httpStatusFromError maps an application error to the status, code and
// message written back to the UI shell.
func httpStatusFromError(err error) (int, string, string) {
	msg := apperr.UserMessage(err)

	switch {
	case errors.Is(err, session.ErrNoSession) || errors.Is(err, checkoutapp.ErrNoUser):
		return http.StatusUnauthorized, codeUnauthenticated, "Please sign in again"
	case apperr.IsValidation(err):
		return http.StatusBadRequest, codeInvalidArgument, msg
	case errors.Is(err, checkoutdomain.ErrIllegalTransition):
		return http.StatusConflict, codeFailedPrecondition, "Checkout is busy, please wait"
	case isAny(err, staleErrors):
		return http.StatusConflict, codeAborted, "The screen was left before loading finished"
	case isAny(err, notFoundErrors):
		return http.StatusNotFound, codeNotFound, "Not found"
	case errors.Is(err, apiclient.ErrUnreachable) || errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, codeUnavailable, msg
	}

	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Status >= 500 {
			return http.StatusBadGateway, codeUpstream, msg
		}
		return reqErr.Status, codeUpstream, msg
	}

	return http.StatusInternalServerError, codeInternal, msg
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func writeError(c *gin.Context, err error) {
	status, code, msg := httpStatusFromError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": msg}})
}
