package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/piorhaii05/eatup/internal/checkout/domain"
)

type prepareRequest struct {
	Lines []domain.Line `json:"lines"`
}

// prepareCheckout loads the checkout screen. Lines come from the body when
// given, otherwise from the cart selection; ?refocus=true keeps the lines of
// the previous prepare.
func (h *handler) prepareCheckout(c *gin.Context) {
	var lines []domain.Line

	refocus, _ := strconv.ParseBool(c.Query("refocus"))
	if !refocus {
		var req prepareRequest
		if c.Request.ContentLength != 0 {
			if !bind(c, &req) {
				return
			}
		}
		lines = req.Lines
		if len(lines) == 0 {
			if h.Selection == nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": codeInvalidArgument, "message": "No items to check out"}})
				return
			}
			sel, err := h.Selection.SelectedLines()
			if err != nil {
				writeError(c, err)
				return
			}
			lines = sel
		}
	}

	if err := h.Checkout.Prepare(c.Request.Context(), lines); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Checkout.View())
}

func (h *handler) getCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, h.Checkout.View())
}

func (h *handler) blurCheckout(c *gin.Context) {
	h.Checkout.Blur()
	c.Status(http.StatusNoContent)
}

type paymentMethodRequest struct {
	Method string `json:"method"`
}

func (h *handler) setPaymentMethod(c *gin.Context) {
	var req paymentMethodRequest
	if !bind(c, &req) {
		return
	}
	m, ok := domain.ParsePaymentMethod(req.Method)
	if !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": codeInvalidArgument, "message": "Unknown payment method"}})
		return
	}
	if err := h.Checkout.SetPaymentMethod(m); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Checkout.View())
}

func (h *handler) clearCheckoutVoucher(c *gin.Context) {
	h.Checkout.ClearVoucher()
	c.JSON(http.StatusOK, h.Checkout.View())
}

// submitCheckout answers 202 while a redirect payment is outstanding and 201
// once an order exists.
func (h *handler) submitCheckout(c *gin.Context) {
	res, err := h.Checkout.Submit(c.Request.Context())
	if err != nil {
		status, code, msg := httpStatusFromError(err)
		body := gin.H{"error": gin.H{"code": code, "message": msg}}
		if res.PaymentURL != "" {
			body["payment_url"] = res.PaymentURL
		}
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.AbortWithStatusJSON(status, body)
		return
	}
	if res.State == domain.StateAwaitingExternalPayment {
		c.JSON(http.StatusAccepted, res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *handler) getPending(c *gin.Context) {
	p, ok, err := h.Checkout.PendingOrder()
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": codeNotFound, "message": "No pending payment"}})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) abandonPending(c *gin.Context) {
	if err := h.Checkout.AbandonPending(); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// paymentReturn is the landing for the provider's redirect.
func (h *handler) paymentReturn(c *gin.Context) {
	h.reconcile(c, c.Request.URL.RawQuery)
}

type returnLinkRequest struct {
	URL string `json:"url" binding:"required"`
}

// paymentReturnLink takes a deep link the shell received from the OS.
func (h *handler) paymentReturnLink(c *gin.Context) {
	var req returnLinkRequest
	if !bind(c, &req) {
		return
	}
	h.reconcile(c, req.URL)
}

func (h *handler) reconcile(c *gin.Context, link string) {
	res, err := h.Checkout.Reconcile(c.Request.Context(), link)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
