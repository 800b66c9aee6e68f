// Package httpserver exposes the checkout core to the UI shell over a local
// JSON API. Every screen maps to a route group; the handlers only translate
// between HTTP and the application services.
package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accountapp "github.com/piorhaii05/eatup/internal/account/app"
	cartapp "github.com/piorhaii05/eatup/internal/cart/app"
	checkoutapp "github.com/piorhaii05/eatup/internal/checkout/app"
	checkoutdomain "github.com/piorhaii05/eatup/internal/checkout/domain"
	orderapp "github.com/piorhaii05/eatup/internal/order/app"
	"github.com/piorhaii05/eatup/internal/session"
	voucherapp "github.com/piorhaii05/eatup/internal/voucher/app"
	"github.com/piorhaii05/eatup/pkg/logger"
)

// SelectionReader hands the cart's checked-out selection to checkout.
type SelectionReader interface {
	SelectedLines() ([]checkoutdomain.Line, error)
}

type Services struct {
	Sessions  *session.Manager
	Cart      *cartapp.Service
	Vouchers  *voucherapp.Selector
	Checkout  *checkoutapp.Orchestrator
	Orders    *orderapp.Service
	Accounts  *accountapp.Service
	Selection SelectionReader

	// Ready may be nil.
	Ready func(ctx context.Context) error
}

type Options struct {
	CORSOrigins []string
	Log         *slog.Logger
}

type handler struct {
	Services
	log *slog.Logger
}

func NewRouter(svc Services, opts Options) *gin.Engine {
	h := &handler{Services: svc, log: logger.Component(opts.Log, "http")}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.log))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/readyz", h.readyz)

	s := r.Group("/session")
	s.GET("", h.getSession)
	s.POST("", h.signIn)
	s.DELETE("", h.signOut)

	cart := r.Group("/cart")
	cart.GET("", h.getCart)
	cart.POST("/blur", h.blurCart)
	cart.POST("/select/:productId", h.toggleCartItem)
	cart.POST("/items/:productId/increment", h.incrementCartItem)
	cart.POST("/items/:productId/decrement", h.decrementCartItem)
	cart.DELETE("/items/:productId", h.removeCartItem)

	v := r.Group("/vouchers")
	v.GET("", h.listVouchers)
	v.POST("/blur", h.blurVouchers)
	v.POST("/:id/select", h.toggleVoucher)
	v.POST("/apply", h.applyVoucher)

	co := r.Group("/checkout")
	co.GET("", h.getCheckout)
	co.POST("", h.submitCheckout)
	co.POST("/prepare", h.prepareCheckout)
	co.POST("/blur", h.blurCheckout)
	co.PUT("/payment-method", h.setPaymentMethod)
	co.DELETE("/voucher", h.clearCheckoutVoucher)
	co.GET("/pending", h.getPending)
	co.DELETE("/pending", h.abandonPending)

	pay := r.Group("/payment")
	pay.GET("/return", h.paymentReturn)
	pay.POST("/return", h.paymentReturnLink)

	o := r.Group("/orders")
	o.GET("", h.listOrders)
	o.POST("/blur", h.blurOrders)
	o.GET("/:id", h.getOrder)
	o.POST("/:id/cancel", h.cancelOrder)
	o.POST("/:id/review", h.reviewOrder)

	acc := r.Group("/account")
	acc.GET("/addresses", h.listAddresses)
	acc.PUT("/addresses/:id/default", h.setDefaultAddress)
	acc.GET("/banks", h.listBanks)
	acc.POST("/banks", h.addBank)
	acc.PUT("/banks/:id/default", h.setDefaultBank)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header("X-Request-ID", reqID)

		c.Next()

		attrs := []any{
			slog.String("request_id", reqID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			log.Error("request failed", append(attrs, slog.String("err", c.Errors.String()))...)
			return
		}
		log.Info("request", attrs...)
	}
}

func (h *handler) readyz(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	c.String(http.StatusOK, "ready")
}

// bind decodes the JSON body into v, writing a 400 on failure.
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": codeInvalidArgument, "message": "Invalid request body"}})
		return false
	}
	return true
}
