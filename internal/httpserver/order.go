package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piorhaii05/eatup/internal/order/domain"
)

type orderView struct {
	domain.Order
	CanCancel bool `json:"can_cancel"`
	CanRate   bool `json:"can_rate"`
}

func newOrderView(o domain.Order) orderView {
	return orderView{Order: o, CanCancel: o.CanCancel(), CanRate: o.CanRate()}
}

func (h *handler) listOrders(c *gin.Context) {
	if err := h.Orders.Load(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	orders := h.Orders.Orders()
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderView(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *handler) blurOrders(c *gin.Context) {
	h.Orders.Blur()
	c.Status(http.StatusNoContent)
}

func (h *handler) getOrder(c *gin.Context) {
	o, err := h.Orders.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newOrderView(o))
}

// cancelOrder is only offered for orders that are still pending.
func (h *handler) cancelOrder(c *gin.Context) {
	id := c.Param("id")
	o, err := h.Orders.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !o.CanCancel() {
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"code": codeFailedPrecondition, "message": "Order can no longer be cancelled"}})
		return
	}
	if err := h.Orders.Cancel(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	o, _ = h.Orders.Get(id)
	c.JSON(http.StatusOK, newOrderView(o))
}

func (h *handler) reviewOrder(c *gin.Context) {
	var review domain.Review
	if !bind(c, &review) {
		return
	}
	id := c.Param("id")
	if err := h.Orders.SubmitReview(c.Request.Context(), id, review); err != nil {
		writeError(c, err)
		return
	}
	o, _ := h.Orders.Get(id)
	c.JSON(http.StatusOK, newOrderView(o))
}
