package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/piorhaii05/eatup/internal/voucher/domain"
)

type voucherView struct {
	domain.Voucher
	Discount int64 `json:"discount"`
	Selected bool  `json:"selected"`
}

type unavailableView struct {
	domain.Voucher
	Reason domain.Reason `json:"reason"`
}

type vouchersView struct {
	Available   []voucherView     `json:"available"`
	Unavailable []unavailableView `json:"unavailable"`
	Discount    int64             `json:"discount"`
}

func (h *handler) vouchersView(orderTotal int64) vouchersView {
	sel, hasSel := h.Vouchers.Selected()
	out := vouchersView{
		Available:   []voucherView{},
		Unavailable: []unavailableView{},
		Discount:    h.Vouchers.Discount(),
	}
	for _, v := range h.Vouchers.Available() {
		out.Available = append(out.Available, voucherView{
			Voucher:  v,
			Discount: domain.DiscountAmount(v, orderTotal),
			Selected: hasSel && sel.ID == v.ID,
		})
	}
	for _, u := range h.Vouchers.Unavailable() {
		out.Unavailable = append(out.Unavailable, unavailableView{Voucher: u.Voucher, Reason: u.Reason})
	}
	return out
}

// listVouchers loads the picker for ?order_total=&restaurant_id=.
func (h *handler) listVouchers(c *gin.Context) {
	total, err := strconv.ParseInt(c.Query("order_total"), 10, 64)
	if err != nil || total < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": codeInvalidArgument, "message": "order_total must be a non-negative integer"}})
		return
	}
	if err := h.Vouchers.Load(c.Request.Context(), total, c.Query("restaurant_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.vouchersView(total))
}

func (h *handler) blurVouchers(c *gin.Context) {
	h.Vouchers.Blur()
	c.Status(http.StatusNoContent)
}

func (h *handler) toggleVoucher(c *gin.Context) {
	selected, err := h.Vouchers.Toggle(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": selected, "discount": h.Vouchers.Discount()})
}

func (h *handler) applyVoucher(c *gin.Context) {
	applied, err := h.Vouchers.Apply(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, applied)
}
