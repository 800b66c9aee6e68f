package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/piorhaii05/eatup/internal/cart/domain"
)

type cartItemView struct {
	domain.CartItem
	LineTotal int64    `json:"line_total"`
	Selected  bool     `json:"selected"`
	ImageURLs []string `json:"image_urls"`
}

type cartGroupView struct {
	RestaurantID   string         `json:"restaurant_id"`
	RestaurantName string         `json:"restaurant_name"`
	Items          []cartItemView `json:"items"`
}

type cartView struct {
	Groups          []cartGroupView `json:"groups"`
	Subtotal        int64           `json:"subtotal"`
	CheckoutEnabled bool            `json:"checkout_enabled"`
}

func (h *handler) cartView() cartView {
	groups := h.Cart.Groups()
	out := cartView{
		Groups:          make([]cartGroupView, 0, len(groups)),
		Subtotal:        h.Cart.Subtotal(),
		CheckoutEnabled: h.Cart.IsCheckoutEnabled(),
	}
	for _, g := range groups {
		gv := cartGroupView{RestaurantID: g.RestaurantID, RestaurantName: g.RestaurantName}
		for _, it := range g.Items {
			urls := make([]string, 0, len(it.ProductImage))
			for _, p := range it.ProductImage {
				urls = append(urls, h.Cart.ImageURL(p))
			}
			gv.Items = append(gv.Items, cartItemView{
				CartItem:  it,
				LineTotal: it.LineTotal(),
				Selected:  h.Cart.IsSelected(it.ProductID),
				ImageURLs: urls,
			})
		}
		out.Groups = append(out.Groups, gv)
	}
	return out
}

func (h *handler) getCart(c *gin.Context) {
	if err := h.Cart.Refresh(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartView())
}

func (h *handler) blurCart(c *gin.Context) {
	h.Cart.Blur()
	c.Status(http.StatusNoContent)
}

func (h *handler) toggleCartItem(c *gin.Context) {
	if _, err := h.Cart.ToggleSelect(c.Param("productId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartView())
}

func (h *handler) incrementCartItem(c *gin.Context) {
	if err := h.Cart.Increment(c.Request.Context(), c.Param("productId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartView())
}

func (h *handler) decrementCartItem(c *gin.Context) {
	if err := h.Cart.Decrement(c.Request.Context(), c.Param("productId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cartView())
}

// removeCartItem only deletes when the shell passes confirm=true, which it
// does after asking the user.
func (h *handler) removeCartItem(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	removed, err := h.Cart.Remove(c.Request.Context(), c.Param("productId"), func(domain.CartItem) bool {
		return confirmed
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusConflict, gin.H{"error": gin.H{"code": codeFailedPrecondition, "message": "Removal needs confirmation"}})
		return
	}
	c.JSON(http.StatusOK, h.cartView())
}
