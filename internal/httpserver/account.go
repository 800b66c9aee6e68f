package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piorhaii05/eatup/internal/account/domain"
)

// userID writes the error itself and reports false when nobody is signed in.
func (h *handler) userID(c *gin.Context) (string, bool) {
	id, err := h.Sessions.CurrentUserID(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return "", false
	}
	return id, true
}

func (h *handler) listAddresses(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}
	addrs, err := h.Accounts.ListAddresses(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	if addrs == nil {
		addrs = []domain.Address{}
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addrs})
}

func (h *handler) setDefaultAddress(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}
	if err := h.Accounts.SetDefaultAddress(c.Request.Context(), uid, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type bankView struct {
	domain.BankCard
	Masked string `json:"masked"`
}

// newBankView never lets the full card number leave the process.
func newBankView(b domain.BankCard) bankView {
	masked := b.Masked()
	b.CardNumber = masked
	return bankView{BankCard: b, Masked: masked}
}

func (h *handler) listBanks(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}
	banks, err := h.Accounts.ListBanks(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]bankView, 0, len(banks))
	for _, b := range banks {
		out = append(out, newBankView(b))
	}
	c.JSON(http.StatusOK, gin.H{"banks": out})
}

func (h *handler) addBank(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}
	var card domain.NewCard
	if !bind(c, &card) {
		return
	}
	b, err := h.Accounts.AddBankCard(c.Request.Context(), uid, card)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBankView(b))
}

func (h *handler) setDefaultBank(c *gin.Context) {
	uid, ok := h.userID(c)
	if !ok {
		return
	}
	if err := h.Accounts.SetDefaultBank(c.Request.Context(), uid, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
