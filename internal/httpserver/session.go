package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piorhaii05/eatup/internal/session"
)

func (h *handler) getSession(c *gin.Context) {
	u, err := h.Sessions.CurrentUser(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// signIn stores the session the shell obtained from the login screen.
func (h *handler) signIn(c *gin.Context) {
	var s session.Session
	if !bind(c, &s) {
		return
	}
	if s.User.ID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": codeInvalidArgument, "message": "user._id is required"}})
		return
	}
	if err := h.Sessions.SignIn(c.Request.Context(), s); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": s.User})
}

func (h *handler) signOut(c *gin.Context) {
	if err := h.Sessions.SignOut(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
