package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth/resolver"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/handshake"
)

type completeProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CompleteProfile fills the name fields of a freshly-created external
// identity. The step is bound to the single-use ticket minted by the
// callback, so a guessed user id alone cannot reach it.
func (h *Handler) CompleteProfile(c *gin.Context) {
	userID := c.Param("userId")

	// Bind before redeeming: a malformed body must not consume the
	// single-use ticket.
	var req completeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ticketUserID, err := h.handshakes.RedeemTicket(c.Request.Context(), c.Query("ticket"))
	if errors.Is(err, handshake.ErrNotFound) || (err == nil && ticketUserID != userID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired completion ticket"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	u, err := h.resolver.CompleteProfile(c.Request.Context(), userID, req.FirstName, req.LastName)
	if err != nil {
		var ve *resolver.ValidationError
		switch {
		case errors.Is(err, resolver.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		}
		return
	}

	// A partial submission leaves the profile incomplete. Tokens are
	// reserved for complete identities, so hand back a fresh ticket and
	// send the user around again.
	if !u.Complete() {
		ticket, err := h.handshakes.IssueTicket(c.Request.Context(), u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}
		c.Redirect(http.StatusFound,
			h.frontendURL+"/complete-profile?userId="+u.ID+"&ticket="+ticket)
		return
	}

	signed, err := h.codec.Sign(u.ID, h.codec.DefaultTTL())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL+"/home?token="+signed)
}
