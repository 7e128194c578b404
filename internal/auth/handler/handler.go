// Package handler is the request boundary of the identity core: local
// registration and login, the external-provider handshake, and profile
// completion. It composes the token codec, the identity resolver, and the
// handshake store; it owns no identity logic of its own.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth/provider"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/auth/resolver"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/handshake"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/logger"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/metrics"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/token"
)

type Handler struct {
	providers   *provider.Registry
	resolver    resolver.Resolver
	codec       *token.Codec
	handshakes  *handshake.Store
	metrics     *metrics.Collector
	frontendURL string
}

func NewHandler(
	registry *provider.Registry,
	res resolver.Resolver,
	codec *token.Codec,
	handshakes *handshake.Store,
	m *metrics.Collector,
	frontendURL string,
) *Handler {
	return &Handler{
		providers:   registry,
		resolver:    res,
		codec:       codec,
		handshakes:  handshakes,
		metrics:     m,
		frontendURL: frontendURL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/:provider", h.providerLogin)
	r.GET("/auth/:provider/callback", h.providerCallback)
	r.POST("/users/:userId/complete-profile", h.CompleteProfile)
}

// providerLogin starts the external handshake: it stores one-time state
// with the PKCE verifier and sends the browser to the provider.
func (h *Handler) providerLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown oauth provider"})
		return
	}

	verifier, challenge := generatePKCE()

	state, err := h.handshakes.PutState(c.Request.Context(), handshake.State{
		Provider:     providerName,
		CodeVerifier: verifier,
	})
	if err != nil {
		logger.Error("failed to store handshake state", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, challenge))
}

// providerCallback finishes the handshake: consume the state, exchange the
// code, resolve the identity, then either issue a token or route the new
// user to profile completion with a single-use ticket.
func (h *Handler) providerCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown oauth provider"})
		return
	}

	st, err := h.handshakes.TakeState(c.Request.Context(), c.Query("state"))
	if err != nil || st.Provider != providerName {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid state"})
		return
	}

	// Providers report declined or failed handshakes via error params.
	// Send the user back to start a fresh flow.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, h.frontendURL+"/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	profile, err := p.ExchangeCode(c.Request.Context(), code, st.CodeVerifier)
	if err != nil {
		logger.Warn("oauth code exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	u, err := h.resolver.ResolveExternal(c.Request.Context(), profile)
	if err != nil {
		logger.Error("failed to resolve external identity", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
		return
	}

	h.metrics.RecordExternalLogin(providerName, u.Complete())

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

	c.Redirect(http.StatusFound, h.frontendURL+"/profile/"+u.ID+"?token="+signed)
}
