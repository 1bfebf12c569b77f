package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/state"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/logger"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/session"
)

// begin is the authorization initiator: it builds the outbound
// authorization URL with the mode descriptor signed into the state
// parameter and hands the browser a correlation nonce cookie. It
// never contacts the provider.
//
// GET /auth/login/:provider?link_user_id=<account>
// link_user_id present selects the linking flow on return, and is
// only honored when the caller is already signed in as that account.
func (h *Handler) begin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		// Missing credentials mean the provider was never registered.
		c.Redirect(http.StatusFound, signInPath+"?error=config_error")
		return
	}

	desc := state.Descriptor{
		Mode:  state.ModeLogin,
		Nonce: state.NewNonce(),
	}
	if linkUserID := c.Query("link_user_id"); linkUserID != "" {
		// Linking mutates an existing account. The signed state only
		// proves this server issued it, so the authorization has to
		// come from the session, never from the query string alone.
		if h.currentAccountID(c) != linkUserID {
			logger.Warn("link initiation without matching session", map[string]any{
				"provider":   providerName,
				"account_id": linkUserID,
				"ip":         c.ClientIP(),
			})
			h.failLogin(c, providerName, auth.CodeSession)
			return
		}
		desc.Mode = state.ModeLink
		desc.LinkUserID = linkUserID
	}

	stateToken, err := h.stateCodec.Encode(desc)
	if err != nil {
		logger.Error("state encode failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.Redirect(http.StatusFound, signInPath+"?error=config_error")
		return
	}

	setNonceCookie(c, desc.Nonce)

	authURL := p.AuthCodeURL(stateToken, redirectURI(c, providerName))
	c.Redirect(http.StatusFound, authURL)
}

// currentAccountID resolves the request's session cookie to the
// account it authenticates, or "" when there is no live session.
func (h *Handler) currentAccountID(c *gin.Context) string {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	sess, err := h.sessionStore.Get(c.Request.Context(), cookie.Value)
	if err != nil || sess == nil || time.Now().After(sess.ExpiresAt) {
		return ""
	}
	return sess.AccountID
}
