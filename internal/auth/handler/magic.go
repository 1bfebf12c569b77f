package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/logger"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/metrics"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/session"
)

// magicVerify consumes a one-time login token and mints the session.
// The token is single-use: a second presentation, or an expired or
// unknown token, sends the user back to sign-in to restart the flow.
//
// GET /auth/magic/verify?token=<one-time token>
func (h *Handler) magicVerify(c *gin.Context) {
	token := c.Query("token")

	sess, err := h.establisher.ConsumeMagicLink(c.Request.Context(), token)
	if err != nil {
		logger.Warn("magic link consume failed", map[string]any{
			"error": err.Error(),
			"ip":    c.ClientIP(),
		})
		metrics.MagicLinkConsume.WithLabelValues("failed").Inc()
		c.Redirect(http.StatusFound, signInPath+"?error=session_error")
		return
	}

	session.SetCookie(c.Writer, sess.SessionID, sess.ExpiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	metrics.MagicLinkConsume.WithLabelValues("success").Inc()
	metrics.SessionsEstablished.WithLabelValues("magic_link").Inc()

	logger.Info("login succeeded", map[string]any{
		"account_id": sess.AccountID,
		"ip":         c.ClientIP(),
	})
	c.Redirect(http.StatusFound, "/")
}
