package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/logger"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/middleware"
)

// TermsStatus reports the caller's acceptance standing against the
// required version, straight from session claims.
func (h *Handler) TermsStatus(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"terms_agreed":         sess.Claims.TermsAgreed,
		"privacy_agreed":       sess.Claims.PrivacyAgreed,
		"terms_agreed_version": sess.Claims.TermsAgreedVersion,
		"required_version":     h.termsService.RequiredVersion(),
	})
}

// AcceptTerms appends fresh agreement rows for both kinds at the
// required version and refreshes the session claims in place, so the
// gate opens on the very next request.
func (h *Handler) AcceptTerms(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	err := h.termsService.Accept(ctx, sess.AccountID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		logger.Error("terms acceptance write failed", map[string]any{
			"account_id": sess.AccountID,
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "agreement failed"})
		return
	}

	updated := *sess
	updated.Claims.TermsAgreed = true
	updated.Claims.PrivacyAgreed = true
	updated.Claims.TermsAgreedVersion = h.termsService.RequiredVersion()

	if err := h.sessionStore.Update(ctx, updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "agreement failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "agreed",
		"version": h.termsService.RequiredVersion(),
	})
}
