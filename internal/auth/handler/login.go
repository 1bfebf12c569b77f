package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/metrics"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/session"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login signs in with email and password. It converges on the same
// session shape as the federated flows.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	accountID, err := h.credentialService.Authenticate(
		c.Request.Context(),
		req.Email,
		req.Password,
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	sess, err := h.establisher.CreateSessionByAccountID(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	session.SetCookie(c.Writer, sess.SessionID, sess.ExpiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	metrics.SessionsEstablished.WithLabelValues("password").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "logged_in"})
}
