package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	nonceCookieName = "__Host-oauth-nonce"
	nonceTTL        = 10 * time.Minute
)

// setNonceCookie persists the correlation nonce client-side for the
// redirect round trip. It is compared against the nonce inside the
// signed state token when the provider sends the user back.
func setNonceCookie(c *gin.Context, nonce string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     nonceCookieName,
		Value:    nonce,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(nonceTTL.Seconds()),
	})
}

// verifyNonce compares the state token's nonce with the flow cookie
// and discards the cookie either way. A missing or mismatched nonce
// means the callback does not belong to a flow this browser started.
func verifyNonce(c *gin.Context, nonce string) bool {
	cookie, err := c.Request.Cookie(nonceCookieName)

	// Single use: clear regardless of outcome.
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     nonceCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	if err != nil || cookie.Value == "" {
		return false
	}
	return cookie.Value == nonce
}
