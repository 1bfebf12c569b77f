package handler

import (
	"github.com/gin-gonic/gin"
)

// redirectURI derives the callback URI from the inbound request
// instead of fixed configuration, so one deployment can serve several
// hosts. The derived value must exactly match the URI registered with
// the provider or the exchange fails.
func redirectURI(c *gin.Context, providerName string) string {
	scheme := c.GetHeader("X-Forwarded-Proto")
	if scheme == "" {
		if c.Request.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	return scheme + "://" + c.Request.Host + "/auth/callback/" + providerName
}
