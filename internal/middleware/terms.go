package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TermsAgreementPath is where stale sessions are sent to re-accept.
const TermsAgreementPath = "/auth/terms-agreement"

// defaultExcludedPrefixes bypass the gate entirely: auth pages, API
// routes, operational endpoints, and static assets.
var defaultExcludedPrefixes = []string{
	"/auth/",
	"/api/",
	"/health",
	"/metrics",
	"/static/",
	"/favicon",
	"/icons/",
	"/logo",
}

// TermsGate enforces that every authenticated request carries an
// up-to-date terms and privacy acceptance. It reads only the claims
// denormalized into the session; no database call happens here.
type TermsGate struct {
	RequiredVersion string
	AdminBypass     bool
	excluded        []string
}

func NewTermsGate(requiredVersion string, adminBypass bool) *TermsGate {
	return &TermsGate{
		RequiredVersion: requiredVersion,
		AdminBypass:     adminBypass,
		excluded:        defaultExcludedPrefixes,
	}
}

func (g *TermsGate) excludedPath(path string) bool {
	for _, prefix := range g.excluded {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (g *TermsGate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Loop prevention: the agreement page itself is never gated.
		if path == TermsAgreementPath {
			next.ServeHTTP(w, r)
			return
		}

		if g.excludedPath(path) {
			next.ServeHTTP(w, r)
			return
		}

		sess, ok := SessionFromContext(r.Context())
		if !ok {
			// Unauthenticated requests are the auth middleware's
			// concern, not the gate's.
			next.ServeHTTP(w, r)
			return
		}

		claims := sess.Claims

		if g.AdminBypass && claims.IsAdmin {
			next.ServeHTTP(w, r)
			return
		}

		if !claims.TermsAgreed || !claims.PrivacyAgreed ||
			claims.TermsAgreedVersion != g.RequiredVersion {
			http.Redirect(w, r, TermsAgreementPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GinTermsGate adapts the gate to Gin, same bridge as GinRequireAuth.
// Mount it after auth so session claims are already in context.
func GinTermsGate(gate *TermsGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		handler := gate.Handle(next)
		handler.ServeHTTP(c.Writer, c.Request)

		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}
