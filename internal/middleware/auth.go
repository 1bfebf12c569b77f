package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/session"
)

// unexported, collision-proof context keys
type accountIDContextKeyType struct{}
type sessionContextKeyType struct{}

var (
	accountIDKey = accountIDContextKeyType{}
	sessionKey   = sessionContextKeyType{}
)

// AccountIDFromContext extracts the authenticated account ID from context.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok
}

// SessionFromContext extracts the full session, claims included, so
// downstream checks decide without a store round trip.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok
}

type AuthMiddleware struct {
	Store session.Store
}

func NewAuthMiddleware(store session.Store) *AuthMiddleware {
	return &AuthMiddleware{Store: store}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Read session cookie
		cookie, err := r.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sessionID := cookie.Value

		// 2. Load session
		sess, err := a.Store.Get(r.Context(), sessionID)
		if err != nil || sess == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 3. Enforce session expiry
		if time.Now().After(sess.ExpiresAt) {
			_ = a.Store.Delete(r.Context(), sessionID)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// 4. Attach account and claims to context
		ctx := context.WithValue(r.Context(), accountIDKey, sess.AccountID)
		ctx = context.WithValue(ctx, sessionKey, sess)

		// 5. Continue request
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ContextWithSession is a test helper mirroring what RequireAuth
// attaches for downstream middleware.
func ContextWithSession(ctx context.Context, sess *session.Session) context.Context {
	ctx = context.WithValue(ctx, accountIDKey, sess.AccountID)
	return context.WithValue(ctx, sessionKey, sess)
}
