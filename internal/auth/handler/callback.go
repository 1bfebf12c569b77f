package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/provider"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/state"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/logger"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/metrics"
	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/session"
)

// callback is the dispatcher for the provider redirect:
//
//	Start -> CodeReceived -> ModeDecoded ->
//	  {Linking | LoginIDToken | LoginMagicLink} -> Success | Failed
//
// Every failure terminates the machine with a coded reason; nothing
// is retried because authorization codes are single-use. Login-mode
// failures redirect to the sign-in page; link-mode failures go back
// to the profile page, since the user is mid-session there and must
// not be signed out by a failed link attempt.
func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")
	ctx := c.Request.Context()

	p, err := h.providers.Get(providerName)
	if err != nil {
		h.failLogin(c, providerName, auth.CodeConfig)
		return
	}

	// Start: provider-reported error, very common when the user
	// declines consent upstream.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("provider returned callback error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		metrics.CallbackTotal.WithLabelValues(providerName, "login", string(auth.CodeProviderDenied)).Inc()
		c.Redirect(http.StatusFound, signInPath+"?error="+providerName+"_auth_failed")
		return
	}

	// Start -> CodeReceived
	code := c.Query("code")
	if code == "" {
		logger.Error("callback missing code and error", map[string]any{
			"provider": providerName,
		})
		h.failLogin(c, providerName, auth.CodeNoCode)
		return
	}

	// CodeReceived -> ModeDecoded. The state token is signed: a
	// tampered or malformed value fails here instead of silently
	// selecting a flow.
	desc, err := h.stateCodec.Decode(c.Query("state"))
	if err != nil {
		h.failLogin(c, providerName, auth.CodeInvalidState)
		return
	}
	if !verifyNonce(c, desc.Nonce) {
		h.failLogin(c, providerName, auth.CodeInvalidState)
		return
	}

	// Link mode is re-authorized here: the state token is bearer-ish
	// (anyone who obtains one can replay it), so the browser must
	// still hold the session of the account being linked. Checked
	// before the exchange so an unauthorized attempt burns no code.
	if desc.Mode == state.ModeLink && h.currentAccountID(c) != desc.LinkUserID {
		logger.Warn("link callback without matching session", map[string]any{
			"provider":   providerName,
			"account_id": desc.LinkUserID,
			"ip":         c.ClientIP(),
		})
		h.failLogin(c, providerName, auth.CodeSession)
		return
	}

	tokens, err := p.Exchange(ctx, code, redirectURI(c, providerName))
	if err != nil {
		h.fail(c, providerName, desc, auth.CodeOf(err))
		return
	}

	identity, err := p.FetchIdentity(ctx, tokens)
	if err != nil {
		h.fail(c, providerName, desc, auth.CodeOf(err))
		return
	}

	// ModeDecoded -> {Linking | Login...}. Routing is a pure function
	// of the descriptor; no other signal participates.
	if desc.Mode == state.ModeLink {
		h.link(c, providerName, desc.LinkUserID, identity)
		return
	}
	h.login(c, providerName, identity, tokens)
}

func (h *Handler) link(c *gin.Context, providerName, linkUserID string, identity *auth.Identity) {
	err := h.linker.Link(c.Request.Context(), linkUserID, identity)
	if err != nil {
		code := auth.CodeUnknown
		if errors.Is(err, auth.ErrConflict) {
			code = auth.CodeConflict
		} else {
			logger.Error("linking failed", map[string]any{
				"provider":   providerName,
				"account_id": linkUserID,
				"error":      err.Error(),
			})
		}
		h.failLink(c, providerName, code)
		return
	}

	metrics.CallbackTotal.WithLabelValues(providerName, "link", "success").Inc()
	c.Redirect(http.StatusFound, h.profilePath+"?linked="+url.QueryEscape(providerName))
}

func (h *Handler) login(c *gin.Context, providerName string, identity *auth.Identity, tokens *provider.Tokens) {
	res, err := h.establisher.Establish(c.Request.Context(), identity, tokens)
	if err != nil {
		logger.Error("session establishment failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		h.failLogin(c, providerName, auth.CodeOf(err))
		return
	}

	if res.Session != nil {
		session.SetCookie(c.Writer, res.Session.SessionID, res.Session.ExpiresAt, session.CookieOptions{
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
		metrics.CallbackTotal.WithLabelValues(providerName, "login", "success").Inc()
		metrics.SessionsEstablished.WithLabelValues("id_token").Inc()

		logger.Info("login succeeded", map[string]any{
			"provider":   providerName,
			"account_id": res.Session.AccountID,
			"ip":         c.ClientIP(),
		})
		c.Redirect(http.StatusFound, "/")
		return
	}

	// Magic-link path: the one-time token is consumed right away by
	// the verify endpoint, which mints the session.
	metrics.CallbackTotal.WithLabelValues(providerName, "login", "success").Inc()
	c.Redirect(http.StatusFound, "/auth/magic/verify?token="+url.QueryEscape(res.MagicToken))
}

func (h *Handler) fail(c *gin.Context, providerName string, desc state.Descriptor, code auth.Code) {
	if desc.Mode == state.ModeLink {
		h.failLink(c, providerName, code)
		return
	}
	h.failLogin(c, providerName, code)
}

func (h *Handler) failLogin(c *gin.Context, providerName string, code auth.Code) {
	metrics.CallbackTotal.WithLabelValues(providerName, "login", string(code)).Inc()
	c.Redirect(http.StatusFound, signInPath+"?error="+url.QueryEscape(string(code)))
}

func (h *Handler) failLink(c *gin.Context, providerName string, code auth.Code) {
	metrics.CallbackTotal.WithLabelValues(providerName, "link", string(code)).Inc()
	c.Redirect(http.StatusFound, h.profilePath+"?error="+url.QueryEscape(string(code)))
}
