package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth/state"
)

func TestBeginUnknownProvider(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest("GET", "/auth/login/github", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/sign-in?error=config_error", w.Header().Get("Location"))
}

func TestBeginEncodesLoginModeAndNonce(t *testing.T) {
	f := newFixture(t, kakaoMock())

	w := f.do(httptest.NewRequest("GET", "/auth/login/kakao", nil))
	assert.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)

	desc, err := f.codec.Decode(loc.Query().Get("state"))
	require.NoError(t, err)
	assert.Equal(t, state.ModeLogin, desc.Mode)
	assert.Empty(t, desc.LinkUserID)

	var nonceCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == nonceCookieName {
			nonceCookie = c
		}
	}
	require.NotNil(t, nonceCookie, "initiator must persist the correlation nonce")
	assert.Equal(t, desc.Nonce, nonceCookie.Value)
}

func TestBeginEncodesLinkMode(t *testing.T) {
	f := newFixture(t, kakaoMock())

	r := httptest.NewRequest("GET", "/auth/login/kakao?link_user_id=u-42", nil)
	r.AddCookie(signIn(t, f, "u-42"))
	w := f.do(r)
	assert.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)

	desc, err := f.codec.Decode(loc.Query().Get("state"))
	require.NoError(t, err)
	assert.Equal(t, state.ModeLink, desc.Mode)
	assert.Equal(t, "u-42", desc.LinkUserID)
}

// The initiator is a signing oracle for the state token, so it must
// not hand out link-mode states to callers who are not signed in as
// the account they name.
func TestBeginLinkRequiresMatchingSession(t *testing.T) {
	f := newFixture(t, kakaoMock())

	// Anonymous caller.
	w := f.do(httptest.NewRequest("GET", "/auth/login/kakao?link_user_id=u-42", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/sign-in?error=session_error", w.Header().Get("Location"))

	// Signed in, but as a different account.
	r := httptest.NewRequest("GET", "/auth/login/kakao?link_user_id=u-42", nil)
	r.AddCookie(signIn(t, f, "u-17"))
	w = f.do(r)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/sign-in?error=session_error", w.Header().Get("Location"))
}
