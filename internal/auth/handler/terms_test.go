package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/session"
)

func seedSession(t *testing.T, f *fixture, claims session.Claims) session.Session {
	t.Helper()

	sid, err := session.GenerateID()
	require.NoError(t, err)

	now := time.Now()
	sess := session.Session{
		SessionID: sid,
		AccountID: "u-42",
		Claims:    claims,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, f.sessions.Create(context.Background(), sess))
	return sess
}

func TestTermsStatusReportsClaims(t *testing.T) {
	f := newFixture(t)
	sess := seedSession(t, f, session.Claims{
		TermsAgreed:        true,
		PrivacyAgreed:      true,
		TermsAgreedVersion: "v1",
	})

	r := httptest.NewRequest("GET", "/auth/terms-agreement", nil)
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.SessionID})
	w := f.do(r)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["terms_agreed"])
	assert.Equal(t, "v1", body["terms_agreed_version"])
	assert.Equal(t, "v2", body["required_version"])
}

func TestTermsStatusRequiresSession(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest("GET", "/auth/terms-agreement", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// Acceptance appends agreement rows and refreshes the session claims
// in place so the gate opens on the next request.
func TestAcceptTermsRefreshesSessionClaims(t *testing.T) {
	f := newFixture(t)
	sess := seedSession(t, f, session.Claims{
		TermsAgreed:        true,
		PrivacyAgreed:      true,
		TermsAgreedVersion: "v1", // stale against required v2
	})

	r := httptest.NewRequest("POST", "/auth/terms-agreement", nil)
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.SessionID})
	w := f.do(r)

	require.Equal(t, http.StatusOK, w.Code)

	updated, err := f.sessions.Get(context.Background(), sess.SessionID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.Claims.TermsAgreed)
	assert.True(t, updated.Claims.PrivacyAgreed)
	assert.Equal(t, "v2", updated.Claims.TermsAgreedVersion)

	standing, err := f.terms.Standing(context.Background(), "u-42")
	require.NoError(t, err)
	assert.True(t, f.terms.Current(standing))
}
