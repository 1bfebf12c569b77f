package session

import (
	"context"
	"time"
)

// Claims are denormalized into the session record so the terms gate
// can decide without a database round trip.
type Claims struct {
	TermsAgreed        bool   `json:"terms_agreed"`
	PrivacyAgreed      bool   `json:"privacy_agreed"`
	TermsAgreedVersion string `json:"terms_agreed_version"`
	IsAdmin            bool   `json:"is_admin"`
}

// Session represents an authenticated user session. Both login paths
// (identity token and magic link) converge on this shape; a reader
// cannot tell which one produced it.
type Session struct {
	SessionID string    `json:"session_id"`
	AccountID string    `json:"account_id"`
	Claims    Claims    `json:"claims"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store defines how sessions are stored and retrieved.
// Implementations (e.g., Redis) must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
