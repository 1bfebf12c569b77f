// Package terms tracks acceptance of the terms-of-service and
// privacy policy. Agreements are append-only: every (re-)acceptance
// writes a new row and the latest row per kind determines standing.
package terms

import (
	"context"
	"time"
)

const (
	KindTerms   = "terms"
	KindPrivacy = "privacy"
)

type Agreement struct {
	AccountID string
	Kind      string // "terms" | "privacy"
	Version   string
	AgreedAt  time.Time
	IPAddress string
	UserAgent string
}

// Store persists agreements. Latest returns (nil, nil) when the
// account has never agreed to the given kind.
type Store interface {
	Append(ctx context.Context, a Agreement) error
	Latest(ctx context.Context, accountID, kind string) (*Agreement, error)
}

// Standing is the denormalized acceptance snapshot embedded into
// session claims so the gate never needs a database call.
type Standing struct {
	TermsAgreed        bool
	PrivacyAgreed      bool
	TermsAgreedVersion string
}

// Service answers acceptance questions against a single required
// version. Changing the required version invalidates every existing
// acceptance at once.
type Service struct {
	store           Store
	requiredVersion string
}

func NewService(store Store, requiredVersion string) *Service {
	return &Service{store: store, requiredVersion: requiredVersion}
}

func (s *Service) RequiredVersion() string {
	return s.requiredVersion
}

// Accept records acceptance of both kinds at the required version.
func (s *Service) Accept(ctx context.Context, accountID, ip, userAgent string) error {
	now := time.Now()
	for _, kind := range []string{KindTerms, KindPrivacy} {
		err := s.store.Append(ctx, Agreement{
			AccountID: accountID,
			Kind:      kind,
			Version:   s.requiredVersion,
			AgreedAt:  now,
			IPAddress: ip,
			UserAgent: userAgent,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Standing reads the latest agreement per kind for the account.
func (s *Service) Standing(ctx context.Context, accountID string) (Standing, error) {
	var st Standing

	latestTerms, err := s.store.Latest(ctx, accountID, KindTerms)
	if err != nil {
		return Standing{}, err
	}
	if latestTerms != nil {
		st.TermsAgreed = true
		st.TermsAgreedVersion = latestTerms.Version
	}

	latestPrivacy, err := s.store.Latest(ctx, accountID, KindPrivacy)
	if err != nil {
		return Standing{}, err
	}
	st.PrivacyAgreed = latestPrivacy != nil

	return st, nil
}

// Current reports whether a standing satisfies the required version.
func (s *Service) Current(st Standing) bool {
	return st.TermsAgreed && st.PrivacyAgreed && st.TermsAgreedVersion == s.requiredVersion
}
