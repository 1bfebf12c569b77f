package auth

// Identity is a normalized external identity reconstructed from a
// provider's responses on every callback. It carries facts only and
// is never persisted as its own row; the account layer folds it into
// account metadata.
type Identity struct {
	Provider       string // "google", "kakao", "naver"
	ProviderUserID string // provider-scoped unique identifier (sub / id)
	Email          string
	EmailVerified  bool
	Name           string
	Picture        string
}
