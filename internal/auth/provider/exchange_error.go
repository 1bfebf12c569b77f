package provider

import (
	"errors"

	"golang.org/x/oauth2"

	"github.com/pinetree-kr/homepage-zion-painting-sub002/internal/auth"
)

// NormalizeExchangeError converts provider-specific token endpoint
// failures into a single TokenExchangeError. The provider-reported
// error code is used as the reason when parseable, else the raw HTTP
// status text.
func NormalizeExchangeError(name string, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		reason := re.ErrorCode
		if reason == "" && re.Response != nil {
			reason = re.Response.Status
		}
		if re.ErrorDescription != "" {
			reason += ": " + re.ErrorDescription
		}
		return auth.TokenExchangeError(name, reason, err)
	}
	return auth.TokenExchangeError(name, "", err)
}
