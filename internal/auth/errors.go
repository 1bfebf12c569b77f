package auth

import (
	"errors"
	"fmt"
)

// Code classifies every failure the callback flow can surface.
// Codes are stable: they end up in redirect query strings and the
// frontend maps them to user-facing messages.
type Code string

const (
	CodeConfig         Code = "config_error"
	CodeProviderDenied Code = "provider_denied"
	CodeNoCode         Code = "no_code"
	CodeInvalidState   Code = "invalid_state"
	CodeTokenExchange  Code = "token_exchange_failed"
	CodeIdentityFetch  Code = "identity_fetch_failed"
	CodeConflict       Code = "already_linked"
	CodeSession        Code = "session_error"
	CodeUnknown        Code = "callback_error"
)

// FlowError is the single failure type crossing the callback
// dispatcher boundary. Every error raised inside the flow is either
// a FlowError or gets wrapped into one with CodeUnknown.
type FlowError struct {
	Code     Code
	Provider string
	Reason   string // provider-reported reason when parseable
	Err      error
}

func (e *FlowError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Provider, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Code, e.Provider, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Code, e.Provider)
}

func (e *FlowError) Unwrap() error { return e.Err }

func NewFlowError(code Code, provider, reason string, err error) *FlowError {
	return &FlowError{Code: code, Provider: provider, Reason: reason, Err: err}
}

// TokenExchangeError marks an authorization code the provider refused:
// invalid, expired, or already consumed. Never retried.
func TokenExchangeError(provider, reason string, err error) *FlowError {
	return &FlowError{Code: CodeTokenExchange, Provider: provider, Reason: reason, Err: err}
}

// IdentityFetchError marks a rejected access token or a network
// failure while reading the provider's user-info endpoint.
func IdentityFetchError(provider string, err error) *FlowError {
	return &FlowError{Code: CodeIdentityFetch, Provider: provider, Err: err}
}

// ErrConflict is returned when an external identity is already bound
// to a different local account. The linking flow performs no mutation
// in that case.
var ErrConflict = errors.New("identity already linked to a different account")

// CodeOf maps any error to its flow code; non-flow errors collapse
// into the catch-all so nothing propagates unhandled.
func CodeOf(err error) Code {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Code
	}
	if errors.Is(err, ErrConflict) {
		return CodeConflict
	}
	return CodeUnknown
}
