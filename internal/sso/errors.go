package sso

import "fmt"

// Error codes exposed to API clients. Controllers map these onto HTTP statuses;
// the codes themselves are part of the public contract and must stay stable.
const (
	CodeProviderNotConfigured = "provider_not_configured"
	CodeProviderDisabled      = "provider_disabled"
	CodeInvalidState          = "invalid_state"
	CodeOAuthProviderError    = "oauth_provider_error"
)

// ProviderNotConfiguredError indicates that a provider slug resolves to nothing:
// no store record, no static fallback, no catalog entry.
type ProviderNotConfiguredError struct {
	Slug string
}

func (e *ProviderNotConfiguredError) Error() string {
	if e.Slug == "" {
		return "sso: provider is not configured"
	}
	return fmt.Sprintf("sso: provider %q is not configured", e.Slug)
}

// Code returns the machine-readable error code.
func (e *ProviderNotConfiguredError) Code() string { return CodeProviderNotConfigured }

// ProviderDisabledError indicates the provider record exists but is explicitly inactive.
type ProviderDisabledError struct {
	Slug string
}

func (e *ProviderDisabledError) Error() string {
	return fmt.Sprintf("sso: provider %q is disabled", e.Slug)
}

func (e *ProviderDisabledError) Code() string { return CodeProviderDisabled }

// InvalidStateError indicates the OAuth state parameter failed validation.
type InvalidStateError struct{}

func (e *InvalidStateError) Error() string { return "sso: invalid or expired state parameter" }

func (e *InvalidStateError) Code() string { return CodeInvalidState }

// OAuthProviderError covers any failure of the provider round trip: transport
// errors, non-2xx responses, missing access_token, and downstream callback
// faults. Detail must never contain client_secret, access tokens, or
// extra_config values.
type OAuthProviderError struct {
	Detail string
	Err    error
}

func (e *OAuthProviderError) Error() string {
	if e.Detail != "" {
		return "sso: " + e.Detail
	}
	return "sso: oauth provider error"
}

func (e *OAuthProviderError) Unwrap() error { return e.Err }

func (e *OAuthProviderError) Code() string { return CodeOAuthProviderError }

// providerErr builds an OAuthProviderError with a formatted detail.
// The cause is retained for logs but excluded from the client-visible detail.
func providerErr(err error, format string, args ...any) *OAuthProviderError {
	return &OAuthProviderError{Detail: fmt.Sprintf(format, args...), Err: err}
}
