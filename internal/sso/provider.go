// Package sso implements the provider abstraction and login orchestration for
// third-party OAuth2/OIDC sign-in: a polymorphic Provider contract, a registry
// of dedicated adapters with a catalog-driven generic fallback, credential
// resolution (store first, static config second) and the login state machine.
package sso

import "context"

// Credentials carries the client credentials and instance-specific extra
// configuration for one provider. It is passed by value into an adapter and
// must never be retained beyond the adapter's lifetime nor written to logs.
type Credentials struct {
	ClientID     string
	ClientSecret string
	ExtraConfig  map[string]string
}

// TokenResponse is the provider's raw token-exchange result. Only AccessToken
// is interpreted by the orchestrator; everything else rides along in Raw.
type TokenResponse struct {
	AccessToken string
	Raw         map[string]any
}

// UserInfo is the canonical user shape every adapter must produce,
// regardless of the provider's response envelope.
type UserInfo struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// Provider is implemented by every identity-provider adapter: the dedicated
// ones (google, github, facebook) and the catalog-driven generic adapter.
type Provider interface {
	// Slug returns the provider identifier (e.g. "google", "okta").
	Slug() string

	// ExchangeCode trades an authorization code for tokens. It fails with
	// *OAuthProviderError when required credentials are absent or the
	// provider call fails (non-2xx, transport error, timeout).
	ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error)

	// GetUserInfo fetches and normalizes user info for the access token.
	// Fields the provider does not supply come back empty; a missing field
	// is never an error by itself.
	GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}
