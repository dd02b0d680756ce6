package sso

import (
	"net/url"
)

// defaultScope is requested when neither the catalog entry nor the stored
// extra_config names one.
const defaultScope = "openid email profile"

// BuildAuthorizationURL assembles the URL the browser is redirected to for
// the given provider. Endpoint templates and overrides follow the same rules
// as the token and user-info URLs: extra_config wins over the catalog, and
// {key} placeholders are filled from extra_config. State is appended only
// when non-empty. scope precedence: caller value, then extra_config, then
// the default.
func BuildAuthorizationURL(slug string, creds Credentials, redirectURI, state, scope string) (string, error) {
	cfg, ok := Catalog(slug)
	if !ok && creds.ExtraConfig["authorization_url"] == "" {
		return "", &ProviderNotConfiguredError{Slug: slug}
	}

	raw := cfg.AuthorizationURL
	if v := creds.ExtraConfig["authorization_url"]; v != "" {
		raw = v
	}
	raw = resolveTemplate(raw, creds.ExtraConfig)
	if raw == "" {
		return "", &ProviderNotConfiguredError{Slug: slug}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", &OAuthProviderError{Detail: "malformed authorization endpoint", Err: err}
	}

	if scope == "" {
		scope = creds.ExtraConfig["scope"]
	}
	if scope == "" {
		scope = defaultScope
	}

	q := u.Query()
	q.Set("client_id", creds.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", scope)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
