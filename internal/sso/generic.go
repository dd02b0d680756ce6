package sso

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// httpTimeout bounds every outbound provider call so a hanging IDP cannot
// occupy a worker indefinitely. No retries at this layer.
const httpTimeout = 30 * time.Second

var defaultHTTPClient = &http.Client{Timeout: httpTimeout}

// GenericProvider satisfies the Provider contract for any slug present in the
// built-in catalog, without dedicated code. Endpoints may be overridden and
// templated via the record's extra_config.
type GenericProvider struct {
	slug  string
	creds Credentials
	cfg   EndpointConfig

	http *http.Client
}

// NewGeneric builds a generic adapter for slug. It fails with
// *OAuthProviderError when the slug has no catalog entry.
func NewGeneric(creds Credentials, slug string) (*GenericProvider, error) {
	slug = strings.TrimSpace(slug)
	cfg, ok := Catalog(slug)
	if !ok || slug == "" {
		return nil, &OAuthProviderError{Detail: fmt.Sprintf("unknown or unsupported generic provider: %q", slug)}
	}

	// extra_config may override each endpoint (e.g. Okta domain baked into a
	// full URL, self-hosted GitLab). Override happens before placeholder
	// substitution.
	for key, dst := range map[string]*string{
		"token_url":         &cfg.TokenURL,
		"user_info_url":     &cfg.UserInfoURL,
		"authorization_url": &cfg.AuthorizationURL,
	} {
		if v := creds.ExtraConfig[key]; v != "" {
			*dst = v
		}
	}

	return &GenericProvider{
		slug:  slug,
		creds: creds,
		cfg:   cfg,
		http:  defaultHTTPClient,
	}, nil
}

func (g *GenericProvider) Slug() string { return g.slug }

// AuthorizationURL returns the provider's authorization endpoint with
// placeholders resolved, or "" when none is configured.
func (g *GenericProvider) AuthorizationURL() string {
	return resolveTemplate(g.cfg.AuthorizationURL, g.creds.ExtraConfig)
}

// ExchangeCode performs the standard OAuth2 authorization-code POST.
func (g *GenericProvider) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	if g.creds.ClientID == "" || g.creds.ClientSecret == "" {
		return nil, &OAuthProviderError{Detail: "missing client_id or client_secret for " + g.slug}
	}
	tokenURL := resolveTemplate(g.cfg.TokenURL, g.creds.ExtraConfig)
	if tokenURL == "" {
		return nil, &OAuthProviderError{Detail: "missing token_url for " + g.slug}
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", g.creds.ClientID)
	form.Set("client_secret", g.creds.ClientSecret)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, providerErr(err, "token request build failed for %s", g.slug)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, providerErr(err, "token exchange failed for %s", g.slug)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &OAuthProviderError{Detail: fmt.Sprintf("token endpoint returned status %d for %s", resp.StatusCode, g.slug)}
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, providerErr(err, "token response decode failed for %s", g.slug)
	}

	tr := &TokenResponse{Raw: raw}
	if v, ok := raw["access_token"].(string); ok {
		tr.AccessToken = v
	}
	return tr, nil
}

// GetUserInfo fetches the user-info endpoint and normalizes the response via
// the catalog's field-path map. Providers without a user-info URL (Apple,
// pure-authentication setups) yield an all-empty UserInfo instead of an error.
func (g *GenericProvider) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	infoURL := resolveTemplate(g.cfg.UserInfoURL, g.creds.ExtraConfig)
	if infoURL == "" {
		return &UserInfo{}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return nil, providerErr(err, "user info request build failed for %s", g.slug)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, providerErr(err, "user info fetch failed for %s", g.slug)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &OAuthProviderError{Detail: fmt.Sprintf("user info endpoint returned status %d for %s", resp.StatusCode, g.slug)}
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, providerErr(err, "user info decode failed for %s", g.slug)
	}

	return normalizeUserInfo(doc, g.cfg.UserInfoMap), nil
}

// resolveTemplate replaces every {key} token that has a non-empty value in
// extra with that value, trimmed of surrounding slashes. Unresolved
// placeholders stay verbatim; the caller decides whether the result is usable.
func resolveTemplate(tmpl string, extra map[string]string) string {
	if tmpl == "" {
		return ""
	}
	for key, value := range extra {
		if value == "" {
			continue
		}
		token := "{" + key + "}"
		if strings.Contains(tmpl, token) {
			tmpl = strings.ReplaceAll(tmpl, token, strings.Trim(value, "/"))
		}
	}
	return strings.TrimSpace(tmpl)
}
