// Package google implements the dedicated Google adapter. Google serves
// standard OIDC claims from its userinfo endpoint, so the adapter is a thin
// typed client over the token and userinfo URLs.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/ssobridge/internal/sso"
)

const (
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	userInfoEndpoint = "https://openidconnect.googleapis.com/v1/userinfo"
)

// Adapter is the Google OAuth 2.0 / OIDC client.
type Adapter struct {
	creds sso.Credentials

	tokenURL    string
	userInfoURL string
	http        *http.Client
}

// New creates a Google adapter bound to creds. extra_config may override
// token_url and user_info_url, which tests and proxied deployments use.
func New(creds sso.Credentials) *Adapter {
	a := &Adapter{
		creds:       creds,
		tokenURL:    tokenEndpoint,
		userInfoURL: userInfoEndpoint,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
	if v := creds.ExtraConfig["token_url"]; v != "" {
		a.tokenURL = v
	}
	if v := creds.ExtraConfig["user_info_url"]; v != "" {
		a.userInfoURL = v
	}
	return a
}

func (a *Adapter) Slug() string { return "google" }

type tokenPayload struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	IDToken     string `json:"id_token"`
	Error       string `json:"error,omitempty"`
	ErrorDesc   string `json:"error_description,omitempty"`
}

// ExchangeCode exchanges an authorization code for an access token.
func (a *Adapter) ExchangeCode(ctx context.Context, code, redirectURI string) (*sso.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", a.creds.ClientID)
	form.Set("client_secret", a.creds.ClientSecret)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "google token request build failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "google token exchange failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, &sso.OAuthProviderError{Detail: fmt.Sprintf("google token endpoint returned status %d", resp.StatusCode)}
	}

	var tp tokenPayload
	if err := json.NewDecoder(resp.Body).Decode(&tp); err != nil {
		return nil, &sso.OAuthProviderError{Detail: "google token response decode failed", Err: err}
	}
	if tp.Error != "" {
		return nil, &sso.OAuthProviderError{Detail: "google token endpoint rejected the grant: " + tp.Error}
	}

	return &sso.TokenResponse{
		AccessToken: tp.AccessToken,
		Raw: map[string]any{
			"access_token": tp.AccessToken,
			"token_type":   tp.TokenType,
			"expires_in":   tp.ExpiresIn,
			"id_token":     tp.IDToken,
		},
	}, nil
}

type userPayload struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GetUserInfo fetches the OIDC userinfo claims.
func (a *Adapter) GetUserInfo(ctx context.Context, accessToken string) (*sso.UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userInfoURL, nil)
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "google user info request build failed", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "google user info fetch failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, &sso.OAuthProviderError{Detail: fmt.Sprintf("google user info endpoint returned status %d", resp.StatusCode)}
	}

	var up userPayload
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		return nil, &sso.OAuthProviderError{Detail: "google user info decode failed", Err: err}
	}

	return &sso.UserInfo{
		ID:      up.Sub,
		Email:   up.Email,
		Name:    up.Name,
		Picture: up.Picture,
	}, nil
}
