// Package facebook implements the dedicated Facebook adapter over the Graph
// API. The profile picture comes back nested under picture.data.url.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dropDatabas3/ssobridge/internal/sso"
)

const (
	tokenEndpoint    = "https://graph.facebook.com/v18.0/oauth/access_token"
	userInfoEndpoint = "https://graph.facebook.com/me"
)

// Adapter is the Facebook Graph API OAuth client.
type Adapter struct {
	creds sso.Credentials

	tokenURL    string
	userInfoURL string
	http        *http.Client
}

// New creates a Facebook adapter bound to creds. extra_config may override
// token_url and user_info_url.
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

func (a *Adapter) Slug() string { return "facebook" }

type tokenPayload struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ExchangeCode exchanges an authorization code for an access token. The Graph
// API takes the grant as query parameters on a GET.
func (a *Adapter) ExchangeCode(ctx context.Context, code, redirectURI string) (*sso.TokenResponse, error) {
	u, err := url.Parse(a.tokenURL)
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "facebook token endpoint malformed", Err: err}
	}
	q := u.Query()
	q.Set("client_id", a.creds.ClientID)
	q.Set("client_secret", a.creds.ClientSecret)
	q.Set("code", code)
	q.Set("redirect_uri", redirectURI)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "facebook token request build failed", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "facebook token exchange failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, &sso.OAuthProviderError{Detail: fmt.Sprintf("facebook token endpoint returned status %d", resp.StatusCode)}
	}

	var tp tokenPayload
	if err := json.NewDecoder(resp.Body).Decode(&tp); err != nil {
		return nil, &sso.OAuthProviderError{Detail: "facebook token response decode failed", Err: err}
	}

	return &sso.TokenResponse{
		AccessToken: tp.AccessToken,
		Raw: map[string]any{
			"access_token": tp.AccessToken,
			"token_type":   tp.TokenType,
			"expires_in":   tp.ExpiresIn,
		},
	}, nil
}

type userPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// GetUserInfo fetches /me with an explicit field list.
func (a *Adapter) GetUserInfo(ctx context.Context, accessToken string) (*sso.UserInfo, error) {
	u, err := url.Parse(a.userInfoURL)
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "facebook user info endpoint malformed", Err: err}
	}
	q := u.Query()
	q.Set("fields", "id,name,email,picture")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "facebook user info request build failed", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "facebook user info fetch failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, &sso.OAuthProviderError{Detail: fmt.Sprintf("facebook user info endpoint returned status %d", resp.StatusCode)}
	}

	var up userPayload
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		return nil, &sso.OAuthProviderError{Detail: "facebook user info decode failed", Err: err}
	}

	return &sso.UserInfo{
		ID:      up.ID,
		Email:   up.Email,
		Name:    up.Name,
		Picture: up.Picture.Data.URL,
	}, nil
}
