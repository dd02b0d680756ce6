// Package github implements the dedicated GitHub adapter. GitHub is plain
// OAuth 2.0 without ID tokens, and a user's email may be private, in which
// case it only appears on the /user/emails endpoint.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/ssobridge/internal/sso"
)

const (
	tokenEndpoint = "https://github.com/login/oauth/access_token"
	userEndpoint  = "https://api.github.com/user"
	emailEndpoint = "https://api.github.com/user/emails"
)

// Adapter is the GitHub OAuth 2.0 client.
type Adapter struct {
	creds sso.Credentials

	tokenURL    string
	userURL     string
	emailURL    string
	fetchEmails bool
	http        *http.Client
}

// New creates a GitHub adapter bound to creds. extra_config may override
// token_url, user_info_url and emails_url. The /user/emails secondary call is
// off unless extra_config["fetch_emails"] is truthy, since it needs the
// user:email scope.
func New(creds sso.Credentials) *Adapter {
	a := &Adapter{
		creds:    creds,
		tokenURL: tokenEndpoint,
		userURL:  userEndpoint,
		emailURL: emailEndpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
	if v := creds.ExtraConfig["token_url"]; v != "" {
		a.tokenURL = v
	}
	if v := creds.ExtraConfig["user_info_url"]; v != "" {
		a.userURL = v
	}
	if v := creds.ExtraConfig["emails_url"]; v != "" {
		a.emailURL = v
	}
	if v := creds.ExtraConfig["fetch_emails"]; v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			a.fetchEmails = b
		}
	}
	return a
}

func (a *Adapter) Slug() string { return "github" }

type tokenPayload struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	Error       string `json:"error,omitempty"`
	ErrorDesc   string `json:"error_description,omitempty"`
}

// ExchangeCode exchanges an authorization code for an access token. GitHub
// answers 200 even on a bad grant and signals the failure in the body, so the
// error field is checked explicitly.
func (a *Adapter) ExchangeCode(ctx context.Context, code, redirectURI string) (*sso.TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", a.creds.ClientID)
	form.Set("client_secret", a.creds.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "github token request build failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, &sso.OAuthProviderError{Detail: "github token exchange failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, &sso.OAuthProviderError{Detail: fmt.Sprintf("github token endpoint returned status %d", resp.StatusCode)}
	}

	var tp tokenPayload
	if err := json.NewDecoder(resp.Body).Decode(&tp); err != nil {
		return nil, &sso.OAuthProviderError{Detail: "github token response decode failed", Err: err}
	}
	if tp.Error != "" {
		return nil, &sso.OAuthProviderError{Detail: "github token endpoint rejected the grant: " + tp.Error}
	}

	return &sso.TokenResponse{
		AccessToken: tp.AccessToken,
		Raw: map[string]any{
			"access_token": tp.AccessToken,
			"token_type":   tp.TokenType,
			"scope":        tp.Scope,
		},
	}, nil
}

type userPayload struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type emailPayload struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// GetUserInfo fetches /user. When fetch_emails is enabled and the profile
// email is private, it falls back to /user/emails preferring the primary
// verified address; a failed emails fetch leaves the email empty rather than
// failing the login.
func (a *Adapter) GetUserInfo(ctx context.Context, accessToken string) (*sso.UserInfo, error) {
	var up userPayload
	if err := a.getJSON(ctx, a.userURL, accessToken, &up); err != nil {
		return nil, err
	}

	email := up.Email
	if email == "" && a.fetchEmails {
		if found, err := a.primaryEmail(ctx, accessToken); err == nil {
			email = found
		}
	}

	name := up.Name
	if name == "" {
		name = up.Login
	}

	return &sso.UserInfo{
		ID:      strconv.FormatInt(up.ID, 10),
		Email:   email,
		Name:    name,
		Picture: up.AvatarURL,
	}, nil
}

// primaryEmail picks an address from /user/emails: primary verified first,
// then any verified, then the first listed. An empty list is not an error;
// the identity simply has no email.
func (a *Adapter) primaryEmail(ctx context.Context, accessToken string) (string, error) {
	var emails []emailPayload
	if err := a.getJSON(ctx, a.emailURL, accessToken, &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", nil
}

func (a *Adapter) getJSON(ctx context.Context, rawURL, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &sso.OAuthProviderError{Detail: "github api request build failed", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return &sso.OAuthProviderError{Detail: "github api fetch failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return &sso.OAuthProviderError{Detail: fmt.Sprintf("github api returned status %d", resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &sso.OAuthProviderError{Detail: "github api decode failed", Err: err}
	}
	return nil
}
