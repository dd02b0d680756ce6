package sso

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testCreds(extra map[string]string) Credentials {
	return Credentials{ClientID: "cid", ClientSecret: "sec", ExtraConfig: extra}
}

func TestNewGenericUnknownSlug(t *testing.T) {
	_, err := NewGeneric(testCreds(nil), "definitely-not-a-provider")
	var oerr *OAuthProviderError
	if !errors.As(err, &oerr) {
		t.Fatalf("expected *OAuthProviderError, got %v", err)
	}
}

func TestExchangeCodeMissingCredentials(t *testing.T) {
	g, err := NewGeneric(Credentials{}, "google")
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.ExchangeCode(context.Background(), "code", "http://cb")
	var oerr *OAuthProviderError
	if !errors.As(err, &oerr) {
		t.Fatalf("expected *OAuthProviderError, got %v", err)
	}
}

func TestExchangeCode(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		gotForm = map[string]string{
			"grant_type":   r.PostFormValue("grant_type"),
			"code":         r.PostFormValue("code"),
			"client_id":    r.PostFormValue("client_id"),
			"redirect_uri": r.PostFormValue("redirect_uri"),
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	g, err := NewGeneric(testCreds(map[string]string{"token_url": srv.URL}), "google")
	if err != nil {
		t.Fatal(err)
	}
	tr, err := g.ExchangeCode(context.Background(), "the-code", "https://app/cb")
	if err != nil {
		t.Fatal(err)
	}
	if tr.AccessToken != "tok-123" {
		t.Fatalf("access token = %q", tr.AccessToken)
	}
	if tr.Raw["token_type"] != "Bearer" {
		t.Fatalf("raw payload not retained: %v", tr.Raw)
	}
	if gotForm["grant_type"] != "authorization_code" || gotForm["code"] != "the-code" ||
		gotForm["client_id"] != "cid" || gotForm["redirect_uri"] != "https://app/cb" {
		t.Fatalf("unexpected form: %v", gotForm)
	}
}

func TestExchangeCodeNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	g, err := NewGeneric(testCreds(map[string]string{"token_url": srv.URL}), "google")
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.ExchangeCode(context.Background(), "bad", "https://app/cb")
	var oerr *OAuthProviderError
	if !errors.As(err, &oerr) {
		t.Fatalf("expected *OAuthProviderError, got %v", err)
	}
	// Detail carries only the status, never the response body.
	if want := "token endpoint returned status 400 for google"; oerr.Detail != want {
		t.Fatalf("detail = %q, want %q", oerr.Detail, want)
	}
}

func TestGetUserInfoEnveloped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("authorization header = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id": 991,
				"attributes": map[string]any{
					"email":     "m@example.com",
					"full_name": "M Example",
				},
			},
		})
	}))
	defer srv.Close()

	g, err := NewGeneric(testCreds(map[string]string{"user_info_url": srv.URL}), "patreon")
	if err != nil {
		t.Fatal(err)
	}
	info, err := g.GetUserInfo(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if info.ID != "991" || info.Email != "m@example.com" || info.Name != "M Example" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestGetUserInfoNoEndpoint(t *testing.T) {
	// Apple has no user-info endpoint; the adapter yields an empty identity
	// rather than an error.
	g, err := NewGeneric(testCreds(nil), "apple")
	if err != nil {
		t.Fatal(err)
	}
	info, err := g.GetUserInfo(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if *info != (UserInfo{}) {
		t.Fatalf("expected empty identity, got %+v", info)
	}
}

func TestResolveTemplate(t *testing.T) {
	cases := []struct {
		name  string
		tmpl  string
		extra map[string]string
		want  string
	}{
		{"no placeholders", "https://x/token", nil, "https://x/token"},
		{"simple", "https://{domain}/oauth2/v1/token", map[string]string{"domain": "acme.okta.com"}, "https://acme.okta.com/oauth2/v1/token"},
		{"slashes trimmed", "{base_url}/realms/{realm}/token", map[string]string{"base_url": "https://kc.acme.io/", "realm": "main"}, "https://kc.acme.io/realms/main/token"},
		{"empty value skipped", "https://{domain}/token", map[string]string{"domain": ""}, "https://{domain}/token"},
		{"unknown key verbatim", "https://{tenant}/token", map[string]string{"domain": "x"}, "https://{tenant}/token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveTemplate(tc.tmpl, tc.extra); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEndpointOverridePrecedesSubstitution(t *testing.T) {
	// A full URL in extra_config replaces the catalog template before any
	// placeholder work, so templates in the override are themselves resolved.
	g, err := NewGeneric(testCreds(map[string]string{
		"token_url": "https://{host}/custom/token",
		"host":      "sso.internal",
	}), "okta")
	if err != nil {
		t.Fatal(err)
	}
	if got := resolveTemplate(g.cfg.TokenURL, g.creds.ExtraConfig); got != "https://sso.internal/custom/token" {
		t.Fatalf("token url = %q", got)
	}
}
