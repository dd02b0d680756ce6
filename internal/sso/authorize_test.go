package sso

import (
	"errors"
	"net/url"
	"testing"
)

func TestBuildAuthorizationURL(t *testing.T) {
	got, err := BuildAuthorizationURL("github", Credentials{ClientID: "cid"}, "https://app/cb", "xyz", "")
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "github.com" {
		t.Fatalf("host = %q", u.Host)
	}
	q := u.Query()
	if q.Get("client_id") != "cid" || q.Get("redirect_uri") != "https://app/cb" ||
		q.Get("response_type") != "code" || q.Get("state") != "xyz" {
		t.Fatalf("query = %v", q)
	}
	if q.Get("scope") != defaultScope {
		t.Fatalf("scope = %q", q.Get("scope"))
	}
}

func TestBuildAuthorizationURLTemplated(t *testing.T) {
	creds := Credentials{ClientID: "cid", ExtraConfig: map[string]string{"domain": "acme.okta.com"}}
	got, err := BuildAuthorizationURL("okta", creds, "https://app/cb", "", "")
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse(got)
	if u.Host != "acme.okta.com" {
		t.Fatalf("placeholder not resolved: %q", got)
	}
	if u.Query().Has("state") {
		t.Fatal("empty state must not be appended")
	}
}

func TestBuildAuthorizationURLOverrides(t *testing.T) {
	creds := Credentials{ClientID: "cid", ExtraConfig: map[string]string{
		"authorization_url": "https://sso.internal/oauth/authorize",
		"scope":             "read:user",
	}}
	got, err := BuildAuthorizationURL("github", creds, "https://app/cb", "", "")
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse(got)
	if u.Host != "sso.internal" || u.Query().Get("scope") != "read:user" {
		t.Fatalf("override ignored: %q", got)
	}
}

func TestBuildAuthorizationURLCallerScopeWins(t *testing.T) {
	creds := Credentials{ClientID: "cid", ExtraConfig: map[string]string{"scope": "read:user"}}
	got, err := BuildAuthorizationURL("github", creds, "https://app/cb", "", "repo read:org")
	if err != nil {
		t.Fatal(err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("scope") != "repo read:org" {
		t.Fatalf("scope = %q, want caller value", u.Query().Get("scope"))
	}
}

func TestBuildAuthorizationURLUnknownSlug(t *testing.T) {
	_, err := BuildAuthorizationURL("no-such-idp", Credentials{}, "https://app/cb", "", "")
	var nferr *ProviderNotConfiguredError
	if !errors.As(err, &nferr) {
		t.Fatalf("expected *ProviderNotConfiguredError, got %v", err)
	}
}
