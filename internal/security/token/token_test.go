package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/ssobridge/internal/sso"
)

func TestIssueAndParse(t *testing.T) {
	i, err := NewIssuer([]byte("test-secret"), "ssobridge", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	bundle, err := i.Issue(context.Background(), &sso.LocalUser{ID: "u-1", Email: "a@b.c"})
	if err != nil {
		t.Fatal(err)
	}
	if bundle["token_type"] != "Bearer" || bundle["expires_in"] != int64(60) {
		t.Fatalf("bundle = %v", bundle)
	}

	sub, err := i.Parse(bundle["access_token"].(string))
	if err != nil {
		t.Fatal(err)
	}
	if sub != "u-1" {
		t.Fatalf("sub = %q", sub)
	}

	if _, ok := bundle["refresh_token"]; ok {
		t.Fatal("refresh_token present without RefreshTTL")
	}
}

func TestIssueWithRefreshTTL(t *testing.T) {
	i, err := NewIssuer([]byte("test-secret"), "ssobridge", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	i.RefreshTTL = time.Hour

	bundle, err := i.Issue(context.Background(), &sso.LocalUser{ID: "u-7"})
	if err != nil {
		t.Fatal(err)
	}
	refresh, ok := bundle["refresh_token"].(string)
	if !ok || refresh == "" {
		t.Fatalf("bundle = %v", bundle)
	}
	if refresh == bundle["access_token"].(string) {
		t.Fatal("refresh token must differ from access token")
	}
	sub, err := i.Parse(refresh)
	if err != nil {
		t.Fatal(err)
	}
	if sub != "u-7" {
		t.Fatalf("sub = %q", sub)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	a, _ := NewIssuer([]byte("secret-a"), "ssobridge", time.Minute)
	b, _ := NewIssuer([]byte("secret-b"), "ssobridge", time.Minute)

	bundle, err := a.Issue(context.Background(), &sso.LocalUser{ID: "u-1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Parse(bundle["access_token"].(string)); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	if _, err := NewIssuer(nil, "x", 0); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("got %v", err)
	}
}
