package sso

import (
	"context"
	"errors"
	"sort"
	"testing"
)

type stubProvider struct{ slug string }

func (p *stubProvider) Slug() string { return p.slug }
func (p *stubProvider) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	return &TokenResponse{AccessToken: "stub"}, nil
}
func (p *stubProvider) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	return &UserInfo{ID: "stub"}, nil
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry(map[string]Factory{
		"github": func(creds Credentials) Provider { return &stubProvider{slug: "github"} },
	})

	t.Run("dedicated wins over catalog", func(t *testing.T) {
		p, err := reg.Resolve("github", Credentials{})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := p.(*stubProvider); !ok {
			t.Fatalf("expected dedicated adapter, got %T", p)
		}
	})

	t.Run("catalog slug gets generic", func(t *testing.T) {
		p, err := reg.Resolve("spotify", Credentials{ClientID: "x"})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := p.(*GenericProvider); !ok {
			t.Fatalf("expected generic adapter, got %T", p)
		}
	})

	t.Run("unknown slug fails closed", func(t *testing.T) {
		_, err := reg.Resolve("no-such-idp", Credentials{})
		var nferr *ProviderNotConfiguredError
		if !errors.As(err, &nferr) {
			t.Fatalf("expected *ProviderNotConfiguredError, got %v", err)
		}
	})
}

func TestRegistrySlugs(t *testing.T) {
	reg := NewRegistry(map[string]Factory{
		"custom-idp": func(creds Credentials) Provider { return &stubProvider{slug: "custom-idp"} },
		"google":     func(creds Credentials) Provider { return &stubProvider{slug: "google"} },
	})
	slugs := reg.Slugs()
	if !sort.StringsAreSorted(slugs) {
		t.Fatal("slugs not sorted")
	}
	seen := map[string]int{}
	for _, s := range slugs {
		seen[s]++
	}
	if seen["google"] != 1 {
		t.Fatalf("google appears %d times", seen["google"])
	}
	if seen["custom-idp"] != 1 || seen["okta"] != 1 {
		t.Fatalf("union incomplete: %v", seen)
	}
}

func TestRegistryCopiesFactoryMap(t *testing.T) {
	src := map[string]Factory{
		"github": func(creds Credentials) Provider { return &stubProvider{slug: "github"} },
	}
	reg := NewRegistry(src)
	delete(src, "github")
	if _, err := reg.Resolve("github", Credentials{}); err != nil {
		t.Fatalf("registry mutated through source map: %v", err)
	}
}
