// Package oauth assembles the dedicated provider adapters into a registry.
package oauth

import (
	"github.com/dropDatabas3/ssobridge/internal/oauth/facebook"
	"github.com/dropDatabas3/ssobridge/internal/oauth/github"
	"github.com/dropDatabas3/ssobridge/internal/oauth/google"
	"github.com/dropDatabas3/ssobridge/internal/sso"
)

// DefaultRegistry returns the standard registry: dedicated adapters for
// google, github and facebook, everything else served generically from the
// catalog.
func DefaultRegistry() *sso.Registry {
	return sso.NewRegistry(map[string]sso.Factory{
		"google":   func(creds sso.Credentials) sso.Provider { return google.New(creds) },
		"github":   func(creds sso.Credentials) sso.Provider { return github.New(creds) },
		"facebook": func(creds sso.Credentials) sso.Provider { return facebook.New(creds) },
	})
}

// IsDedicated reports whether the slug has a hand-written adapter instead of
// the generic catalog path.
func IsDedicated(slug string) bool {
	switch slug {
	case "google", "github", "facebook":
		return true
	}
	return false
}
