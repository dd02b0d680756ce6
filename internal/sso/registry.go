package sso

import "sort"

// Factory builds a dedicated provider adapter bound to the given credentials.
type Factory func(creds Credentials) Provider

// Registry resolves provider slugs to adapter instances. It is constructed
// once at startup from an explicit factory map and never mutated afterwards,
// so it is safe to share across requests without locking.
type Registry struct {
	dedicated map[string]Factory
}

// NewRegistry builds a registry from the dedicated factory map. The map is
// copied; later changes to the argument do not leak in.
func NewRegistry(dedicated map[string]Factory) *Registry {
	cp := make(map[string]Factory, len(dedicated))
	for slug, f := range dedicated {
		cp[slug] = f
	}
	return &Registry{dedicated: cp}
}

// Resolve returns the adapter for slug: a dedicated implementation when one
// is registered, otherwise a generic adapter for any catalog slug. Unknown
// slugs fail closed with *ProviderNotConfiguredError.
func (r *Registry) Resolve(slug string, creds Credentials) (Provider, error) {
	if f, ok := r.dedicated[slug]; ok {
		return f(creds), nil
	}
	if _, ok := Catalog(slug); ok {
		return NewGeneric(creds, slug)
	}
	return nil, &ProviderNotConfiguredError{Slug: slug}
}

// Slugs returns the sorted union of dedicated and catalog slugs, for
// capability discovery.
func (r *Registry) Slugs() []string {
	seen := make(map[string]struct{}, len(r.dedicated))
	out := make([]string, 0, len(r.dedicated))
	for slug := range r.dedicated {
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	for _, slug := range CatalogSlugs() {
		if _, ok := seen[slug]; !ok {
			out = append(out, slug)
		}
	}
	sort.Strings(out)
	return out
}
