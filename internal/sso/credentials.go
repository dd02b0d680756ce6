package sso

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/ssobridge/internal/store/core"
)

// RecordStore is the slice of the persistence layer the SSO core needs:
// provider record lookup and the append-only attempt log.
type RecordStore interface {
	GetProviderRecord(ctx context.Context, slug string, workspaceID *int64, activeOnly bool) (*core.ProviderRecord, error)
	AppendLoginAttempt(ctx context.Context, att *core.LoginAttempt) error
}

// UnsealFunc decrypts a client secret stored sealed at rest. A nil func
// means secrets are stored in the clear.
type UnsealFunc func(sealed string) (string, error)

// CredentialResolver resolves {client_id, client_secret, extra_config} for a
// provider slug and optional workspace: store records first (scoped, then
// global), static config second. Inactive records are invisible here;
// disabled-ness is the orchestrator's concern.
type CredentialResolver struct {
	store    RecordStore
	fallback map[string]Credentials
	unseal   UnsealFunc
}

// NewCredentialResolver builds a resolver. fallback maps slug to static
// credentials from configuration and may be nil.
func NewCredentialResolver(store RecordStore, fallback map[string]Credentials, unseal UnsealFunc) *CredentialResolver {
	return &CredentialResolver{store: store, fallback: fallback, unseal: unseal}
}

// Resolve returns the credentials for slug. Lookup order: active scoped
// record (when workspaceID is set), active global record, static fallback.
// Exhausting all three fails with *ProviderNotConfiguredError.
func (r *CredentialResolver) Resolve(ctx context.Context, slug string, workspaceID *int64) (Credentials, error) {
	rec, err := lookupRecord(ctx, r.store, slug, workspaceID, true)
	if err != nil {
		return Credentials{}, err
	}
	if rec != nil {
		secret := rec.ClientSecret
		if r.unseal != nil && secret != "" {
			secret, err = r.unseal(secret)
			if err != nil {
				return Credentials{}, fmt.Errorf("sso: unseal client secret for %s: %w", slug, err)
			}
		}
		return Credentials{
			ClientID:     rec.ClientID,
			ClientSecret: secret,
			ExtraConfig:  rec.ExtraConfig,
		}, nil
	}

	if creds, ok := r.fallback[slug]; ok {
		return creds, nil
	}
	return Credentials{}, &ProviderNotConfiguredError{Slug: slug}
}

// lookupRecord runs the scoped/unscoped branch logic shared by credential
// resolution, the disabled check and audit reference resolution: the scoped
// branch only when a workspace was supplied, the global branch otherwise or
// on a scoped miss. Branches are separate queries, never merged. A miss in
// both is (nil, nil).
func lookupRecord(ctx context.Context, store RecordStore, slug string, workspaceID *int64, activeOnly bool) (*core.ProviderRecord, error) {
	if store == nil {
		return nil, nil
	}
	if workspaceID != nil {
		rec, err := store.GetProviderRecord(ctx, slug, workspaceID, activeOnly)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
	}
	rec, err := store.GetProviderRecord(ctx, slug, nil, activeOnly)
	if err == nil {
		return rec, nil
	}
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}
