package core

import "context"

// Repository is the persistence contract the SSO core consumes: provider
// record lookup keyed by slug and (optional) workspace, plus the append-only
// login attempt log. Admin CRUD rides on the same interface so drivers stay
// interchangeable.
type Repository interface {
	Ping(ctx context.Context) error
	Close() error

	// GetProviderRecord looks up a record by slug. workspaceID nil matches
	// global records only; non-nil matches that workspace only — the two
	// branches are never merged. With activeOnly, inactive records count as
	// absent. Misses return ErrNotFound.
	GetProviderRecord(ctx context.Context, slug string, workspaceID *int64, activeOnly bool) (*ProviderRecord, error)

	// Admin surface.
	CreateProviderRecord(ctx context.Context, rec *ProviderRecord) error
	UpdateProviderRecord(ctx context.Context, rec *ProviderRecord) error
	DeleteProviderRecord(ctx context.Context, id string) error
	ListProviderRecords(ctx context.Context, workspaceID *int64) ([]*ProviderRecord, error)

	// Audit log: append-only, never updated or deleted here.
	AppendLoginAttempt(ctx context.Context, att *LoginAttempt) error
	ListLoginAttempts(ctx context.Context, slug string, limit int) ([]*LoginAttempt, error)
}
