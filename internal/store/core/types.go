package core

import "time"

// ProviderRecord is one configured SSO provider, either global
// (WorkspaceID nil) or scoped to a workspace. ClientSecret is sealed at rest
// when a secretbox master key is configured; the credential resolver unseals
// it on the way out.
type ProviderRecord struct {
	ID           string
	Slug         string
	Name         string
	ClientID     string
	ClientSecret string
	ExtraConfig  map[string]string
	Active       bool
	WorkspaceID  *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Attempt outcomes.
const (
	AttemptSuccess = "success"
	AttemptFailed  = "failed"
)

// LoginAttempt is one append-only audit record: exactly one per login
// attempt, written when the outcome is known, never updated.
type LoginAttempt struct {
	ID           string
	ProviderID   *string // resolved record, when an active one matched
	ProviderSlug string  // always kept, even when no record matched
	UserID       *string
	Status       string // success | failed
	IP           string
	CreatedAt    time.Time
}
