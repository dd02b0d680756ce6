package sso

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/ssobridge/internal/audit"
	"github.com/dropDatabas3/ssobridge/internal/metrics"
	"github.com/dropDatabas3/ssobridge/internal/observability/logger"
	"github.com/dropDatabas3/ssobridge/internal/store/core"
)

// RequestInfo carries the transport-level facts the core and its callbacks
// may use (client IP for audit, user agent for host heuristics). It is the
// "originating request" without dragging net/http into the core.
type RequestInfo struct {
	IP        string
	UserAgent string
}

// LocalUser is the application-side user the host resolves a provider
// identity to.
type LocalUser struct {
	ID       string
	Email    string
	Username string
}

// TokenBundle is whatever the host's token issuer returns; the core passes it
// through opaquely.
type TokenBundle map[string]any

// Host callbacks, supplied once at construction. No per-call lookup.
type (
	// GetOrCreateUserFunc resolves provider user info to a local user.
	GetOrCreateUserFunc func(ctx context.Context, slug string, info *UserInfo, req RequestInfo) (user *LocalUser, created bool, err error)

	// IssueTokensFunc mints the session token bundle for a resolved user.
	IssueTokensFunc func(ctx context.Context, user *LocalUser, req RequestInfo) (TokenBundle, error)

	// ValidateStateFunc checks an OAuth state value. Optional; when absent,
	// state is not validated at this layer.
	ValidateStateFunc func(ctx context.Context, state string, req RequestInfo) bool
)

// LoginRequest is one login attempt.
type LoginRequest struct {
	Provider    string
	Code        string
	RedirectURI string
	WorkspaceID *int64
	State       *string // nil = not supplied
	Meta        RequestInfo
}

// LoginResult is the successful outcome: the resolved user plus the issued
// tokens.
type LoginResult struct {
	User   *LocalUser
	Tokens TokenBundle
}

// LoginService orchestrates the full SSO login sequence.
type LoginService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

// LoginDeps contains dependencies for the login service.
type LoginDeps struct {
	Store       RecordStore
	Registry    *Registry
	Credentials *CredentialResolver
	Audit       audit.Sink

	GetOrCreateUser GetOrCreateUserFunc
	IssueTokens     IssueTokensFunc
	ValidateState   ValidateStateFunc
}

type loginService struct {
	deps LoginDeps
}

// NewLoginService creates a new LoginService.
func NewLoginService(deps LoginDeps) LoginService {
	return &loginService{deps: deps}
}

// Login runs the login state machine. Failure semantics per step:
//
//   - disabled / not-configured / invalid-state are configuration-time
//     rejections: no provider call happened, so no attempt is recorded;
//   - everything from the code exchange onward records exactly one failed
//     attempt before re-raising as *OAuthProviderError;
//   - success records exactly one success attempt before returning.
func (s *loginService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("sso.login"),
		logger.Op("Login"),
		logger.String("provider", req.Provider),
	)

	// 1. Disabled check. A record that exists and is explicitly inactive
	// rejects the attempt before any credential work.
	rec, err := lookupRecord(ctx, s.deps.Store, req.Provider, req.WorkspaceID, false)
	if err != nil {
		return nil, err
	}
	if rec != nil && !rec.Active {
		log.Info("provider disabled")
		return nil, &ProviderDisabledError{Slug: req.Provider}
	}

	// 2. Credential resolution. Propagates unlogged.
	creds, err := s.deps.Credentials.Resolve(ctx, req.Provider, req.WorkspaceID)
	if err != nil {
		return nil, err
	}

	// 3. Provider resolution.
	provider, err := s.deps.Registry.Resolve(req.Provider, creds)
	if err != nil {
		return nil, err
	}

	// 4. Optional state validation. A blank state counts as not supplied.
	if s.deps.ValidateState != nil && req.State != nil && *req.State != "" {
		if !s.deps.ValidateState(ctx, *req.State, req.Meta) {
			log.Info("state validation failed")
			return nil, &InvalidStateError{}
		}
	}

	// 5. Code exchange.
	started := time.Now()
	tokenResp, err := provider.ExchangeCode(ctx, req.Code, req.RedirectURI)
	metrics.ExchangeLatency.WithLabelValues(req.Provider).Observe(float64(time.Since(started).Milliseconds()))
	if err != nil {
		log.Warn("code exchange failed", logger.Err(err))
		metrics.ProviderErrors.WithLabelValues(req.Provider, "exchange").Inc()
		s.recordAttempt(ctx, req, nil, core.AttemptFailed)
		return nil, asProviderError(err, "token exchange failed")
	}

	// 6. Access-token presence.
	if tokenResp.AccessToken == "" {
		log.Warn("token response has no access_token")
		metrics.ProviderErrors.WithLabelValues(req.Provider, "exchange").Inc()
		s.recordAttempt(ctx, req, nil, core.AttemptFailed)
		return nil, &OAuthProviderError{Detail: "no access_token in response"}
	}

	// 7. User-info fetch.
	info, err := provider.GetUserInfo(ctx, tokenResp.AccessToken)
	if err != nil {
		log.Warn("user info fetch failed", logger.Err(err))
		metrics.ProviderErrors.WithLabelValues(req.Provider, "userinfo").Inc()
		s.recordAttempt(ctx, req, nil, core.AttemptFailed)
		return nil, asProviderError(err, "user info fetch failed")
	}

	// 8. Local user resolution.
	if s.deps.GetOrCreateUser == nil {
		return nil, &ProviderNotConfiguredError{Slug: req.Provider}
	}
	user, _, err := s.deps.GetOrCreateUser(ctx, req.Provider, info, req.Meta)
	if err != nil {
		log.Error("get-or-create user callback failed", logger.Err(err))
		metrics.ProviderErrors.WithLabelValues(req.Provider, "resolve_user").Inc()
		s.recordAttempt(ctx, req, nil, core.AttemptFailed)
		return nil, &OAuthProviderError{Detail: "user resolution failed", Err: err}
	}
	if user == nil {
		log.Warn("get-or-create user callback returned no user")
		metrics.ProviderErrors.WithLabelValues(req.Provider, "resolve_user").Inc()
		s.recordAttempt(ctx, req, nil, core.AttemptFailed)
		return nil, &OAuthProviderError{Detail: "user could not be resolved"}
	}

	// 9. Token issuance. The user reference is known now, so a failure here
	// records it.
	if s.deps.IssueTokens == nil {
		return nil, &ProviderNotConfiguredError{Slug: req.Provider}
	}
	tokens, err := s.deps.IssueTokens(ctx, user, req.Meta)
	if err != nil {
		log.Error("issue tokens callback failed", logger.Err(err), logger.UserID(user.ID))
		metrics.ProviderErrors.WithLabelValues(req.Provider, "issue_tokens").Inc()
		s.recordAttempt(ctx, req, &user.ID, core.AttemptFailed)
		return nil, &OAuthProviderError{Detail: "token issuance failed", Err: err}
	}

	// 10. Success.
	s.recordAttempt(ctx, req, &user.ID, core.AttemptSuccess)
	log.Info("login succeeded", logger.UserID(user.ID))
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// recordAttempt writes the single audit record for this attempt. The write is
// best-effort but synchronous, and detached from request cancellation so an
// aborted login still leaves exactly one record. The provider reference is
// re-resolved over active records only, on the same scoped/unscoped branch as
// credential resolution; when none matches, the raw slug alone is kept.
func (s *loginService) recordAttempt(ctx context.Context, req LoginRequest, userID *string, status string) {
	ctx = context.WithoutCancel(ctx)

	var providerID *string
	if rec, err := lookupRecord(ctx, s.deps.Store, req.Provider, req.WorkspaceID, true); err == nil && rec != nil {
		providerID = &rec.ID
	}

	att := &core.LoginAttempt{
		ProviderID:   providerID,
		ProviderSlug: req.Provider,
		UserID:       userID,
		Status:       status,
		IP:           req.Meta.IP,
	}
	if s.deps.Audit != nil {
		_ = s.deps.Audit.Record(ctx, att) // failure already logged by the sink
	}
	metrics.LoginAttempts.WithLabelValues(req.Provider, status).Inc()
}

// asProviderError passes *OAuthProviderError through untouched and wraps
// anything else with a neutral detail, keeping provider faults uniform for
// callers without leaking internals.
func asProviderError(err error, detail string) error {
	var oerr *OAuthProviderError
	if errors.As(err, &oerr) {
		return oerr
	}
	return &OAuthProviderError{Detail: detail, Err: err}
}
