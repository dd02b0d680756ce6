package sso

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ssobridge/internal/audit"
	"github.com/dropDatabas3/ssobridge/internal/store/core"
)

// scriptedProvider lets each test dictate the outcome of both provider calls.
type scriptedProvider struct {
	exchange  func(ctx context.Context) (*TokenResponse, error)
	userInfo  func(ctx context.Context) (*UserInfo, error)
	exchanged int
}

func (p *scriptedProvider) Slug() string { return "github" }

func (p *scriptedProvider) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	p.exchanged++
	if p.exchange != nil {
		return p.exchange(ctx)
	}
	return &TokenResponse{AccessToken: "tok", Raw: map[string]any{"access_token": "tok"}}, nil
}

func (p *scriptedProvider) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	if p.userInfo != nil {
		return p.userInfo(ctx)
	}
	return &UserInfo{ID: "gh-1", Email: "dev@example.com"}, nil
}

type loginFixture struct {
	store    *fakeStore
	provider *scriptedProvider
	deps     LoginDeps
}

func newLoginFixture(store *fakeStore) *loginFixture {
	f := &loginFixture{store: store, provider: &scriptedProvider{}}
	f.deps = LoginDeps{
		Store: store,
		Registry: NewRegistry(map[string]Factory{
			"github": func(creds Credentials) Provider { return f.provider },
		}),
		Credentials: NewCredentialResolver(store, map[string]Credentials{
			"github": {ClientID: "id", ClientSecret: "sec"},
		}, nil),
		Audit: audit.NewStoreSink(store),
		GetOrCreateUser: func(ctx context.Context, slug string, info *UserInfo, req RequestInfo) (*LocalUser, bool, error) {
			return &LocalUser{ID: "u-1", Email: info.Email}, false, nil
		},
		IssueTokens: func(ctx context.Context, user *LocalUser, req RequestInfo) (TokenBundle, error) {
			return TokenBundle{"access": "jwt"}, nil
		},
	}
	return f
}

func loginReq() LoginRequest {
	return LoginRequest{
		Provider:    "github",
		Code:        "the-code",
		RedirectURI: "https://app/cb",
		Meta:        RequestInfo{IP: "203.0.113.9"},
	}
}

func TestLoginSuccess(t *testing.T) {
	store := &fakeStore{records: []*core.ProviderRecord{
		{ID: "rec-1", Slug: "github", ClientID: "id", ClientSecret: "sec", Active: true},
	}}
	svc := NewLoginService(newLoginFixture(store).deps)

	res, err := svc.Login(context.Background(), loginReq())
	require.NoError(t, err)
	require.Equal(t, "u-1", res.User.ID)
	require.Equal(t, "jwt", res.Tokens["access"])

	require.Len(t, store.attempts, 1)
	att := store.attempts[0]
	assert.Equal(t, core.AttemptSuccess, att.Status)
	assert.Equal(t, "github", att.ProviderSlug)
	assert.Equal(t, "203.0.113.9", att.IP)
	require.NotNil(t, att.UserID)
	assert.Equal(t, "u-1", *att.UserID)
	require.NotNil(t, att.ProviderID)
	assert.Equal(t, "rec-1", *att.ProviderID)
	assert.NotEmpty(t, att.ID)
	assert.False(t, att.CreatedAt.IsZero())
}

func TestLoginDisabledProvider(t *testing.T) {
	store := &fakeStore{records: []*core.ProviderRecord{
		{ID: "rec-1", Slug: "github", ClientID: "id", Active: false},
	}}
	f := newLoginFixture(store)
	svc := NewLoginService(f.deps)

	_, err := svc.Login(context.Background(), loginReq())
	var derr *ProviderDisabledError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "github", derr.Slug)

	// Rejected before credential resolution: a single store query (the
	// disabled check), no provider call, no attempt record.
	assert.Equal(t, []string{"global:github"}, store.queries)
	assert.Zero(t, f.provider.exchanged)
	assert.Empty(t, store.attempts)
}

func TestLoginNotConfigured(t *testing.T) {
	store := &fakeStore{}
	f := newLoginFixture(store)
	f.deps.Credentials = NewCredentialResolver(store, nil, nil)
	svc := NewLoginService(f.deps)

	_, err := svc.Login(context.Background(), loginReq())
	var nferr *ProviderNotConfiguredError
	require.ErrorAs(t, err, &nferr)
	assert.Empty(t, store.attempts)
}

func TestLoginInvalidState(t *testing.T) {
	store := &fakeStore{}
	f := newLoginFixture(store)
	f.deps.ValidateState = func(ctx context.Context, state string, req RequestInfo) bool { return false }
	svc := NewLoginService(f.deps)

	req := loginReq()
	state := "forged"
	req.State = &state
	_, err := svc.Login(context.Background(), req)
	var serr *InvalidStateError
	require.ErrorAs(t, err, &serr)
	assert.Zero(t, f.provider.exchanged)
	assert.Empty(t, store.attempts)
}

func TestLoginStateAbsentSkipsValidation(t *testing.T) {
	store := &fakeStore{}
	f := newLoginFixture(store)
	f.deps.ValidateState = func(ctx context.Context, state string, req RequestInfo) bool { return false }
	svc := NewLoginService(f.deps)

	_, err := svc.Login(context.Background(), loginReq())
	require.NoError(t, err)
}

func TestLoginBlankStateSkipsValidation(t *testing.T) {
	store := &fakeStore{}
	f := newLoginFixture(store)
	validated := 0
	f.deps.ValidateState = func(ctx context.Context, state string, req RequestInfo) bool {
		validated++
		return false
	}
	svc := NewLoginService(f.deps)

	req := loginReq()
	state := ""
	req.State = &state
	_, err := svc.Login(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, validated)
}

func TestLoginExchangeFailure(t *testing.T) {
	store := &fakeStore{}
	f := newLoginFixture(store)
	f.provider.exchange = func(ctx context.Context) (*TokenResponse, error) {
		return nil, &OAuthProviderError{Detail: "token endpoint returned status 400 for github"}
	}
	svc := NewLoginService(f.deps)

	_, err := svc.Login(context.Background(), loginReq())
	var oerr *OAuthProviderError
	require.ErrorAs(t, err, &oerr)

	require.Len(t, store.attempts, 1)
	att := store.attempts[0]
	assert.Equal(t, core.AttemptFailed, att.Status)
	assert.Nil(t, att.UserID)
	assert.Nil(t, att.ProviderID) // no active record to reference
}

func TestLoginMissingAccessToken(t *testing.T) {
	store := &fakeStore{}
	f := newLoginFixture(store)
	f.provider.exchange = func(ctx context.Context) (*TokenResponse, error) {
		return &TokenResponse{Raw: map[string]any{"token_type": "Bearer"}}, nil
	}
	svc := NewLoginService(f.deps)

	_, err := svc.Login(context.Background(), loginReq())
	var oerr *OAuthProviderError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "no access_token in response", oerr.Detail)

	require.Len(t, store.attempts, 1)
	assert.Equal(t, core.AttemptFailed, store.attempts[0].Status)
	assert.Nil(t, store.attempts[0].UserID)
}

func TestLoginUserInfoFailure(t *testing.T) {
	store := &fakeStore{}
	f := newLoginFixture(store)
	f.provider.userInfo = func(ctx context.Context) (*UserInfo, error) {
		return nil, errors.New("boom")
	}
	svc := NewLoginService(f.deps)

	_, err := svc.Login(context.Background(), loginReq())
	var oerr *OAuthProviderError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "user info fetch failed", oerr.Detail)
	require.Len(t, store.attempts, 1)
	assert.Equal(t, core.AttemptFailed, store.attempts[0].Status)
}

func TestLoginUserResolutionFailure(t *testing.T) {
	store := &fakeStore{}
	f := newLoginFixture(store)
	f.deps.GetOrCreateUser = func(ctx context.Context, slug string, info *UserInfo, req RequestInfo) (*LocalUser, bool, error) {
		return nil, false, nil
	}
	svc := NewLoginService(f.deps)

	_, err := svc.Login(context.Background(), loginReq())
	var oerr *OAuthProviderError
	require.ErrorAs(t, err, &oerr)
	require.Len(t, store.attempts, 1)
	assert.Nil(t, store.attempts[0].UserID)
}

func TestLoginTokenIssuanceFailure(t *testing.T) {
	store := &fakeStore{}
	f := newLoginFixture(store)
	f.deps.IssueTokens = func(ctx context.Context, user *LocalUser, req RequestInfo) (TokenBundle, error) {
		return nil, errors.New("signer unavailable")
	}
	svc := NewLoginService(f.deps)

	_, err := svc.Login(context.Background(), loginReq())
	var oerr *OAuthProviderError
	require.ErrorAs(t, err, &oerr)

	// The user was resolved before issuance failed, so the failed record
	// carries the reference.
	require.Len(t, store.attempts, 1)
	require.NotNil(t, store.attempts[0].UserID)
	assert.Equal(t, "u-1", *store.attempts[0].UserID)
}

// ctxStrictStore fails every call once its context is cancelled, modeling a
// driver that honors deadlines.
type ctxStrictStore struct{ fakeStore }

func (s *ctxStrictStore) GetProviderRecord(ctx context.Context, slug string, workspaceID *int64, activeOnly bool) (*core.ProviderRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fakeStore.GetProviderRecord(ctx, slug, workspaceID, activeOnly)
}

func (s *ctxStrictStore) AppendLoginAttempt(ctx context.Context, att *core.LoginAttempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.fakeStore.AppendLoginAttempt(ctx, att)
}

func TestLoginAuditSurvivesCancellation(t *testing.T) {
	store := &ctxStrictStore{}
	f := newLoginFixture(&store.fakeStore)
	f.deps.Store = store
	f.deps.Credentials = NewCredentialResolver(store, map[string]Credentials{
		"github": {ClientID: "id", ClientSecret: "sec"},
	}, nil)
	f.deps.Audit = audit.NewStoreSink(store)

	ctx, cancel := context.WithCancel(context.Background())
	f.provider.userInfo = func(context.Context) (*UserInfo, error) {
		cancel() // caller gave up mid-flight
		return nil, context.Canceled
	}
	svc := NewLoginService(f.deps)

	_, err := svc.Login(ctx, loginReq())
	require.Error(t, err)
	require.Len(t, store.attempts, 1)
	assert.Equal(t, core.AttemptFailed, store.attempts[0].Status)
}

func TestLoginIdempotentPerCall(t *testing.T) {
	store := &fakeStore{}
	f := newLoginFixture(store)
	svc := NewLoginService(f.deps)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(context.Background(), loginReq())
		require.NoError(t, err)
	}
	// One record per attempt, nothing shared or deduplicated across calls.
	require.Len(t, store.attempts, 3)
	ids := map[string]struct{}{}
	for _, att := range store.attempts {
		ids[att.ID] = struct{}{}
	}
	assert.Len(t, ids, 3)
}
