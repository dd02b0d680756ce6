// Package sso contiene los controllers de login social.
package sso

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/ssobridge/internal/http/dto/sso"
	httperrors "github.com/dropDatabas3/ssobridge/internal/http/errors"
	"github.com/dropDatabas3/ssobridge/internal/http/helpers"
	"github.com/dropDatabas3/ssobridge/internal/observability/logger"
	"github.com/dropDatabas3/ssobridge/internal/security/state"
	ssocore "github.com/dropDatabas3/ssobridge/internal/sso"
	"github.com/dropDatabas3/ssobridge/internal/store/core"
	"github.com/dropDatabas3/ssobridge/internal/util"
)

// Controller maneja los endpoints /v1/sso.
type Controller struct {
	login    ssocore.LoginService
	resolver *ssocore.CredentialResolver
	registry *ssocore.Registry
	store    core.Repository
	state    *state.Manager
	fallback map[string]ssocore.Credentials
}

// Deps contiene las dependencias del controller.
type Deps struct {
	Login    ssocore.LoginService
	Resolver *ssocore.CredentialResolver
	Registry *ssocore.Registry
	Store    core.Repository
	State    *state.Manager
	Fallback map[string]ssocore.Credentials
}

// New crea el controller.
func New(deps Deps) *Controller {
	return &Controller{
		login:    deps.Login,
		resolver: deps.Resolver,
		registry: deps.Registry,
		store:    deps.Store,
		state:    deps.State,
		fallback: deps.Fallback,
	}
}

// Login maneja POST /v1/sso/login/{provider}.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Controller.Login"))

	slug := chi.URLParam(r, "provider")
	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Code == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("code is required"))
		return
	}

	result, err := c.login.Login(ctx, ssocore.LoginRequest{
		Provider:    slug,
		Code:        req.Code,
		RedirectURI: req.RedirectURI,
		WorkspaceID: req.WorkspaceID,
		State:       req.State,
		Meta: ssocore.RequestInfo{
			IP:        helpers.ClientIP(r),
			UserAgent: r.UserAgent(),
		},
	})
	if err != nil {
		appErr := httperrors.FromSSO(err)
		// los fallos de configuración ya fueron decididos sin log; solo los
		// 5xx merecen ruido en esta capa
		if appErr.HTTPStatus >= 500 {
			log.Error("login failed", logger.Provider(slug), logger.Err(err))
		}
		httperrors.WriteError(w, appErr)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		User: dto.UserPayload{
			ID:       result.User.ID,
			Email:    result.User.Email,
			Username: result.User.Username,
		},
		Tokens: result.Tokens,
	})
}

// Authorize maneja GET /v1/sso/authorize/{provider}?redirect_uri=...
// Emite un state one-shot y construye la URL de autorización. Con
// redirect=true responde 302 en lugar de JSON.
func (c *Controller) Authorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug := chi.URLParam(r, "provider")
	q := r.URL.Query()
	redirectURI := q.Get("redirect_uri")
	if redirectURI == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("redirect_uri is required"))
		return
	}
	workspaceID, ok := parseWorkspaceID(q.Get("workspace_id"))
	if !ok {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("workspace_id must be an integer"))
		return
	}

	creds, err := c.resolver.Resolve(ctx, slug, workspaceID)
	if err != nil {
		httperrors.WriteError(w, httperrors.FromSSO(err))
		return
	}

	stateTok, err := c.state.Issue(ctx, slug)
	if err != nil {
		logger.From(ctx).Error("state issue failed", logger.Provider(slug), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	authURL, err := ssocore.BuildAuthorizationURL(slug, creds, redirectURI, stateTok, q.Get("scope"))
	if err != nil {
		httperrors.WriteError(w, httperrors.FromSSO(err))
		return
	}

	if q.Get("redirect") == "true" {
		http.Redirect(w, r, authURL, http.StatusFound)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, dto.AuthorizeResponse{
		AuthorizationURL: authURL,
		State:            stateTok,
	})
}

// Providers maneja GET /v1/sso/providers?workspace_id=...
// Lista todos los slugs resolubles y marca cuáles tienen credenciales.
func (c *Controller) Providers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Controller.Providers"))

	workspaceID, ok := parseWorkspaceID(r.URL.Query().Get("workspace_id"))
	if !ok {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("workspace_id must be an integer"))
		return
	}

	records, err := c.store.ListProviderRecords(ctx, workspaceID)
	if err != nil {
		log.Error("provider listing failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	bySlug := make(map[string]*core.ProviderRecord, len(records))
	for _, rec := range records {
		bySlug[rec.Slug] = rec
	}

	slugs := c.registry.Slugs()
	out := make([]dto.ProviderInfo, 0, len(slugs))
	for _, slug := range slugs {
		info := dto.ProviderInfo{Slug: slug}
		if rec, ok := bySlug[slug]; ok {
			info.Name = rec.Name
			info.Configured = true
			info.Active = rec.Active
			info.ClientID = util.MaskClientID(rec.ClientID)
		} else if creds, ok := c.fallback[slug]; ok {
			info.Configured = true
			info.Active = true
			info.ClientID = util.MaskClientID(creds.ClientID)
		}
		out = append(out, info)
	}

	helpers.WriteJSON(w, http.StatusOK, dto.ProvidersResponse{Providers: out})
}

func parseWorkspaceID(raw string) (*int64, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}
