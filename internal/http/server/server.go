// Package server arma todas las dependencias y corre el servidor HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/ssobridge/internal/audit"
	"github.com/dropDatabas3/ssobridge/internal/cache"
	"github.com/dropDatabas3/ssobridge/internal/config"
	healthctrl "github.com/dropDatabas3/ssobridge/internal/http/controllers/health"
	ssoctrl "github.com/dropDatabas3/ssobridge/internal/http/controllers/sso"
	"github.com/dropDatabas3/ssobridge/internal/http/router"
	"github.com/dropDatabas3/ssobridge/internal/metrics"
	"github.com/dropDatabas3/ssobridge/internal/oauth"
	"github.com/dropDatabas3/ssobridge/internal/observability/logger"
	"github.com/dropDatabas3/ssobridge/internal/security/secretbox"
	"github.com/dropDatabas3/ssobridge/internal/security/state"
	"github.com/dropDatabas3/ssobridge/internal/security/token"
	"github.com/dropDatabas3/ssobridge/internal/sso"
	"github.com/dropDatabas3/ssobridge/internal/store"
	"github.com/dropDatabas3/ssobridge/internal/store/core"
)

// Options permite al host inyectar sus propios callbacks. Los campos nil
// caen a los defaults integrados.
type Options struct {
	// GetOrCreateUser resuelve la identidad del provider a un usuario local.
	// El default acepta la identidad tal cual (passthrough) usando el ID del
	// provider como ID local.
	GetOrCreateUser sso.GetOrCreateUserFunc

	// IssueTokens emite el bundle de sesión. El default firma un JWT HS256
	// con config.JWT.Secret.
	IssueTokens sso.IssueTokensFunc
}

// Server es el servidor armado, listo para Run.
type Server struct {
	cfg   *config.Config
	http  *http.Server
	repo  core.Repository
	cache cache.Client
}

// Build construye el server completo desde la configuración.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*Server, error) {
	repo, err := store.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("server: open store: %w", err)
	}

	cacheClient, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Driver,
		Host:     cfg.Cache.Redis.Host,
		Port:     cfg.Cache.Redis.Port,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Prefix,
	})
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("server: open cache: %w", err)
	}

	// Secretos sellados en reposo, si hay clave maestra configurada.
	var unseal sso.UnsealFunc
	if box, err := secretbox.FromEnv(); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("server: secretbox: %w", err)
	} else if box != nil {
		unseal = box.Open
	}

	fallback := cfg.FallbackCredentials()
	resolver := sso.NewCredentialResolver(repo, fallback, unseal)
	registry := oauth.DefaultRegistry()
	stateMgr := state.NewManager(cacheClient, cfg.StateTTL())

	getOrCreate := opts.GetOrCreateUser
	if getOrCreate == nil {
		getOrCreate = passthroughUser
	}
	issueTokens := opts.IssueTokens
	if issueTokens == nil {
		issuer, err := token.NewIssuer([]byte(cfg.JWT.Secret), cfg.JWT.Issuer, cfg.AccessTTL())
		if err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("server: token issuer: %w", err)
		}
		issuer.RefreshTTL = cfg.RefreshTTL()
		issueTokens = issuer.IssueFunc()
	}

	loginSvc := sso.NewLoginService(sso.LoginDeps{
		Store:           repo,
		Registry:        registry,
		Credentials:     resolver,
		Audit:           audit.NewStoreSink(repo),
		GetOrCreateUser: getOrCreate,
		IssueTokens:     issueTokens,
		ValidateState:   stateMgr.ValidateFunc(),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("server: metrics: %w", err)
	}

	handler := router.New(router.Deps{
		SSO: ssoctrl.New(ssoctrl.Deps{
			Login:    loginSvc,
			Resolver: resolver,
			Registry: registry,
			Store:    repo,
			State:    stateMgr,
			Fallback: fallback,
		}),
		Health:             healthctrl.New(repo, cacheClient),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Metrics:            reg,
	})

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		repo:  repo,
		cache: cacheClient,
	}, nil
}

// Run sirve hasta que ctx se cancele, con shutdown graceful.
func (s *Server) Run(ctx context.Context) error {
	log := logger.L().With(logger.Component("server"))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", logger.String("addr", s.cfg.Server.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	if cerr := s.cache.Close(); cerr != nil {
		log.Warn("cache close failed", logger.Err(cerr))
	}
	if cerr := s.repo.Close(); cerr != nil {
		log.Warn("store close failed", logger.Err(cerr))
	}
	return err
}

// passthroughUser acepta la identidad del provider sin persistencia local.
func passthroughUser(ctx context.Context, slug string, info *sso.UserInfo, _ sso.RequestInfo) (*sso.LocalUser, bool, error) {
	if info == nil || info.ID == "" {
		return nil, false, nil
	}
	return &sso.LocalUser{
		ID:       slug + ":" + info.ID,
		Email:    info.Email,
		Username: info.Name,
	}, false, nil
}
