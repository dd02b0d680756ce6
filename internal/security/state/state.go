// Package state emite y consume state tokens one-shot para el flujo OAuth,
// respaldados por el cache compartido para que funcionen entre réplicas.
package state

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dropDatabas3/ssobridge/internal/cache"
	"github.com/dropDatabas3/ssobridge/internal/observability/logger"
	"github.com/dropDatabas3/ssobridge/internal/sso"
)

// DefaultTTL es la ventana entre redirección y callback.
const DefaultTTL = 10 * time.Minute

// Manager emite y valida state tokens. Cada token se consume exactamente una
// vez: una repetición (replay) falla aunque el token no haya expirado.
type Manager struct {
	cache cache.Client
	ttl   time.Duration
}

// NewManager crea un Manager. ttl <= 0 usa DefaultTTL.
func NewManager(c cache.Client, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{cache: c, ttl: ttl}
}

// Issue genera un state aleatorio y lo registra con TTL.
func (m *Manager) Issue(ctx context.Context, provider string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("state: random: %w", err)
	}
	tok := base64.RawURLEncoding.EncodeToString(b)
	if err := m.cache.Set(ctx, key(tok), provider, m.ttl); err != nil {
		return "", fmt.Errorf("state: store: %w", err)
	}
	return tok, nil
}

// Validate consume el token. Solo la primera validación de un token vigente
// retorna true.
func (m *Manager) Validate(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	_, err := m.cache.Take(ctx, key(token))
	if err == nil {
		return true
	}
	if !cache.IsNotFound(err) {
		logger.From(ctx).Warn("state lookup failed",
			logger.Component("security.state"), logger.Err(err))
	}
	return false
}

// ValidateFunc adapta el Manager al callback del servicio de login.
func (m *Manager) ValidateFunc() sso.ValidateStateFunc {
	return func(ctx context.Context, state string, _ sso.RequestInfo) bool {
		return m.Validate(ctx, state)
	}
}

func key(tok string) string { return "sso:state:" + tok }
