// Package token emite el bundle de sesión por defecto: un JWT HS256 firmado
// con el secreto del servidor. Los hosts con su propia infraestructura de
// sesión reemplazan este emisor por su callback.
package token

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/ssobridge/internal/sso"
)

// DefaultTTL del access token emitido.
const DefaultTTL = time.Hour

// ErrNoSecret indica que no hay secreto de firma configurado.
var ErrNoSecret = errors.New("token: signing secret not configured")

// Issuer firma JWTs de sesión.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration

	// RefreshTTL habilita un refresh_token en el bundle cuando es > 0.
	RefreshTTL time.Duration
}

// NewIssuer crea un Issuer. ttl <= 0 usa DefaultTTL.
func NewIssuer(secret []byte, issuer string, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, issuer: issuer, ttl: ttl}, nil
}

// Issue firma un JWT para user y arma el bundle estándar.
func (i *Issuer) Issue(ctx context.Context, user *sso.LocalUser) (sso.TokenBundle, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"iss": i.issuer,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
		"jti": uuid.NewString(),
	}
	if user.Email != "" {
		claims["email"] = user.Email
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, err
	}
	bundle := sso.TokenBundle{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int64(i.ttl.Seconds()),
	}

	if i.RefreshTTL > 0 {
		refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": user.ID,
			"iss": i.issuer,
			"iat": now.Unix(),
			"exp": now.Add(i.RefreshTTL).Unix(),
			"jti": uuid.NewString(),
			"typ": "refresh",
		}).SignedString(i.secret)
		if err != nil {
			return nil, err
		}
		bundle["refresh_token"] = refresh
	}
	return bundle, nil
}

// IssueFunc adapta el Issuer al callback del servicio de login.
func (i *Issuer) IssueFunc() sso.IssueTokensFunc {
	return func(ctx context.Context, user *sso.LocalUser, _ sso.RequestInfo) (sso.TokenBundle, error) {
		return i.Issue(ctx, user)
	}
}

// Parse valida firma y expiración y retorna el subject. Permite al host
// verificar bundles emitidos por este Issuer.
func (i *Issuer) Parse(tokenStr string) (string, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}
	return tok.Claims.GetSubject()
}
