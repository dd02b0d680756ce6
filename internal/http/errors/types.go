package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dropDatabas3/ssobridge/internal/sso"
)

// AppError define la estructura estándar para errores de la API.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // causa original, solo para logs
}

// Error implementa la interfaz error.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original.
func (e *AppError) Unwrap() error { return e.Err }

// WithDetail devuelve una COPIA con detalle extra (no muta las globales).
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con la causa original.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request has invalid syntax or missing parameters.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "The request body is not valid JSON.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "The requested resource does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrProviderNotConfigured = &AppError{
		Code:       "PROVIDER_NOT_CONFIGURED",
		Message:    "The SSO provider is not configured.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrProviderDisabled = &AppError{
		Code:       "PROVIDER_DISABLED",
		Message:    "The SSO provider is disabled.",
		HTTPStatus: http.StatusForbidden,
	}

	ErrInvalidState = &AppError{
		Code:       "INVALID_STATE",
		Message:    "The state parameter is invalid or expired.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrProviderUpstream = &AppError{
		Code:       "OAUTH_PROVIDER_ERROR",
		Message:    "The identity provider rejected the request.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}
)

// FromError convierte cualquier error en AppError. Errores desconocidos se
// responden como 500 sin exponer la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return FromSSO(err)
}

// FromSSO mapea la taxonomía del core de login a la superficie HTTP:
// disabled 403, not-configured e invalid-state 400, fallo de provider 502,
// cualquier otra cosa 500. El detalle del provider se propaga; nunca contiene
// material de credenciales.
func FromSSO(err error) *AppError {
	var (
		notCfg   *sso.ProviderNotConfiguredError
		disabled *sso.ProviderDisabledError
		badState *sso.InvalidStateError
		provider *sso.OAuthProviderError
	)
	switch {
	case errors.As(err, &disabled):
		return ErrProviderDisabled.WithCause(err)
	case errors.As(err, &notCfg):
		return ErrProviderNotConfigured.WithCause(err)
	case errors.As(err, &badState):
		return ErrInvalidState.WithCause(err)
	case errors.As(err, &provider):
		return ErrProviderUpstream.WithDetail(provider.Detail).WithCause(err)
	default:
		return ErrInternalServerError.WithCause(err)
	}
}
