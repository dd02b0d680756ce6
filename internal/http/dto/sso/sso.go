// Package sso contiene DTOs para los endpoints de login social.
package sso

// LoginRequest representa el callback de autorización de un provider.
type LoginRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
	State       *string `json:"state,omitempty"`
	WorkspaceID *int64  `json:"workspace_id,omitempty"`
}

// UserPayload es el usuario resuelto que se devuelve al cliente.
type UserPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// LoginResponse es la respuesta exitosa del login.
type LoginResponse struct {
	User   UserPayload    `json:"user"`
	Tokens map[string]any `json:"tokens"`
}

// AuthorizeResponse contiene la URL de autorización y el state emitido.
type AuthorizeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

// ProviderInfo describe un provider disponible. ClientID viene enmascarado.
type ProviderInfo struct {
	Slug       string `json:"slug"`
	Name       string `json:"name,omitempty"`
	Configured bool   `json:"configured"`
	Active     bool   `json:"active"`
	ClientID   string `json:"client_id,omitempty"`
}

// ProvidersResponse es la respuesta del listado de providers.
type ProvidersResponse struct {
	Providers []ProviderInfo `json:"providers"`
}
