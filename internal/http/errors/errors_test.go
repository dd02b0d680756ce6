package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropDatabas3/ssobridge/internal/sso"
)

func TestFromSSOMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"disabled", &sso.ProviderDisabledError{Slug: "okta"}, http.StatusForbidden, "PROVIDER_DISABLED"},
		{"not configured", &sso.ProviderNotConfiguredError{Slug: "okta"}, http.StatusBadRequest, "PROVIDER_NOT_CONFIGURED"},
		{"invalid state", &sso.InvalidStateError{}, http.StatusBadRequest, "INVALID_STATE"},
		{"provider", &sso.OAuthProviderError{Detail: "token endpoint returned status 400 for okta"}, http.StatusBadGateway, "OAUTH_PROVIDER_ERROR"},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromSSO(tc.err)
			if got.HTTPStatus != tc.status || got.Code != tc.code {
				t.Fatalf("got %d %s, want %d %s", got.HTTPStatus, got.Code, tc.status, tc.code)
			}
		})
	}
}

func TestWriteErrorHidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: secret dsn leaked"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["detail"] != "" || body["message"] == "pq: secret dsn leaked" {
		t.Fatalf("internal cause exposed: %v", body)
	}
}

func TestWriteErrorProviderDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, &sso.OAuthProviderError{Detail: "no access_token in response"})

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["detail"] != "no access_token in response" {
		t.Fatalf("detail = %q", body["detail"])
	}
}
