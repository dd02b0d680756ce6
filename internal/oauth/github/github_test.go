package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropDatabas3/ssobridge/internal/sso"
)

func newTestAdapter(tokenURL, userURL, emailURL string) *Adapter {
	return New(sso.Credentials{
		ClientID:     "cid",
		ClientSecret: "sec",
		ExtraConfig: map[string]string{
			"token_url":     tokenURL,
			"user_info_url": userURL,
			"emails_url":    emailURL,
		},
	})
}

// newEmailFetchingAdapter opts in to the /user/emails secondary call.
func newEmailFetchingAdapter(userURL, emailURL string) *Adapter {
	return New(sso.Credentials{
		ClientID:     "cid",
		ClientSecret: "sec",
		ExtraConfig: map[string]string{
			"user_info_url": userURL,
			"emails_url":    emailURL,
			"fetch_emails":  "true",
		},
	})
}

func TestExchangeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostFormValue("client_id") != "cid" || r.PostFormValue("code") != "abc" {
			t.Fatalf("unexpected form: %v", r.PostForm)
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "gho_x", "token_type": "bearer", "scope": "read:user"})
	}))
	defer srv.Close()

	a := newTestAdapter(srv.URL, "", "")
	tr, err := a.ExchangeCode(context.Background(), "abc", "https://app/cb")
	if err != nil {
		t.Fatal(err)
	}
	if tr.AccessToken != "gho_x" {
		t.Fatalf("token = %q", tr.AccessToken)
	}
}

func TestExchangeCodeBodyError(t *testing.T) {
	// GitHub reports a bad grant with HTTP 200 and an error field.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": "bad_verification_code"})
	}))
	defer srv.Close()

	a := newTestAdapter(srv.URL, "", "")
	_, err := a.ExchangeCode(context.Background(), "stale", "https://app/cb")
	var oerr *sso.OAuthProviderError
	if !errors.As(err, &oerr) {
		t.Fatalf("expected *sso.OAuthProviderError, got %v", err)
	}
}

func TestGetUserInfoPublicEmail(t *testing.T) {
	emailsCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": 123, "login": "octo", "name": "Octo Cat",
			"email": "octo@example.com", "avatar_url": "https://avatars/123",
		})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		emailsCalled = true
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAdapter("", srv.URL+"/user", srv.URL+"/user/emails")
	info, err := a.GetUserInfo(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if info.ID != "123" || info.Email != "octo@example.com" || info.Name != "Octo Cat" || info.Picture != "https://avatars/123" {
		t.Fatalf("info = %+v", info)
	}
	if emailsCalled {
		t.Fatal("emails endpoint called although the profile email was public")
	}
}

func TestGetUserInfoPrivateEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": 123, "login": "octo", "email": ""})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "main@example.com", "primary": true, "verified": true},
			{"email": "spam@example.com", "primary": false, "verified": false},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newEmailFetchingAdapter(srv.URL+"/user", srv.URL+"/user/emails")
	info, err := a.GetUserInfo(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if info.Email != "main@example.com" {
		t.Fatalf("email = %q, want primary verified", info.Email)
	}
	// Name falls back to the login when the profile has none.
	if info.Name != "octo" {
		t.Fatalf("name = %q", info.Name)
	}
}

func TestGetUserInfoPrivateEmailWithoutOptIn(t *testing.T) {
	emailsCalled := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": 123, "login": "octo", "email": ""})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		emailsCalled++
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAdapter("", srv.URL+"/user", srv.URL+"/user/emails")
	info, err := a.GetUserInfo(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if info.Email != "" {
		t.Fatalf("email = %q, want empty", info.Email)
	}
	if emailsCalled != 0 {
		t.Fatal("emails endpoint called without fetch_emails")
	}
}

func TestGetUserInfoEmailsFetchFailureNonFatal(t *testing.T) {
	// A token without the user:email scope gets a 403 from /user/emails;
	// the login still succeeds with an empty email.
	emailsCalled := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": 55, "login": "shy", "email": ""})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		emailsCalled++
		w.WriteHeader(http.StatusForbidden)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newEmailFetchingAdapter(srv.URL+"/user", srv.URL+"/user/emails")
	info, err := a.GetUserInfo(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if info.Email != "" {
		t.Fatalf("email = %q, want empty", info.Email)
	}
	if emailsCalled != 1 {
		t.Fatalf("emailsCalled = %d", emailsCalled)
	}
	if info.ID != "55" || info.Name != "shy" {
		t.Fatalf("info = %+v", info)
	}
}

func TestGetUserInfoNoEmails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": 9, "login": "ghost"})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newEmailFetchingAdapter(srv.URL+"/user", srv.URL+"/user/emails")
	info, err := a.GetUserInfo(context.Background(), "tok")
	if err != nil {
		t.Fatal(err)
	}
	if info.Email != "" {
		t.Fatalf("email = %q, want empty", info.Email)
	}
}
