package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/ssobridge/internal/store/core"
)

func ws(id int64) *int64 { return &id }

func TestProviderCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := &core.ProviderRecord{
		Slug: "okta", Name: "Okta", ClientID: "cid", ClientSecret: "sec",
		ExtraConfig: map[string]string{"domain": "acme.okta.com"}, Active: true,
	}
	if err := s.CreateProviderRecord(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("identity not assigned: %+v", rec)
	}

	if err := s.CreateProviderRecord(ctx, &core.ProviderRecord{Slug: "okta"}); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("duplicate slug+scope: got %v", err)
	}

	got, err := s.GetProviderRecord(ctx, "okta", nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if got.ExtraConfig["domain"] != "acme.okta.com" {
		t.Fatalf("got %+v", got)
	}

	// Mutating the returned copy must not touch stored state.
	got.ExtraConfig["domain"] = "evil"
	again, _ := s.GetProviderRecord(ctx, "okta", nil, true)
	if again.ExtraConfig["domain"] != "acme.okta.com" {
		t.Fatal("returned record aliases stored state")
	}

	rec.Active = false
	if err := s.UpdateProviderRecord(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetProviderRecord(ctx, "okta", nil, true); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("inactive record visible through activeOnly: %v", err)
	}
	if _, err := s.GetProviderRecord(ctx, "okta", nil, false); err != nil {
		t.Fatalf("inactive record should remain visible unfiltered: %v", err)
	}

	if err := s.DeleteProviderRecord(ctx, rec.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteProviderRecord(ctx, rec.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("double delete: got %v", err)
	}
}

func TestScopeSeparation(t *testing.T) {
	s := New()
	ctx := context.Background()

	global := &core.ProviderRecord{Slug: "github", ClientID: "global", Active: true}
	scoped := &core.ProviderRecord{Slug: "github", ClientID: "scoped", Active: true, WorkspaceID: ws(7)}
	if err := s.CreateProviderRecord(ctx, global); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateProviderRecord(ctx, scoped); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetProviderRecord(ctx, "github", nil, true)
	if err != nil || got.ClientID != "global" {
		t.Fatalf("global lookup: %v %+v", err, got)
	}
	got, err = s.GetProviderRecord(ctx, "github", ws(7), true)
	if err != nil || got.ClientID != "scoped" {
		t.Fatalf("scoped lookup: %v %+v", err, got)
	}
	if _, err := s.GetProviderRecord(ctx, "github", ws(8), true); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("other workspace must miss: %v", err)
	}

	list, err := s.ListProviderRecords(ctx, nil)
	if err != nil || len(list) != 1 {
		t.Fatalf("global list: %v %v", err, list)
	}
}

func TestLoginAttempts(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		slug := "google"
		if i%2 == 1 {
			slug = "github"
		}
		if err := s.AppendLoginAttempt(ctx, &core.LoginAttempt{ProviderSlug: slug, Status: core.AttemptSuccess}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListLoginAttempts(ctx, "", 0)
	if err != nil || len(all) != 5 {
		t.Fatalf("all: %v %d", err, len(all))
	}
	gh, err := s.ListLoginAttempts(ctx, "github", 0)
	if err != nil || len(gh) != 2 {
		t.Fatalf("github: %v %d", err, len(gh))
	}
	limited, err := s.ListLoginAttempts(ctx, "", 3)
	if err != nil || len(limited) != 3 {
		t.Fatalf("limit: %v %d", err, len(limited))
	}
}
