package secretbox

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func newTestBox(t *testing.T) *Box {
	t.Helper()
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		t.Fatal(err)
	}
	b, err := New(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSealOpenRoundTrip(t *testing.T) {
	b := newTestBox(t)
	sealed, err := b.Seal("super-secret")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sealed, "super-secret") {
		t.Fatal("plaintext visible in sealed value")
	}
	plain, err := b.Open(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if plain != "super-secret" {
		t.Fatalf("got %q", plain)
	}
}

func TestSealIsNonDeterministic(t *testing.T) {
	b := newTestBox(t)
	a, _ := b.Seal("x")
	c, _ := b.Seal("x")
	if a == c {
		t.Fatal("two seals of the same plaintext must differ")
	}
}

func TestOpenRejectsTamperAndWrongKey(t *testing.T) {
	b := newTestBox(t)
	sealed, _ := b.Seal("x")

	if _, err := b.Open(sealed + "A"); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("tampered: got %v", err)
	}
	if _, err := b.Open("not-a-sealed-value"); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("garbage: got %v", err)
	}
	other := newTestBox(t)
	if _, err := other.Open(sealed); !errors.Is(err, ErrDecrypt) {
		t.Fatalf("wrong key: got %v", err)
	}
}

func TestNewValidatesKey(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrNoKey) {
		t.Fatalf("empty key: got %v", err)
	}
	if _, err := New("short"); err == nil {
		t.Fatal("expected error for malformed key")
	}
	if _, err := New(base64.StdEncoding.EncodeToString(make([]byte, 16))); err == nil {
		t.Fatal("expected error for 16-byte key")
	}
}
