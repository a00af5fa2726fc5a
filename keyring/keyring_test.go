package keyring

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"spider-cipher/deck"
	"spider-cipher/deck/decktest"
	"spider-cipher/keys"
)

func openTemp(t *testing.T) (*Keyring, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ring", "keys.db")
	kr, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = kr.Close() })
	return kr, path
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	kr, _ := openTemp(t)
	d := decktest.Deck(t, 11, 4)
	if err := kr.Put(ctx, "alice", &d); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := kr.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !deck.Equal(&got, &d) {
		t.Fatalf("got=%v want=%v", &got, &d)
	}
	if err := kr.Put(ctx, "alice", &d); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if _, err := kr.Get(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutRejects(t *testing.T) {
	ctx := context.Background()
	kr, _ := openTemp(t)
	var zero deck.Deck
	if err := kr.Put(ctx, "zero", &zero); err == nil {
		t.Fatalf("invalid deck stored")
	}
	d := deck.New()
	if err := kr.Put(ctx, "", &d); err == nil {
		t.Fatalf("empty name accepted")
	}
}

func TestListDelete(t *testing.T) {
	ctx := context.Background()
	kr, _ := openTemp(t)
	names := []string{"charlie", "alpha", "bravo"}
	for i, n := range names {
		d := decktest.Deck(t, i+2, i)
		if err := kr.Put(ctx, n, &d); err != nil {
			t.Fatalf("put %s: %v", n, err)
		}
	}
	entries, err := kr.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"alpha", "bravo", "charlie"}
	if len(entries) != len(want) {
		t.Fatalf("entries=%d want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Name != want[i] {
			t.Fatalf("entry %d: got=%s want=%s", i, e.Name, want[i])
		}
		d, err := kr.Get(ctx, e.Name)
		if err != nil {
			t.Fatalf("get %s: %v", e.Name, err)
		}
		if fp := keys.Fingerprint(&d); fp != e.Fingerprint {
			t.Fatalf("%s: fingerprint got=%s want=%s", e.Name, e.Fingerprint, fp)
		}
		if e.CreatedAt.IsZero() {
			t.Fatalf("%s: missing created_at", e.Name)
		}
	}
	if err := kr.Delete(ctx, "bravo"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kr.Delete(ctx, "bravo"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	entries, err = kr.List(ctx)
	if err != nil || len(entries) != 2 {
		t.Fatalf("after delete: %d entries err=%v", len(entries), err)
	}
}

func TestReopenKeepsKeys(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keys.db")
	kr, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	d := decktest.Deck(t, 5, 5)
	if err := kr.Put(ctx, "k", &d); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	kr, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kr.Close()
	got, err := kr.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !deck.Equal(&got, &d) {
		t.Fatalf("got=%v want=%v", &got, &d)
	}
}

func TestGetDetectsTampering(t *testing.T) {
	ctx := context.Background()
	kr, _ := openTemp(t)
	d := decktest.Deck(t, 7, 1)
	if err := kr.Put(ctx, "k", &d); err != nil {
		t.Fatalf("put: %v", err)
	}
	other := decktest.Deck(t, 7, 2)
	if _, err := kr.db.ExecContext(ctx, `UPDATE keys SET fingerprint = ? WHERE name = ?`, keys.Fingerprint(&other), "k"); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if _, err := kr.Get(ctx, "k"); !errors.Is(err, keys.ErrFingerprint) {
		t.Fatalf("expected ErrFingerprint, got %v", err)
	}
	if _, err := kr.db.ExecContext(ctx, `UPDATE keys SET cards = ? WHERE name = ?`, []byte{1, 2, 3}, "k"); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if _, err := kr.Get(ctx, "k"); !errors.Is(err, deck.ErrKeying) {
		t.Fatalf("expected ErrKeying, got %v", err)
	}
}

func TestOpenMemory(t *testing.T) {
	kr, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer kr.Close()
	d := deck.New()
	if err := kr.Put(context.Background(), "id", &d); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := Open(""); err == nil {
		t.Fatalf("empty path accepted")
	}
}
