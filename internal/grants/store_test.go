package grants

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if g, _ := store.Get(ctx, "http://missing"); g != nil {
		t.Fatalf("expected nil for unknown origin")
	}

	grant := Grant{
		Origin:    "http://localhost:3000",
		Account:   "0x0000000000000000000000000000000000000abc",
		GrantedAt: time.Now(),
	}
	if err := store.Save(ctx, grant); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, _ := store.Get(ctx, grant.Origin)
	if got == nil || got.Account != grant.Account {
		t.Fatalf("unexpected grant: %+v", got)
	}

	if err := store.Save(ctx, Grant{Account: "0x1"}); err != ErrEmptyOrigin {
		t.Fatalf("expected ErrEmptyOrigin, got %v", err)
	}
}

func TestFileStorePersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grants.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	ctx := context.Background()
	grant := Grant{
		Origin:    "http://localhost:3000",
		Account:   "0x0000000000000000000000000000000000000abc",
		GrantedAt: time.Unix(1_700_000_000, 0),
	}
	if err := store.Save(ctx, grant); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	store2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}

	got, _ := store2.Get(ctx, grant.Origin)
	if got == nil || got.Account != grant.Account || !got.GrantedAt.Equal(grant.GrantedAt) {
		t.Fatalf("unexpected grant: %+v", got)
	}
}

func TestSQLiteStoreUpserts(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "grants.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if g, err := store.Get(ctx, "http://localhost:3000"); err != nil || g != nil {
		t.Fatalf("expected no grant, got %+v err=%v", g, err)
	}

	first := Grant{Origin: "http://localhost:3000", Account: "0xaaa", GrantedAt: time.Unix(10, 0)}
	second := Grant{Origin: "http://localhost:3000", Account: "0xbbb", GrantedAt: time.Unix(20, 0)}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := store.Get(ctx, second.Origin)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Account != "0xbbb" || !got.GrantedAt.Equal(second.GrantedAt) {
		t.Fatalf("unexpected grant: %+v", got)
	}
}

func TestOpenRejectsUnknownKind(t *testing.T) {
	_, closeFn, err := Open(context.Background(), "redis", "")
	if err == nil {
		t.Fatalf("expected error for unknown store kind")
	}
	if closeFn == nil {
		t.Fatalf("close func must never be nil")
	}
}
