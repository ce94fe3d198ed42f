package grants

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestPostgresStoreLifecycle(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()

	grant := Grant{
		Origin:    "http://test-origin",
		Account:   "0x0000000000000000000000000000000000000abc",
		GrantedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := store.Save(ctx, grant); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, grant.Origin)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Account != grant.Account {
		t.Fatalf("unexpected grant: %#v", got)
	}
}
