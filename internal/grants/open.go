package grants

import (
	"context"

	"github.com/cockroachdb/errors"
)

// Open builds the store named by kind: "memory", "file", "sqlite" or
// "postgres". location is a file path or a DSN depending on kind. The returned
// close func is never nil.
func Open(ctx context.Context, kind, location string) (Store, func() error, error) {
	noop := func() error { return nil }
	switch kind {
	case "", "memory":
		return NewMemoryStore(), noop, nil
	case "file":
		s, err := NewFileStore(location)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case "sqlite":
		s, err := NewSQLiteStore(location)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case "postgres":
		s, err := NewPostgresStore(ctx, location)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	}
	return nil, noop, errors.Newf("unknown grant store %q", kind)
}
