package grants

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists grants in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const createSQLiteTableSQL = `
CREATE TABLE IF NOT EXISTS wallet_grants (
	origin TEXT PRIMARY KEY,
	account TEXT NOT NULL,
	granted_at INTEGER NOT NULL
);
`

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create database directory")
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	if _, err := db.Exec(createSQLiteTableSQL); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create wallet_grants")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Get(ctx context.Context, origin string) (*Grant, error) {
	var (
		g         Grant
		grantedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT origin, account, granted_at FROM wallet_grants WHERE origin = ?`, origin,
	).Scan(&g.Origin, &g.Account, &grantedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	g.GrantedAt = time.Unix(0, grantedAt)
	return &g, nil
}

func (s *SQLiteStore) Save(ctx context.Context, grant Grant) error {
	if grant.Origin == "" {
		return ErrEmptyOrigin
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO wallet_grants (origin, account, granted_at)
VALUES (?, ?, ?)
ON CONFLICT(origin) DO UPDATE SET account = excluded.account, granted_at = excluded.granted_at
`, grant.Origin, grant.Account, grant.GrantedAt.UnixNano())
	return err
}
