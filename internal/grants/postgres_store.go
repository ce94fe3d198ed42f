package grants

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists grants in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const createPostgresTableSQL = `
CREATE TABLE IF NOT EXISTS wallet_grants (
    origin TEXT PRIMARY KEY,
    account TEXT NOT NULL,
    granted_at TIMESTAMPTZ NOT NULL
);
`

// NewPostgresStore connects to Postgres using the DSN and ensures the table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is empty")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	if _, err := pool.Exec(ctx, createPostgresTableSQL); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "create wallet_grants")
	}

	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) Get(ctx context.Context, origin string) (*Grant, error) {
	row := p.pool.QueryRow(ctx, `
SELECT origin, account, granted_at
FROM wallet_grants
WHERE origin = $1
`, origin)

	var g Grant
	if err := row.Scan(&g.Origin, &g.Account, &g.GrantedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (p *PostgresStore) Save(ctx context.Context, grant Grant) error {
	if grant.Origin == "" {
		return ErrEmptyOrigin
	}
	_, err := p.pool.Exec(ctx, `
INSERT INTO wallet_grants (origin, account, granted_at)
VALUES ($1, $2, $3)
ON CONFLICT (origin) DO UPDATE
SET account = EXCLUDED.account,
    granted_at = EXCLUDED.granted_at
`, grant.Origin, grant.Account, grant.GrantedAt)
	return err
}
