package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"angleYield/internal/model"
	"angleYield/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS pools (
	pool            TEXT PRIMARY KEY,
	chain           TEXT NOT NULL,
	project         TEXT NOT NULL,
	symbol          TEXT NOT NULL,
	staking_address TEXT NOT NULL,
	tvl_usd         DOUBLE PRECISION NOT NULL,
	apy_base        DOUBLE PRECISION NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS adapter_state (
	name        TEXT PRIMARY KEY,
	last_run_at TIMESTAMPTZ NOT NULL,
	pool_count  INTEGER NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store provides Postgres persistence for published pools.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// PutPools implements storage.Sink.
func (s *Store) PutPools(ctx context.Context, pools []model.Pool) error {
	return s.UpsertPools(ctx, pools)
}

// UpsertPools inserts or updates pools keyed by pool id.
func (s *Store) UpsertPools(ctx context.Context, pools []model.Pool) error {
	if len(pools) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, pool := range pools {
		batch.Queue(`
			INSERT INTO pools (
				pool, chain, project, symbol, staking_address, tvl_usd, apy_base, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (pool)
			DO UPDATE SET
				chain = EXCLUDED.chain,
				symbol = EXCLUDED.symbol,
				staking_address = EXCLUDED.staking_address,
				tvl_usd = EXCLUDED.tvl_usd,
				apy_base = EXCLUDED.apy_base,
				updated_at = now()
		`,
			pool.Pool,
			pool.Chain,
			pool.Project,
			pool.Symbol,
			stakingAddress(pool.Address),
			pool.TVLUSD,
			pool.APYBase,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range pools {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ListPools returns stored pools ordered by id.
func (s *Store) ListPools(ctx context.Context) ([]model.Pool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pool, chain, project, symbol, staking_address, tvl_usd, apy_base
		FROM pools ORDER BY pool
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []model.Pool
	for rows.Next() {
		var p model.Pool
		if err := rows.Scan(&p.Pool, &p.Chain, &p.Project, &p.Symbol, &p.Address, &p.TVLUSD, &p.APYBase); err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

// LoadRun returns the last recorded run for a name.
func (s *Store) LoadRun(ctx context.Context, name string) (storage.RunState, bool, error) {
	if name == "" {
		return storage.RunState{}, false, fmt.Errorf("state name required")
	}
	var state storage.RunState
	row := s.pool.QueryRow(ctx, `SELECT last_run_at, pool_count FROM adapter_state WHERE name=$1`, name)
	if err := row.Scan(&state.LastRunAt, &state.PoolCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.RunState{}, false, nil
		}
		return storage.RunState{}, false, err
	}
	return state, true, nil
}

// SaveRun upserts the last successful run for a name.
func (s *Store) SaveRun(ctx context.Context, name string, at time.Time, poolCount int) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO adapter_state (name, last_run_at, pool_count, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name) DO UPDATE
		SET last_run_at = EXCLUDED.last_run_at, pool_count = EXCLUDED.pool_count, updated_at = now()
	`, name, at.UTC(), poolCount)
	return err
}

// stakingAddress checksums EVM addresses and leaves others (Solana) untouched.
func stakingAddress(address string) string {
	if common.IsHexAddress(address) {
		return common.HexToAddress(address).Hex()
	}
	return address
}
