package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"balanceScope/internal/model"
)

// Store provides Postgres persistence for balance timeline rows.
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

// UpsertEntries inserts or updates timeline rows for one address,
// keyed by (address, tx_hash). Decimals are passed as text so the
// numeric columns keep exact values.
func (s *Store) UpsertEntries(ctx context.Context, address string, entries []model.TimelineEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO balance_timeline (
				address, tx_hash, block, ts, direction, amount, fee, tips, tx_type, delta, balance, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
			ON CONFLICT (address, tx_hash)
			DO UPDATE SET
				block = EXCLUDED.block,
				ts = EXCLUDED.ts,
				direction = EXCLUDED.direction,
				amount = EXCLUDED.amount,
				fee = EXCLUDED.fee,
				tips = EXCLUDED.tips,
				tx_type = EXCLUDED.tx_type,
				delta = EXCLUDED.delta,
				balance = EXCLUDED.balance,
				updated_at = now()
		`,
			address,
			e.Hash,
			e.Block,
			e.Timestamp,
			string(e.Direction),
			e.Amount.String(),
			e.Fee.String(),
			e.Tips.String(),
			e.Type,
			e.Delta.String(),
			e.Balance.String(),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range entries {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
