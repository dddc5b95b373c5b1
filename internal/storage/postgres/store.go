package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liquidityEngine/internal/model"
)

// Store provides Postgres persistence for staked positions.
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

// UpsertStakedPositions inserts or updates staked-position rows.
func (s *Store) UpsertStakedPositions(ctx context.Context, positions []model.StakedPositionRecord) error {
	if len(positions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, position := range positions {
		batch.Queue(`
			INSERT INTO staked_positions (
				chain_id, owner, token_id, incentive_id, pool, liquidity, staked_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (chain_id, token_id, incentive_id)
			DO UPDATE SET
				owner = EXCLUDED.owner,
				pool = EXCLUDED.pool,
				liquidity = EXCLUDED.liquidity,
				staked_at = EXCLUDED.staked_at,
				updated_at = now()
		`,
			int64(position.ChainID),
			position.Owner,
			position.TokenID,
			position.IncentiveID,
			position.Pool,
			position.Liquidity,
			position.StakedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range positions {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// RemoveStakedPosition deletes a staked-position row after unstake.
func (s *Store) RemoveStakedPosition(ctx context.Context, chainID uint64, tokenID, incentiveID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM staked_positions
		WHERE chain_id = $1 AND token_id = $2 AND incentive_id = $3
	`, int64(chainID), tokenID, incentiveID)
	return err
}

// ListStakedPositions returns the staked positions owned by an address.
func (s *Store) ListStakedPositions(ctx context.Context, chainID uint64, owner string) ([]model.StakedPositionRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT chain_id, owner, token_id, incentive_id, pool, liquidity, staked_at
		FROM staked_positions
		WHERE chain_id = $1 AND owner = $2
		ORDER BY staked_at DESC
	`, int64(chainID), owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []model.StakedPositionRecord
	for rows.Next() {
		var record model.StakedPositionRecord
		var chain int64
		if err := rows.Scan(&chain, &record.Owner, &record.TokenID, &record.IncentiveID, &record.Pool, &record.Liquidity, &record.StakedAt); err != nil {
			return nil, err
		}
		record.ChainID = uint64(chain)
		positions = append(positions, record)
	}
	return positions, rows.Err()
}
