package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the connection pool and exposes every repository method as
// a Store method, one file per aggregate family (tenants.go, users.go,
// recipes.go, ...). Methods take a pool by default; a *Tx variant exists
// wherever the operation needs to run as part of a caller-managed
// transaction (e.g. the FIFO sale deduction in package recipe).
type Store struct {
	pool *pgxpool.Pool
}

// New builds a Store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ExecTx runs fn inside a transaction, committing on success and rolling
// back on any error fn returns.
func (s *Store) ExecTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		tx.Rollback(ctx)
		return err
	}

	return nil
}

// ExecSerializableTx runs fn inside a SERIALIZABLE transaction. The FIFO
// sale deduction path needs this isolation level: two concurrent sales
// against the same batches must never both observe enough stock to proceed.
func (s *Store) ExecSerializableTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		tx.Rollback(ctx)
		return err
	}

	return nil
}
