package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// commandExecutor is the minimal surface every repository method needs to
// run a query. Both *pgxpool.Pool and pgx.Tx satisfy it, so the same
// repository method body runs whether called directly or from inside
// Store.ExecTx/ExecSerializableTx.
type commandExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
