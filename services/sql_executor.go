package services

import (
	"context"
	"database/sql"
)

// SQLExecutor is the minimal query surface the store needs. Both *sql.DB and
// *sql.Tx satisfy it, which lets every store method run standalone or inside
// a transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
