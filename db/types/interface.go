package types

import (
	"context"
	"database/sql"
)

// Migration is a sql-migrate script. SQL holds the down part, the
// "-- +migrate Up" separator and the up part. Every "/*dbprefix*/" in SQL is
// replaced by Prefix.
type Migration struct {
	ID     string
	SQL    string
	Prefix string
}

// Querier is implemented by *sql.DB and *sql.Tx
type Querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

type DBer interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type SQLTxer interface {
	Querier
	Commit() error
	Rollback() error
}

// Txer is a transaction with hooks run after it ends
type Txer interface {
	SQLTxer
	AddRollbackCallback(cb func())
	AddCommitCallback(cb func())
}
