package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/xinsproject/servicecall/db/types"
)

// Tx runs the registered callbacks once the transaction is committed or rolled back
type Tx struct {
	types.SQLTxer
	onRollback []func()
	onCommit   []func()
}

func NewTx(ctx context.Context, db types.DBer) (types.Txer, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{SQLTxer: tx}, nil
}

func (t *Tx) AddRollbackCallback(cb func()) {
	t.onRollback = append(t.onRollback, cb)
}

func (t *Tx) AddCommitCallback(cb func()) {
	t.onCommit = append(t.onCommit, cb)
}

func (t *Tx) Commit() error {
	if err := t.SQLTxer.Commit(); err != nil {
		return err
	}
	runCallbacks(t.onCommit)
	return nil
}

func (t *Tx) Rollback() error {
	if err := t.SQLTxer.Rollback(); err != nil {
		return err
	}
	runCallbacks(t.onRollback)
	return nil
}

func runCallbacks(callbacks []func()) {
	for _, cb := range callbacks {
		cb()
	}
}

// RunInTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func RunInTx(ctx context.Context, db types.DBer, fn func(tx types.Txer) error) error {
	tx, err := NewTx(ctx, db)
	if err != nil {
		return fmt.Errorf("error starting tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if errRollback := tx.Rollback(); errRollback != nil {
			return errors.Join(err, fmt.Errorf("error rolling back tx: %w", errRollback))
		}
		return err
	}
	return tx.Commit()
}
