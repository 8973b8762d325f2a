package store

import (
	"context"
	"fmt"

	"github.com/wnedit/wnedit/internal/domain"
)

// TxManager manages database transactions using the context pattern.
// RunInTx is reentrant: nested batch scopes join the outermost
// transaction rather than opening an independent one, so a RunInTx call
// made while ctx already carries a transaction just runs fn against
// that same ctx — only the outermost call begins/commits/rolls back.
type TxManager struct {
	db *Store
}

// NewTxManager creates a new TxManager bound to a store.
func NewTxManager(s *Store) *TxManager { return &TxManager{db: s} }

// RunInTx executes fn within a database transaction. If ctx already
// carries a transaction (a batch or an outer RunInTx is active), fn runs
// against the existing transaction and this call neither commits nor
// rolls back — that's the outer call's job.
//
// On success: commits (if this call owns the transaction).
// On error from fn: rolls back (if owning) and returns the error.
// On panic from fn: rolls back (if owning) and re-panics.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, alreadyInTx := TxFromCtx(ctx); alreadyInTx {
		return fn(ctx)
	}

	tx, err := m.db.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.NewStoreError("begin transaction", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	txCtx := withTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStoreError("commit transaction", err)
	}
	return nil
}
