// Package engine implements the Mutation Engine: the public
// CRUD and compound operations, transactional batching, and the automatic
// inverse-relation machinery. It is the heart of the editor — everything
// else in this module is a collaborator the engine calls into (Store,
// Relation Catalog, History Log) or a consumer of its results (Validation
// Engine, Importer, Exporter).
package engine

import (
	"context"
	"log/slog"

	"github.com/wnedit/wnedit/internal/history"
	"github.com/wnedit/wnedit/internal/store"
)

// Editor is the Mutation Engine's handle: one Store connection, its
// transaction manager, and the history log sharing its transactional
// scope. It is not safe for concurrent mutating use from multiple
// goroutines: mutating calls on one Editor must be single-threaded and
// cooperative.
type Editor struct {
	db      *store.Store
	txm     *store.TxManager
	history *history.Log
	logger  *slog.Logger
}

// New builds an Editor over an already-initialized store.
func New(db *store.Store, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		db:      db,
		txm:     store.NewTxManager(db),
		history: history.New(db),
		logger:  logger,
	}
}

// History exposes the append-only edit log for querying and for toggling
// bulk-import recording.
func (e *Editor) History() *history.Log { return e.history }

// Store exposes the underlying store for components (validate, lmf) that
// read across many tables at once and don't go through the engine's
// per-operation API.
func (e *Editor) Store() *store.Store { return e.db }

// runTx wraps fn in an implicit transaction unless ctx already carries one
// (a batch is active).
func (e *Editor) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return e.txm.RunInTx(ctx, fn)
}

// Batch opens a transactional scope. Nested batches join the outermost
// scope: only the outermost Batch call commits on normal return;
// any error or panic from fn rolls back the whole scope and propagates.
func (e *Editor) Batch(ctx context.Context, fn func(ctx context.Context) error) error {
	return e.txm.RunInTx(ctx, fn)
}
