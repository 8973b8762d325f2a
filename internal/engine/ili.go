package engine

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// ensureILI returns the row id of an ILI entry, creating it as
// "presupposed" if absent, for a non-"in" ili value that doesn't yet
// exist in the store.
func ensureILI(ctx context.Context, e *Editor, iliID string) (int64, error) {
	rowID, err := e.db.ILIRowIDByID(ctx, iliID)
	if err == nil {
		return rowID, nil
	}
	if !errorsIsNotFound(err) {
		return 0, err
	}
	statusID, err := e.db.UpsertILIStatus(ctx, string(domain.ILIStatusPresupposed))
	if err != nil {
		return 0, domain.NewStoreError("upsert ili status", err)
	}
	q := store.QuerierFromCtx(ctx, e.db.DB())
	res, err := q.ExecContext(ctx, `INSERT INTO ilis (ili_id, status_id, definition, metadata) VALUES (?, ?, '', '{}')`, iliID, statusID)
	if err != nil {
		return 0, store.MapError(err, domain.KindILI, iliID)
	}
	return res.LastInsertId()
}

func errorsIsNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}

// synsetILIState reports a synset's current ILI binding state: the
// linked ili_id ("" if none), whether a proposed ILI row exists, and the
// proposed definition if so.
func (e *Editor) synsetILIState(ctx context.Context, synsetRowID int64) (iliID string, proposed bool, proposedDef string, err error) {
	q := store.QuerierFromCtx(ctx, e.db.DB())

	var linked struct {
		ILIID *string `db:"ili_id"`
	}
	if gerr := q.GetContext(ctx, &linked, `
		SELECT i.ili_id AS ili_id FROM synsets s LEFT JOIN ilis i ON i.id = s.ili_id WHERE s.id = ?`, synsetRowID); gerr != nil {
		return "", false, "", domain.NewStoreError("read synset ili", gerr)
	}
	if linked.ILIID != nil {
		iliID = *linked.ILIID
	}

	var prop struct {
		Definition string `db:"definition"`
	}
	perr := q.GetContext(ctx, &prop, `SELECT definition FROM proposed_ilis WHERE synset_id = ?`, synsetRowID)
	if perr == nil {
		proposed = true
		proposedDef = prop.Definition
	}
	return iliID, proposed, proposedDef, nil
}

// LinkILI binds synset to an existing or newly-presupposed ILI entry.
// Refuses if the synset already has a real or proposed binding.
func (e *Editor) LinkILI(ctx context.Context, synsetID, iliID string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}
		existing, proposed, _, err := e.synsetILIState(ctx, synRow)
		if err != nil {
			return err
		}
		if existing != "" || proposed {
			return domain.NewConflictError("synset already has an ILI binding")
		}

		iliRow, err := ensureILI(ctx, e, iliID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())
		if _, err := q.ExecContext(ctx, `UPDATE synsets SET ili_id = ? WHERE id = ?`, iliRow, synRow); err != nil {
			return domain.NewStoreError("link ili", err)
		}
		return e.history.RecordFieldUpdate(ctx, domain.KindSynset, synsetID, "ili", `""`, jsonQuote(iliID))
	})
}

// UnlinkILI clears both the real and proposed ILI bindings of synset.
func (e *Editor) UnlinkILI(ctx context.Context, synsetID string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())
		if _, err := q.ExecContext(ctx, `UPDATE synsets SET ili_id = NULL WHERE id = ?`, synRow); err != nil {
			return domain.NewStoreError("unlink ili", err)
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM proposed_ilis WHERE synset_id = ?`, synRow); err != nil {
			return domain.NewStoreError("unlink proposed ili", err)
		}
		return e.history.RecordFieldUpdate(ctx, domain.KindSynset, synsetID, "ili", "", `""`)
	})
}

// ProposeILI records a not-yet-standardized ILI placeholder. definition
// must be at least 20 characters; synset must not already have any
// real or proposed binding.
func (e *Editor) ProposeILI(ctx context.Context, synsetID, definition string, metadata domain.Metadata) error {
	if utf8.RuneCountInString(definition) < 20 {
		return domain.NewValidationError("definition", "proposed ILI definition must be at least 20 characters")
	}
	return e.runTx(ctx, func(ctx context.Context) error {
		synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}
		existing, proposed, _, err := e.synsetILIState(ctx, synRow)
		if err != nil {
			return err
		}
		if existing != "" || proposed {
			return domain.NewConflictError("synset already has an ILI binding")
		}
		metaJSON, err := encodeMetadata(metadata)
		if err != nil {
			return domain.NewValidationError("metadata", "not JSON-serializable")
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())
		if _, err := q.ExecContext(ctx, `INSERT INTO proposed_ilis (synset_id, definition, metadata) VALUES (?, ?, ?)`, synRow, definition, metaJSON); err != nil {
			return domain.NewStoreError("propose ili", err)
		}
		return e.history.RecordFieldUpdate(ctx, domain.KindSynset, synsetID, "ili", "", `"in"`)
	})
}

// GetILI returns the ILI bound to synset, or nil if unbound.
func (e *Editor) GetILI(ctx context.Context, synsetID string) (*domain.ILI, error) {
	synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
	if err != nil {
		return nil, err
	}
	iliID, proposed, _, err := e.synsetILIState(ctx, synRow)
	if err != nil {
		return nil, err
	}
	if proposed || iliID == "" {
		return nil, nil
	}

	q := store.QuerierFromCtx(ctx, e.db.DB())
	var row struct {
		ILIID      string `db:"ili_id"`
		Status     string `db:"status"`
		Definition string `db:"definition"`
		Metadata   string `db:"metadata"`
	}
	if err := q.GetContext(ctx, &row, `
		SELECT i.ili_id AS ili_id, st.status AS status, i.definition AS definition, i.metadata AS metadata
		FROM ilis i JOIN ili_statuses st ON st.id = i.status_id WHERE i.ili_id = ?`, iliID); err != nil {
		return nil, domain.NewStoreError("get ili", err)
	}
	meta, err := decodeMetadata(row.Metadata)
	if err != nil {
		return nil, domain.NewStoreError("decode ili metadata", err)
	}
	return &domain.ILI{ID: row.ILIID, Status: domain.ILIStatus(row.Status), Definition: row.Definition, Metadata: meta}, nil
}

// GetProposedILI returns the proposed-ILI placeholder bound to synset, if
// any.
func (e *Editor) GetProposedILI(ctx context.Context, synsetID string) (*domain.ProposedILI, error) {
	synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
	if err != nil {
		return nil, err
	}
	q := store.QuerierFromCtx(ctx, e.db.DB())
	var row struct {
		Definition string `db:"definition"`
		Metadata   string `db:"metadata"`
	}
	err = q.GetContext(ctx, &row, `SELECT definition, metadata FROM proposed_ilis WHERE synset_id = ?`, synRow)
	if err != nil {
		return nil, nil
	}
	meta, err := decodeMetadata(row.Metadata)
	if err != nil {
		return nil, domain.NewStoreError("decode proposed ili metadata", err)
	}
	return &domain.ProposedILI{SynsetID: synsetID, Definition: row.Definition, Metadata: meta}, nil
}

func jsonQuote(s string) string {
	v, _ := encodeJSONValue(s)
	return v
}
