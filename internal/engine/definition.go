package engine

import (
	"context"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// AddDefinition appends a definition to a synset, after any existing
// ones, in insertion order.
func (e *Editor) AddDefinition(ctx context.Context, synsetID, text, language string, metadata domain.Metadata) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())

		var maxPos int
		if err := q.GetContext(ctx, &maxPos, `SELECT COALESCE(MAX(position), -1) FROM definitions WHERE synset_id = ?`, synRow); err != nil {
			return domain.NewStoreError("read max definition position", err)
		}
		metaJSON, err := encodeMetadata(metadata)
		if err != nil {
			return domain.NewValidationError("metadata", "not JSON-serializable")
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO definitions (synset_id, text, language, metadata, position) VALUES (?, ?, ?, ?, ?)`,
			synRow, text, language, metaJSON, maxPos+1); err != nil {
			return domain.NewStoreError("add definition", err)
		}
		return e.history.RecordCreate(ctx, domain.KindDefinition, synsetID, jsonQuote(text))
	})
}

// UpdateDefinition replaces the text of the definition at the given
// zero-based insertion-order index.
func (e *Editor) UpdateDefinition(ctx context.Context, synsetID string, index int, text string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}
		rowID, oldText, err := definitionAt(ctx, e, synRow, index)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())
		if _, err := q.ExecContext(ctx, `UPDATE definitions SET text = ? WHERE id = ?`, text, rowID); err != nil {
			return domain.NewStoreError("update definition", err)
		}
		return e.history.RecordFieldUpdate(ctx, domain.KindDefinition, synsetID, "text", jsonQuote(oldText), jsonQuote(text))
	})
}

// RemoveDefinition removes the definition at the given zero-based
// insertion-order index.
func (e *Editor) RemoveDefinition(ctx context.Context, synsetID string, index int) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}
		rowID, _, err := definitionAt(ctx, e, synRow, index)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())
		if _, err := q.ExecContext(ctx, `DELETE FROM definitions WHERE id = ?`, rowID); err != nil {
			return domain.NewStoreError("remove definition", err)
		}
		return e.history.RecordDelete(ctx, domain.KindDefinition, synsetID, "")
	})
}

func definitionAt(ctx context.Context, e *Editor, synsetRowID int64, index int) (int64, string, error) {
	var rows []struct {
		ID   int64  `db:"id"`
		Text string `db:"text"`
	}
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.SelectContext(ctx, &rows, `SELECT id, text FROM definitions WHERE synset_id = ? ORDER BY position`, synsetRowID); err != nil {
		return 0, "", domain.NewStoreError("list definitions", err)
	}
	if index < 0 || index >= len(rows) {
		return 0, "", domain.NewIndexRangeError(domain.KindDefinition, index, len(rows))
	}
	return rows[index].ID, rows[index].Text, nil
}

// AddSynsetExample appends a usage example to a synset.
func (e *Editor) AddSynsetExample(ctx context.Context, synsetID, text, language string, metadata domain.Metadata) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}
		return addExample(ctx, e, "synset_examples", "synset_id", synRow, domain.KindSynset, synsetID, text, language, metadata)
	})
}

// UpdateSynsetExample replaces the text of the synset example at index.
func (e *Editor) UpdateSynsetExample(ctx context.Context, synsetID string, index int, text string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}
		return updateExample(ctx, e, "synset_examples", "synset_id", synRow, domain.KindSynset, synsetID, index, text)
	})
}

// RemoveSynsetExample removes the synset example at index.
func (e *Editor) RemoveSynsetExample(ctx context.Context, synsetID string, index int) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}
		return removeExample(ctx, e, "synset_examples", "synset_id", synRow, domain.KindSynset, synsetID, index)
	})
}

// AddSenseExample appends a usage example to a sense.
func (e *Editor) AddSenseExample(ctx context.Context, senseID, text, language string, metadata domain.Metadata) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		senseRow, err := e.db.SenseRowIDByID(ctx, senseID)
		if err != nil {
			return err
		}
		return addExample(ctx, e, "sense_examples", "sense_id", senseRow, domain.KindSense, senseID, text, language, metadata)
	})
}

// UpdateSenseExample replaces the text of the sense example at index.
func (e *Editor) UpdateSenseExample(ctx context.Context, senseID string, index int, text string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		senseRow, err := e.db.SenseRowIDByID(ctx, senseID)
		if err != nil {
			return err
		}
		return updateExample(ctx, e, "sense_examples", "sense_id", senseRow, domain.KindSense, senseID, index, text)
	})
}

// RemoveSenseExample removes the sense example at index.
func (e *Editor) RemoveSenseExample(ctx context.Context, senseID string, index int) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		senseRow, err := e.db.SenseRowIDByID(ctx, senseID)
		if err != nil {
			return err
		}
		return removeExample(ctx, e, "sense_examples", "sense_id", senseRow, domain.KindSense, senseID, index)
	})
}

func addExample(ctx context.Context, e *Editor, table, ownerCol string, ownerRowID int64, kind domain.EntityKind, ownerID, text, language string, metadata domain.Metadata) error {
	q := store.QuerierFromCtx(ctx, e.db.DB())

	var maxPos int
	if err := q.GetContext(ctx, &maxPos, `SELECT COALESCE(MAX(position), -1) FROM `+table+` WHERE `+ownerCol+` = ?`, ownerRowID); err != nil {
		return domain.NewStoreError("read max example position", err)
	}
	metaJSON, err := encodeMetadata(metadata)
	if err != nil {
		return domain.NewValidationError("metadata", "not JSON-serializable")
	}
	if _, err := q.ExecContext(ctx, `INSERT INTO `+table+` (`+ownerCol+`, text, language, metadata, position) VALUES (?, ?, ?, ?, ?)`,
		ownerRowID, text, language, metaJSON, maxPos+1); err != nil {
		return domain.NewStoreError("add example", err)
	}
	return e.history.RecordCreate(ctx, domain.KindExample, ownerID, jsonQuote(text))
}

func exampleAt(ctx context.Context, e *Editor, table, ownerCol string, ownerRowID int64, kind domain.EntityKind, index int) (int64, string, error) {
	var rows []struct {
		ID   int64  `db:"id"`
		Text string `db:"text"`
	}
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.SelectContext(ctx, &rows, `SELECT id, text FROM `+table+` WHERE `+ownerCol+` = ? ORDER BY position`, ownerRowID); err != nil {
		return 0, "", domain.NewStoreError("list examples", err)
	}
	if index < 0 || index >= len(rows) {
		return 0, "", domain.NewIndexRangeError(domain.KindExample, index, len(rows))
	}
	return rows[index].ID, rows[index].Text, nil
}

func updateExample(ctx context.Context, e *Editor, table, ownerCol string, ownerRowID int64, kind domain.EntityKind, ownerID string, index int, text string) error {
	rowID, oldText, err := exampleAt(ctx, e, table, ownerCol, ownerRowID, kind, index)
	if err != nil {
		return err
	}
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if _, err := q.ExecContext(ctx, `UPDATE `+table+` SET text = ? WHERE id = ?`, text, rowID); err != nil {
		return domain.NewStoreError("update example", err)
	}
	return e.history.RecordFieldUpdate(ctx, domain.KindExample, ownerID, "text", jsonQuote(oldText), jsonQuote(text))
}

func removeExample(ctx context.Context, e *Editor, table, ownerCol string, ownerRowID int64, kind domain.EntityKind, ownerID string, index int) error {
	rowID, _, err := exampleAt(ctx, e, table, ownerCol, ownerRowID, kind, index)
	if err != nil {
		return err
	}
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if _, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, rowID); err != nil {
		return domain.NewStoreError("remove example", err)
	}
	return e.history.RecordDelete(ctx, domain.KindExample, ownerID, "")
}
