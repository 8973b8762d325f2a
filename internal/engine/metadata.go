package engine

import (
	"context"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// metadataTable resolves the table and business-key column for the
// closed set of entity kinds that carry metadata.
func metadataTable(kind domain.EntityKind) (table, idCol string, ok bool) {
	switch kind {
	case domain.KindLexicon:
		return "lexicons", "lex_id", true
	case domain.KindSynset:
		return "synsets", "synset_id", true
	case domain.KindEntry:
		return "entries", "entry_id", true
	case domain.KindSense:
		return "senses", "sense_id", true
	}
	return "", "", false
}

// GetMetadata returns the full metadata map for an entity, empty if
// none is set.
func (e *Editor) GetMetadata(ctx context.Context, kind domain.EntityKind, id string) (domain.Metadata, error) {
	table, idCol, ok := metadataTable(kind)
	if !ok {
		return nil, domain.NewValidationError("kind", "entity kind does not carry metadata")
	}
	var raw string
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.GetContext(ctx, &raw, `SELECT metadata FROM `+table+` WHERE `+idCol+` = ?`, id); err != nil {
		return nil, domain.NewNotFoundError(kind, id)
	}
	return decodeMetadata(raw)
}

// SetMetadata sets a single metadata key on an entity; a nil value
// removes the key.
func (e *Editor) SetMetadata(ctx context.Context, kind domain.EntityKind, id, key string, value any) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		table, idCol, ok := metadataTable(kind)
		if !ok {
			return domain.NewValidationError("kind", "entity kind does not carry metadata")
		}

		meta, err := e.GetMetadata(ctx, kind, id)
		if err != nil {
			return err
		}
		oldJSON, _ := encodeJSONValue(meta)

		if value == nil {
			delete(meta, key)
		} else {
			meta[key] = value
		}
		newJSON, err := encodeMetadata(meta)
		if err != nil {
			return domain.NewValidationError("metadata", "not JSON-serializable")
		}

		q := store.QuerierFromCtx(ctx, e.db.DB())
		if _, err := q.ExecContext(ctx, `UPDATE `+table+` SET metadata = ? WHERE `+idCol+` = ?`, newJSON, id); err != nil {
			return domain.NewStoreError("set metadata", err)
		}
		return e.history.RecordFieldUpdate(ctx, kind, id, "metadata."+key, oldJSON, newJSON)
	})
}

// SetConfidence sets the reserved "confidenceScore" metadata key on a
// sense.
func (e *Editor) SetConfidence(ctx context.Context, senseID string, score float64) error {
	return e.SetMetadata(ctx, domain.KindSense, senseID, "confidenceScore", score)
}
