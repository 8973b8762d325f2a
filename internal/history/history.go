// Package history implements the append-only edit log. Every row is
// written in the same transaction as the data change it describes (via
// store.QuerierFromCtx), so a rolled-back batch leaves no history rows
// behind.
package history

import (
	"context"
	"time"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// timestampLayout writes fixed-width UTC timestamps with millisecond
// precision, so the text column sorts in time order.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Log records and queries edit_history rows.
type Log struct {
	db *store.Store
	// enabled toggles whether Record* calls write anything. Bulk imports
	// may disable this to keep the log manageable while still committing
	// data changes.
	enabled bool
}

// New creates a Log bound to a store. Recording is enabled by default.
func New(db *store.Store) *Log { return &Log{db: db, enabled: true} }

// SetEnabled toggles whether Record* calls write history rows.
func (l *Log) SetEnabled(enabled bool) { l.enabled = enabled }

// Enabled reports whether recording is currently on.
func (l *Log) Enabled() bool { return l.enabled }

// RecordCreate logs a single CREATE row for an entity, with an optional
// JSON snapshot.
func (l *Log) RecordCreate(ctx context.Context, kind domain.EntityKind, entityID, snapshotJSON string) error {
	return l.insert(ctx, kind, entityID, "", domain.OpCreate, "", snapshotJSON)
}

// RecordDelete logs a single DELETE row for an entity, with an optional
// JSON snapshot of what was removed.
func (l *Log) RecordDelete(ctx context.Context, kind domain.EntityKind, entityID, snapshotJSON string) error {
	return l.insert(ctx, kind, entityID, "", domain.OpDelete, snapshotJSON, "")
}

// RecordFieldUpdate logs one UPDATE row per changed scalar field.
func (l *Log) RecordFieldUpdate(ctx context.Context, kind domain.EntityKind, entityID, field, oldJSON, newJSON string) error {
	return l.insert(ctx, kind, entityID, field, domain.OpUpdate, oldJSON, newJSON)
}

// RecordCompound logs a composite UPDATE on the surviving entity naming
// the operation (e.g. field "merge_from"), used by merge/split/cascade.
func (l *Log) RecordCompound(ctx context.Context, kind domain.EntityKind, entityID, opField, fromJSON string) error {
	return l.insert(ctx, kind, entityID, opField, domain.OpUpdate, "", fromJSON)
}

func (l *Log) insert(ctx context.Context, kind domain.EntityKind, entityID, field string, op domain.Operation, oldVal, newVal string) error {
	if !l.enabled {
		return nil
	}
	q := store.QuerierFromCtx(ctx, l.db.DB())
	_, err := q.ExecContext(ctx, `
		INSERT INTO edit_history (kind, entity_id, field, operation, old_value, new_value, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(kind), entityID, field, string(op), oldVal, newVal, time.Now().UTC().Format(timestampLayout))
	if err != nil {
		return domain.NewStoreError("record history", err)
	}
	return nil
}

// Filter selects a subset of history rows.
type Filter struct {
	Kind      domain.EntityKind
	EntityID  string
	Since     time.Time
	Operation domain.Operation
}

// Query returns matching rows ordered ascending by timestamp (and then by
// insertion order, since SQLite timestamps carry only millisecond
// precision and ties are broken by rowid).
func (l *Log) Query(ctx context.Context, f Filter) ([]domain.HistoryRecord, error) {
	query := `SELECT id, kind, entity_id, field, operation, old_value, new_value, timestamp FROM edit_history WHERE 1=1`
	var args []any

	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	if f.EntityID != "" {
		query += ` AND entity_id = ?`
		args = append(args, f.EntityID)
	}
	if !f.Since.IsZero() {
		query += ` AND timestamp >= ?`
		args = append(args, f.Since.UTC().Format(timestampLayout))
	}
	if f.Operation != "" {
		query += ` AND operation = ?`
		args = append(args, string(f.Operation))
	}
	query += ` ORDER BY timestamp ASC, id ASC`

	var rows []struct {
		ID        int64  `db:"id"`
		Kind      string `db:"kind"`
		EntityID  string `db:"entity_id"`
		Field     string `db:"field"`
		Operation string `db:"operation"`
		OldValue  string `db:"old_value"`
		NewValue  string `db:"new_value"`
		Timestamp string `db:"timestamp"`
	}

	q := store.QuerierFromCtx(ctx, l.db.DB())
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("query history", err)
	}

	out := make([]domain.HistoryRecord, 0, len(rows))
	for _, r := range rows {
		ts, _ := time.Parse(time.RFC3339Nano, r.Timestamp)
		out = append(out, domain.HistoryRecord{
			Seq:       r.ID,
			Kind:      domain.EntityKind(r.Kind),
			EntityID:  r.EntityID,
			Field:     r.Field,
			Operation: domain.Operation(r.Operation),
			OldValue:  r.OldValue,
			NewValue:  r.NewValue,
			Timestamp: ts,
		})
	}
	return out, nil
}
