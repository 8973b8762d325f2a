package engine

import (
	"context"
	"sort"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// AddSenseParams describes a new binding between an entry and a synset.
type AddSenseParams struct {
	EntryID     string
	SynsetID    string
	ExplicitID  domain.Opt[string]
	Lexicalized domain.Opt[bool]
	AdjPosition domain.Opt[string]
	Metadata    domain.Metadata
}

// AddSense binds an entry to a synset. Refuses if the pair already
// exists. Ranks are assigned as max+1 on each axis; if the target
// synset was unlexicalized, the mark is cleared.
func (e *Editor) AddSense(ctx context.Context, p AddSenseParams) (domain.Sense, error) {
	var out domain.Sense
	err := e.runTx(ctx, func(ctx context.Context) error {
		entryRow, err := e.db.EntryRowIDByID(ctx, p.EntryID)
		if err != nil {
			return err
		}
		synRow, err := e.db.SynsetRowIDByID(ctx, p.SynsetID)
		if err != nil {
			return err
		}

		q := store.QuerierFromCtx(ctx, e.db.DB())

		var existing int
		if err := q.GetContext(ctx, &existing, `SELECT COUNT(*) FROM senses WHERE entry_id = ? AND synset_id = ?`, entryRow, synRow); err != nil {
			return domain.NewStoreError("check existing sense", err)
		}
		if existing > 0 {
			return domain.NewDuplicateError(domain.KindSense, p.EntryID+"/"+p.SynsetID)
		}

		var maxEntryRank, maxSynsetRank int
		if err := q.GetContext(ctx, &maxEntryRank, `SELECT COALESCE(MAX(entry_rank), 0) FROM senses WHERE entry_id = ?`, entryRow); err != nil {
			return domain.NewStoreError("read max entry rank", err)
		}
		if err := q.GetContext(ctx, &maxSynsetRank, `SELECT COALESCE(MAX(synset_rank), 0) FROM senses WHERE synset_id = ?`, synRow); err != nil {
			return domain.NewStoreError("read max synset rank", err)
		}
		entryRank := maxEntryRank + 1
		synsetRank := maxSynsetRank + 1

		id := p.ExplicitID.Value
		if !p.ExplicitID.Set || id == "" {
			id = nextSenseID(p.EntryID, p.SynsetID, entryRank)
		}

		lexicalized := !p.Lexicalized.Set || p.Lexicalized.Value
		var adjPosID *int64
		if p.AdjPosition.Set && p.AdjPosition.Value != "" {
			var apID int64
			if err := q.GetContext(ctx, &apID, `SELECT id FROM adjpositions WHERE value = ?`, p.AdjPosition.Value); err != nil {
				return domain.NewValidationError("adjposition", "unrecognized adjective position")
			}
			adjPosID = &apID
		}

		metaJSON, err := encodeMetadata(p.Metadata)
		if err != nil {
			return domain.NewValidationError("metadata", "not JSON-serializable")
		}

		lexFlag := 1
		if !lexicalized {
			lexFlag = 0
		}
		res, err := q.ExecContext(ctx, `
			INSERT INTO senses (sense_id, entry_id, synset_id, entry_rank, synset_rank, lexicalized, adjposition_id, metadata)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, entryRow, synRow, entryRank, synsetRank, lexFlag, adjPosID, metaJSON)
		if err != nil {
			return store.MapError(err, domain.KindSense, id)
		}
		if !lexicalized {
			senseRowID, rerr := res.LastInsertId()
			if rerr != nil {
				return domain.NewStoreError("create sense", rerr)
			}
			if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO unlexicalized_senses (sense_id) VALUES (?)`, senseRowID); err != nil {
				return domain.NewStoreError("mark sense unlexicalized", err)
			}
		}

		if err := clearUnlexicalizedSynset(ctx, e, synRow); err != nil {
			return err
		}

		out = domain.Sense{
			ID: id, EntryID: p.EntryID, SynsetID: p.SynsetID, EntryRank: entryRank,
			SynsetRank: synsetRank, Lexicalized: lexicalized, AdjPosition: p.AdjPosition.Value, Metadata: p.Metadata,
		}
		snap, _ := encodeJSONValue(out)
		return e.history.RecordCreate(ctx, domain.KindSense, id, snap)
	})
	return out, err
}

// RemoveSense removes a sense. Its relations (both domains) and their
// inverse rows cascade via foreign key, since sense_relations references
// senses(id) ON DELETE CASCADE on both source and target, and
// sense_synset_relations does so on its source. If
// removal empties the parent synset, the synset becomes unlexicalized.
func (e *Editor) RemoveSense(ctx context.Context, senseID string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		q := store.QuerierFromCtx(ctx, e.db.DB())

		var row struct {
			RowID     int64 `db:"id"`
			SynsetRow int64 `db:"synset_id"`
		}
		if err := q.GetContext(ctx, &row, `SELECT id, synset_id FROM senses WHERE sense_id = ?`, senseID); err != nil {
			return domain.NewNotFoundError(domain.KindSense, senseID)
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM senses WHERE id = ?`, row.RowID); err != nil {
			return domain.NewStoreError("remove sense", err)
		}

		if err := recheckSynsetLexicalization(ctx, e, row.SynsetRow); err != nil {
			return err
		}
		return e.history.RecordDelete(ctx, domain.KindSense, senseID, "")
	})
}

// MoveSense reassigns a sense to a different synset. Refuses if the
// entry already has a sense in the target synset. The target
// becomes lexicalized; the source becomes unlexicalized if emptied.
// Sense relations are untouched.
func (e *Editor) MoveSense(ctx context.Context, senseID, newSynsetID string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		q := store.QuerierFromCtx(ctx, e.db.DB())

		var row struct {
			RowID       int64 `db:"id"`
			EntryRow    int64 `db:"entry_id"`
			OldSynsetID int64 `db:"synset_id"`
		}
		if err := q.GetContext(ctx, &row, `SELECT id, entry_id, synset_id FROM senses WHERE sense_id = ?`, senseID); err != nil {
			return domain.NewNotFoundError(domain.KindSense, senseID)
		}

		newSynRow, err := e.db.SynsetRowIDByID(ctx, newSynsetID)
		if err != nil {
			return err
		}

		var dup int
		if err := q.GetContext(ctx, &dup, `SELECT COUNT(*) FROM senses WHERE entry_id = ? AND synset_id = ?`, row.EntryRow, newSynRow); err != nil {
			return domain.NewStoreError("check existing sense", err)
		}
		if dup > 0 {
			return domain.NewDuplicateError(domain.KindSense, senseID+"->"+newSynsetID)
		}

		var maxSynsetRank int
		if err := q.GetContext(ctx, &maxSynsetRank, `SELECT COALESCE(MAX(synset_rank), 0) FROM senses WHERE synset_id = ?`, newSynRow); err != nil {
			return domain.NewStoreError("read max synset rank", err)
		}

		if _, err := q.ExecContext(ctx, `UPDATE senses SET synset_id = ?, synset_rank = ? WHERE id = ?`,
			newSynRow, maxSynsetRank+1, row.RowID); err != nil {
			return domain.NewStoreError("move sense", err)
		}

		if err := clearUnlexicalizedSynset(ctx, e, newSynRow); err != nil {
			return err
		}
		if err := recheckSynsetLexicalization(ctx, e, row.OldSynsetID); err != nil {
			return err
		}
		return e.history.RecordFieldUpdate(ctx, domain.KindSense, senseID, "synset_id", "", jsonQuote(newSynsetID))
	})
}

// AddCount attaches a sense-frequency count to a sense.
func (e *Editor) AddCount(ctx context.Context, senseID string, value int, metadata domain.Metadata) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		senseRow, err := e.db.SenseRowIDByID(ctx, senseID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())
		metaJSON, err := encodeMetadata(metadata)
		if err != nil {
			return domain.NewValidationError("metadata", "not JSON-serializable")
		}
		if _, err := q.ExecContext(ctx, `INSERT INTO counts (sense_id, value, metadata) VALUES (?, ?, ?)`,
			senseRow, value, metaJSON); err != nil {
			return domain.NewStoreError("add count", err)
		}
		snap, _ := encodeJSONValue(value)
		return e.history.RecordCreate(ctx, domain.KindCount, senseID, snap)
	})
}

// ReorderSenses reassigns entry-rank 1..n to the entry's senses in the
// order given by senseIDs, which must equal the entry's current sense
// ids as a set.
func (e *Editor) ReorderSenses(ctx context.Context, entryID string, senseIDs []string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		entryRow, err := e.db.EntryRowIDByID(ctx, entryID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())

		var current []struct {
			RowID   int64  `db:"id"`
			SenseID string `db:"sense_id"`
		}
		if err := q.SelectContext(ctx, &current, `SELECT id, sense_id FROM senses WHERE entry_id = ?`, entryRow); err != nil {
			return domain.NewStoreError("list senses", err)
		}

		if !sameSenseSet(current, senseIDs) {
			return domain.NewValidationError("order", "supplied sense ids must equal the entry's current senses")
		}

		rowByID := make(map[string]int64, len(current))
		for _, c := range current {
			rowByID[c.SenseID] = c.RowID
		}

		for i, sid := range senseIDs {
			rank := i + 1
			if _, err := q.ExecContext(ctx, `UPDATE senses SET entry_rank = ? WHERE id = ?`, rank, rowByID[sid]); err != nil {
				return domain.NewStoreError("reorder senses", err)
			}
		}
		return e.history.RecordFieldUpdate(ctx, domain.KindEntry, entryID, "sense_order", "", mustJSON(senseIDs))
	})
}

func sameSenseSet(current []struct {
	RowID   int64  `db:"id"`
	SenseID string `db:"sense_id"`
}, proposed []string) bool {
	if len(current) != len(proposed) {
		return false
	}
	a := make([]string, len(current))
	for i, c := range current {
		a[i] = c.SenseID
	}
	b := append([]string(nil), proposed...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustJSON(v any) string {
	s, _ := encodeJSONValue(v)
	return s
}
