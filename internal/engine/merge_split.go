package engine

import (
	"context"
	"strings"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// MergeSynsets absorbs source into target: ILI bindings, senses,
// relations, definitions, and examples are transferred or merged, then
// source is deleted. Refuses if both synsets carry an ILI binding (real
// or proposed) — resolving a binding conflict is left to the caller.
func (e *Editor) MergeSynsets(ctx context.Context, sourceID, targetID string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		srcRow, err := e.db.SynsetRowIDByID(ctx, sourceID)
		if err != nil {
			return err
		}
		tgtRow, err := e.db.SynsetRowIDByID(ctx, targetID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())

		srcILI, srcProposed, srcProposedDef, err := e.synsetILIState(ctx, srcRow)
		if err != nil {
			return err
		}
		tgtILI, tgtProposed, _, err := e.synsetILIState(ctx, tgtRow)
		if err != nil {
			return err
		}
		srcBound := srcILI != "" || srcProposed
		tgtBound := tgtILI != "" || tgtProposed
		if srcBound && tgtBound {
			return domain.NewConflictError("both synsets carry an ILI binding")
		}
		if srcBound && !tgtBound {
			if srcProposed {
				if _, err := q.ExecContext(ctx, `INSERT INTO proposed_ilis (synset_id, definition, metadata) VALUES (?, ?, '{}')`,
					tgtRow, srcProposedDef); err != nil {
					return domain.NewStoreError("transfer proposed ili", err)
				}
			} else {
				var iliRow int64
				if err := q.GetContext(ctx, &iliRow, `SELECT id FROM ilis WHERE ili_id = ?`, srcILI); err != nil {
					return domain.NewStoreError("resolve source ili", err)
				}
				if _, err := q.ExecContext(ctx, `UPDATE synsets SET ili_id = ? WHERE id = ?`, iliRow, tgtRow); err != nil {
					return domain.NewStoreError("transfer ili", err)
				}
			}
		}

		if err := mergeSenses(ctx, e, srcRow, tgtRow); err != nil {
			return err
		}
		if err := rewriteRelationsForMerge(ctx, e, domain.DomainSynsetSynset, srcRow, tgtRow); err != nil {
			return err
		}
		if err := mergeDefinitions(ctx, e, srcRow, tgtRow); err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, `UPDATE synset_examples SET synset_id = ? WHERE synset_id = ?`, tgtRow, srcRow); err != nil {
			return domain.NewStoreError("transfer examples", err)
		}
		if err := clearUnlexicalizedSynset(ctx, e, tgtRow); err != nil {
			return err
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM synsets WHERE id = ?`, srcRow); err != nil {
			return domain.NewStoreError("delete merged source", err)
		}
		return e.history.RecordCompound(ctx, domain.KindSynset, targetID, "merge_from", jsonQuote(sourceID))
	})
}

func mergeSenses(ctx context.Context, e *Editor, srcRow, tgtRow int64) error {
	q := store.QuerierFromCtx(ctx, e.db.DB())

	var senses []struct {
		RowID   int64 `db:"id"`
		EntryID int64 `db:"entry_id"`
	}
	if err := q.SelectContext(ctx, &senses, `SELECT id, entry_id FROM senses WHERE synset_id = ?`, srcRow); err != nil {
		return domain.NewStoreError("list source senses", err)
	}

	for _, s := range senses {
		var dup int
		if err := q.GetContext(ctx, &dup, `SELECT COUNT(*) FROM senses WHERE entry_id = ? AND synset_id = ?`, s.EntryID, tgtRow); err != nil {
			return domain.NewStoreError("check redundant sense", err)
		}
		if dup > 0 {
			if _, err := q.ExecContext(ctx, `DELETE FROM senses WHERE id = ?`, s.RowID); err != nil {
				return domain.NewStoreError("drop redundant sense", err)
			}
			continue
		}
		if _, err := q.ExecContext(ctx, `UPDATE senses SET synset_id = ? WHERE id = ?`, tgtRow, s.RowID); err != nil {
			return domain.NewStoreError("reassign sense", err)
		}
	}
	return nil
}

// rewriteRelationsForMerge rewrites every relation naming srcRow as
// source or target to name tgtRow instead, dropping rows that would
// become self-loops or violate the unique (source, kind, target)
// constraint.
func rewriteRelationsForMerge(ctx context.Context, e *Editor, d domain.RelationDomain, srcRow, tgtRow int64) error {
	table := relationTable(d)
	q := store.QuerierFromCtx(ctx, e.db.DB())

	var outgoing []struct {
		ID     int64  `db:"id"`
		Kind   string `db:"kind"`
		Target int64  `db:"target_id"`
	}
	if err := q.SelectContext(ctx, &outgoing, `SELECT id, kind, target_id FROM `+table+` WHERE source_id = ?`, srcRow); err != nil {
		return domain.NewStoreError("list outgoing relations", err)
	}
	for _, r := range outgoing {
		if r.Target == tgtRow {
			if _, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, r.ID); err != nil {
				return domain.NewStoreError("drop self-loop relation", err)
			}
			continue
		}
		if _, err := q.ExecContext(ctx, `UPDATE `+table+` SET source_id = ? WHERE id = ?`, tgtRow, r.ID); err != nil {
			if isUniqueViolation(err) {
				if _, derr := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, r.ID); derr != nil {
					return domain.NewStoreError("drop duplicate relation", derr)
				}
				continue
			}
			return domain.NewStoreError("rewrite outgoing relation", err)
		}

	}

	var incoming []struct {
		ID     int64  `db:"id"`
		Kind   string `db:"kind"`
		Source int64  `db:"source_id"`
	}
	if err := q.SelectContext(ctx, &incoming, `SELECT id, kind, source_id FROM `+table+` WHERE target_id = ?`, srcRow); err != nil {
		return domain.NewStoreError("list incoming relations", err)
	}
	for _, r := range incoming {
		if r.Source == tgtRow {
			if _, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, r.ID); err != nil {
				return domain.NewStoreError("drop self-loop relation", err)
			}
			continue
		}
		if _, err := q.ExecContext(ctx, `UPDATE `+table+` SET target_id = ? WHERE id = ?`, tgtRow, r.ID); err != nil {
			if isUniqueViolation(err) {
				if _, derr := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, r.ID); derr != nil {
					return domain.NewStoreError("drop duplicate relation", derr)
				}
				continue
			}
			return domain.NewStoreError("rewrite incoming relation", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether a raw driver error is a unique or
// primary-key constraint violation, by running it through the same
// mapping the store package applies to insert errors.
func isUniqueViolation(err error) bool {
	mapped := store.MapError(err, domain.KindRelation, "")
	var dup *domain.DuplicateError
	return errorsAsDuplicate(mapped, &dup)
}

func errorsAsDuplicate(err error, target **domain.DuplicateError) bool {
	de, ok := err.(*domain.DuplicateError)
	if !ok {
		return false
	}
	*target = de
	return true
}

func mergeDefinitions(ctx context.Context, e *Editor, srcRow, tgtRow int64) error {
	q := store.QuerierFromCtx(ctx, e.db.DB())

	var targetTexts []string
	if err := q.SelectContext(ctx, &targetTexts, `SELECT text FROM definitions WHERE synset_id = ?`, tgtRow); err != nil {
		return domain.NewStoreError("list target definitions", err)
	}
	seen := make(map[string]bool, len(targetTexts))
	for _, t := range targetTexts {
		seen[strings.TrimSpace(t)] = true
	}

	var maxPos int
	if err := q.GetContext(ctx, &maxPos, `SELECT COALESCE(MAX(position), -1) FROM definitions WHERE synset_id = ?`, tgtRow); err != nil {
		return domain.NewStoreError("read max definition position", err)
	}

	var sourceDefs []struct {
		Text     string `db:"text"`
		Language string `db:"language"`
		Metadata string `db:"metadata"`
	}
	if err := q.SelectContext(ctx, &sourceDefs, `SELECT text, language, metadata FROM definitions WHERE synset_id = ? ORDER BY position`, srcRow); err != nil {
		return domain.NewStoreError("list source definitions", err)
	}

	next := maxPos + 1
	for _, d := range sourceDefs {
		trimmed := strings.TrimSpace(d.Text)
		if seen[trimmed] {
			continue
		}
		if _, err := q.ExecContext(ctx, `INSERT INTO definitions (synset_id, text, language, metadata, position) VALUES (?, ?, ?, ?, ?)`,
			tgtRow, d.Text, d.Language, d.Metadata, next); err != nil {
			return domain.NewStoreError("carry over definition", err)
		}
		seen[trimmed] = true
		next++
	}
	return nil
}

// SplitSynset partitions synset's current senses into groups: the first
// group stays on the original synset; each subsequent group moves to a
// freshly-created synset in the same lexicon with the same part of
// speech. Incoming relations, definitions, and examples remain on the
// original. Outgoing relations are copied onto every new synset,
// skipping duplicates.
func (e *Editor) SplitSynset(ctx context.Context, synsetID string, senseGroups [][]string) ([]string, error) {
	if len(senseGroups) < 2 {
		return nil, domain.NewValidationError("sense_groups", "split requires at least 2 groups")
	}

	var newIDs []string
	err := e.runTx(ctx, func(ctx context.Context) error {
		synRow, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())

		var lexRow int64
		var lexID, pos string
		var synInfo struct {
			LexiconID int64  `db:"lexicon_id"`
			POS       string `db:"pos"`
		}
		if err := q.GetContext(ctx, &synInfo, `SELECT lexicon_id, pos FROM synsets WHERE id = ?`, synRow); err != nil {
			return domain.NewStoreError("read synset", err)
		}
		lexRow, pos = synInfo.LexiconID, synInfo.POS
		if err := q.GetContext(ctx, &lexID, `SELECT lex_id FROM lexicons WHERE id = ?`, lexRow); err != nil {
			return domain.NewStoreError("read lexicon", err)
		}

		var currentSenses []string
		if err := q.SelectContext(ctx, &currentSenses, `SELECT sense_id FROM senses WHERE synset_id = ?`, synRow); err != nil {
			return domain.NewStoreError("list current senses", err)
		}
		if !partitionsExactly(currentSenses, senseGroups) {
			return domain.NewValidationError("sense_groups", "groups must exactly partition the synset's current senses")
		}

		for _, group := range senseGroups[1:] {
			newID, err := nextSynsetID(ctx, e.db, lexID, pos)
			if err != nil {
				return domain.NewStoreError("generate split synset id", err)
			}
			res, err := q.ExecContext(ctx, `INSERT INTO synsets (lexicon_id, synset_id, pos, metadata) VALUES (?, ?, ?, '{}')`,
				lexRow, newID, pos)
			if err != nil {
				return store.MapError(err, domain.KindSynset, newID)
			}
			newRow, err := res.LastInsertId()
			if err != nil {
				return domain.NewStoreError("create split synset", err)
			}

			for _, senseID := range group {
				if _, err := q.ExecContext(ctx, `UPDATE senses SET synset_id = ? WHERE sense_id = ?`, newRow, senseID); err != nil {
					return domain.NewStoreError("reassign sense to split synset", err)
				}
			}
			if err := recheckSynsetLexicalization(ctx, e, newRow); err != nil {
				return err
			}

			if err := copyOutgoingRelations(ctx, e, domain.DomainSynsetSynset, synRow, newRow); err != nil {
				return err
			}

			snap, _ := encodeJSONValue(newID)
			if err := e.history.RecordCreate(ctx, domain.KindSynset, newID, snap); err != nil {
				return err
			}
			newIDs = append(newIDs, newID)
		}

		if err := recheckSynsetLexicalization(ctx, e, synRow); err != nil {
			return err
		}
		return e.history.RecordCompound(ctx, domain.KindSynset, synsetID, "split_into", mustJSON(newIDs))
	})
	return newIDs, err
}

func copyOutgoingRelations(ctx context.Context, e *Editor, d domain.RelationDomain, srcRow, newRow int64) error {
	table := relationTable(d)
	q := store.QuerierFromCtx(ctx, e.db.DB())

	var rows []struct {
		Kind     string `db:"kind"`
		Target   int64  `db:"target_id"`
		Metadata string `db:"metadata"`
	}
	if err := q.SelectContext(ctx, &rows, `SELECT kind, target_id, metadata FROM `+table+` WHERE source_id = ?`, srcRow); err != nil {
		return domain.NewStoreError("list relations to copy", err)
	}
	for _, r := range rows {
		if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO `+table+` (source_id, kind, target_id, metadata) VALUES (?, ?, ?, ?)`,
			newRow, r.Kind, r.Target, r.Metadata); err != nil {
			return domain.NewStoreError("copy relation", err)
		}
	}
	return nil
}

// partitionsExactly reports whether groups, flattened and deduplicated,
// equal current as a set, with no sense repeated across groups.
func partitionsExactly(current []string, groups [][]string) bool {
	seen := make(map[string]bool)
	total := 0
	for _, g := range groups {
		for _, s := range g {
			if seen[s] {
				return false
			}
			seen[s] = true
			total++
		}
	}
	if total != len(current) {
		return false
	}
	for _, s := range current {
		if !seen[s] {
			return false
		}
	}
	return true
}
