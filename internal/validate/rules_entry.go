package validate

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// checkEntryNoSenses implements VAL-ENT-001: an entry with zero senses.
func checkEntryNoSenses(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("e.entry_id").From("entries e").
		LeftJoin("senses s ON s.entry_id = e.id").
		Where("s.id IS NULL")
	b, err := lexiconFilter(ctx, q, b, "e.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-ENT-001 query", err)
	}

	var ids []string
	if err := q.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, domain.NewStoreError("scan entries without senses", err)
	}
	out := make([]domain.Finding, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Finding{
			RuleID: "VAL-ENT-001", Severity: domain.SeverityWarning,
			Kind: domain.KindEntry, EntityID: id, Message: "entry has no senses",
		})
	}
	return out, nil
}

// checkEntryDuplicateSynsetTarget implements VAL-ENT-002: an entry with
// more than one sense pointing at the same synset. The (entry, synset)
// UNIQUE constraint in the schema already prevents this at the storage
// layer, so this rule only ever fires against data imported around it
// (e.g. a pre-existing LMF file violating the same invariant).
func checkEntryDuplicateSynsetTarget(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("e.entry_id", "COUNT(*) AS n").
		From("senses s").
		Join("entries e ON e.id = s.entry_id").
		GroupBy("s.entry_id", "s.synset_id").
		Having("COUNT(*) > 1")
	b, err := lexiconFilter(ctx, q, b, "e.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-ENT-002 query", err)
	}

	var rows []struct {
		EntryID string `db:"entry_id"`
		N       int    `db:"n"`
	}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("scan duplicate sense targets", err)
	}
	out := make([]domain.Finding, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Finding{
			RuleID: "VAL-ENT-002", Severity: domain.SeverityWarning,
			Kind: domain.KindEntry, EntityID: r.EntryID,
			Message: "entry has multiple senses targeting the same synset",
			Details: map[string]any{"count": r.N},
		})
	}
	return out, nil
}

// checkDuplicateLemmaSameSynset implements VAL-ENT-003: two different
// entries sharing a lemma whose senses both target the same synset.
func checkDuplicateLemmaSameSynset(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("ei.normalized_lemma", "s.synset_id", "COUNT(DISTINCT e.id) AS n").
		From("senses sn").
		Join("entries e ON e.id = sn.entry_id").
		Join("entry_index ei ON ei.entry_id = e.id").
		Join("synsets s ON s.id = sn.synset_id").
		GroupBy("ei.normalized_lemma", "sn.synset_id").
		Having("COUNT(DISTINCT e.id) > 1")
	b, err := lexiconFilter(ctx, q, b, "e.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-ENT-003 query", err)
	}

	var rows []struct {
		Lemma    string `db:"normalized_lemma"`
		SynsetID string `db:"synset_id"`
		N        int    `db:"n"`
	}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("scan duplicate lemma targets", err)
	}
	out := make([]domain.Finding, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Finding{
			RuleID: "VAL-ENT-003", Severity: domain.SeverityWarning,
			Kind: domain.KindSynset, EntityID: r.SynsetID,
			Message: "multiple entries with the same lemma reference this synset",
			Details: map[string]any{"lemma": r.Lemma, "count": r.N},
		})
	}
	return out, nil
}

// checkSenseMissingSynset implements VAL-ENT-004. The synset_id foreign
// key with ON DELETE CASCADE makes a dangling reference impossible through
// normal engine operations, so this guards against data brought in from
// an external source that skipped referential checks.
func checkSenseMissingSynset(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("s.sense_id").From("senses s").
		Join("entries e ON e.id = s.entry_id").
		LeftJoin("synsets sy ON sy.id = s.synset_id").
		Where("sy.id IS NULL")
	b, err := lexiconFilter(ctx, q, b, "e.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-ENT-004 query", err)
	}

	var ids []string
	if err := q.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, domain.NewStoreError("scan senses with missing synsets", err)
	}
	out := make([]domain.Finding, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Finding{
			RuleID: "VAL-ENT-004", Severity: domain.SeverityError,
			Kind: domain.KindSense, EntityID: id, Message: "sense references a synset that no longer exists",
		})
	}
	return out, nil
}
