package validate

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// checkUnlexicalizedSynset implements VAL-SYN-001.
func checkUnlexicalizedSynset(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("sy.synset_id").From("synsets sy").
		Join("unlexicalized_synsets u ON u.synset_id = sy.id")
	b, err := lexiconFilter(ctx, q, b, "sy.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-SYN-001 query", err)
	}
	var ids []string
	if err := q.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, domain.NewStoreError("scan unlexicalized synsets", err)
	}
	return findingsFor("VAL-SYN-001", domain.SeverityWarning, domain.KindSynset, "synset is unlexicalized", ids), nil
}

// checkSharedILI implements VAL-SYN-002: one ILI bound to more than one
// synset within the same lexicon.
func checkSharedILI(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("i.ili_id", "COUNT(*) AS n").
		From("synsets sy").
		Join("ilis i ON i.id = sy.ili_id").
		GroupBy("sy.lexicon_id", "i.ili_id").
		Having("COUNT(*) > 1")
	b, err := lexiconFilter(ctx, q, b, "sy.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-SYN-002 query", err)
	}
	var rows []struct {
		ILIID string `db:"ili_id"`
		N     int    `db:"n"`
	}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("scan shared ilis", err)
	}
	out := make([]domain.Finding, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Finding{
			RuleID: "VAL-SYN-002", Severity: domain.SeverityWarning,
			Kind: domain.KindILI, EntityID: r.ILIID,
			Message: "ili is bound to more than one synset in this lexicon",
			Details: map[string]any{"count": r.N},
		})
	}
	return out, nil
}

// checkProposedILIEmptyDefinition implements VAL-SYN-003.
func checkProposedILIEmptyDefinition(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("sy.synset_id").From("synsets sy").
		Join("proposed_ilis p ON p.synset_id = sy.id").
		Where(sq.Eq{"p.definition": ""})
	b, err := lexiconFilter(ctx, q, b, "sy.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-SYN-003 query", err)
	}
	var ids []string
	if err := q.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, domain.NewStoreError("scan empty proposed ili definitions", err)
	}
	return findingsFor("VAL-SYN-003", domain.SeverityWarning, domain.KindSynset, "proposed ili has an empty definition", ids), nil
}

// checkProposedAndRealILI implements VAL-SYN-004: both a real and a
// proposed ILI bound to the same synset. This should never happen through
// the engine (LinkILI and ProposeILI both refuse a double binding), so this rule
// exists to surface data inherited from an external source.
func checkProposedAndRealILI(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("sy.synset_id").From("synsets sy").
		Join("proposed_ilis p ON p.synset_id = sy.id").
		Where("sy.ili_id IS NOT NULL")
	b, err := lexiconFilter(ctx, q, b, "sy.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-SYN-004 query", err)
	}
	var ids []string
	if err := q.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, domain.NewStoreError("scan double-bound synsets", err)
	}
	return findingsFor("VAL-SYN-004", domain.SeverityWarning, domain.KindSynset, "synset has both a real and a proposed ili", ids), nil
}

// checkBlankDefinition implements VAL-SYN-005.
func checkBlankDefinition(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("sy.synset_id").From("definitions d").
		Join("synsets sy ON sy.id = d.synset_id").
		Where(sq.Eq{"d.text": ""})
	b, err := lexiconFilter(ctx, q, b, "sy.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-SYN-005 query", err)
	}
	var ids []string
	if err := q.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, domain.NewStoreError("scan blank definitions", err)
	}
	return findingsFor("VAL-SYN-005", domain.SeverityWarning, domain.KindSynset, "synset has a blank definition", dedupe(ids)), nil
}

// checkBlankExample implements VAL-SYN-006.
func checkBlankExample(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("sy.synset_id").From("synset_examples ex").
		Join("synsets sy ON sy.id = ex.synset_id").
		Where(sq.Eq{"ex.text": ""})
	b, err := lexiconFilter(ctx, q, b, "sy.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-SYN-006 query", err)
	}
	var ids []string
	if err := q.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, domain.NewStoreError("scan blank examples", err)
	}
	return findingsFor("VAL-SYN-006", domain.SeverityWarning, domain.KindSynset, "synset has a blank example", dedupe(ids)), nil
}

// checkDuplicateDefinitionAcrossSynsets implements VAL-SYN-007: the same
// non-empty definition text appearing on two or more synsets.
func checkDuplicateDefinitionAcrossSynsets(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("d.text", "sy.synset_id").
		From("definitions d").
		Join("synsets sy ON sy.id = d.synset_id").
		Where(sq.NotEq{"d.text": ""})
	b, err := lexiconFilter(ctx, q, b, "sy.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-SYN-007 query", err)
	}
	var rows []struct {
		Text     string `db:"text"`
		SynsetID string `db:"synset_id"`
	}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("scan definitions", err)
	}

	bySynset := map[string][]string{}
	for _, r := range rows {
		bySynset[strings.TrimSpace(r.Text)] = append(bySynset[strings.TrimSpace(r.Text)], r.SynsetID)
	}

	var out []domain.Finding
	for text, synsetIDs := range bySynset {
		unique := dedupe(synsetIDs)
		if len(unique) < 2 {
			continue
		}
		for _, id := range unique {
			out = append(out, domain.Finding{
				RuleID: "VAL-SYN-007", Severity: domain.SeverityWarning,
				Kind: domain.KindSynset, EntityID: id,
				Message: "this definition text also appears on another synset",
				Details: map[string]any{"text": text, "synsets": unique},
			})
		}
	}
	return out, nil
}

// checkProposedILITooShort implements VAL-SYN-008. ProposeILI already
// refuses a definition under 20 characters, so this guards stores
// populated outside the engine (an imported LMF file, a direct migration).
func checkProposedILITooShort(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("sy.synset_id", "LENGTH(p.definition) AS len").
		From("synsets sy").
		Join("proposed_ilis p ON p.synset_id = sy.id").
		Where(sq.Lt{"LENGTH(p.definition)": 20})
	b, err := lexiconFilter(ctx, q, b, "sy.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-SYN-008 query", err)
	}
	var rows []struct {
		SynsetID string `db:"synset_id"`
		Len      int    `db:"len"`
	}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("scan short proposed ili definitions", err)
	}
	out := make([]domain.Finding, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Finding{
			RuleID: "VAL-SYN-008", Severity: domain.SeverityError,
			Kind: domain.KindSynset, EntityID: r.SynsetID,
			Message: "proposed ili definition is shorter than 20 characters",
			Details: map[string]any{"length": r.Len},
		})
	}
	return out, nil
}

// checkSynsetNoDefinitions implements VAL-EDT-002, grouped here since it
// scans the same table family as the other synset rules.
func checkSynsetNoDefinitions(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("sy.synset_id").From("synsets sy").
		LeftJoin("definitions d ON d.synset_id = sy.id").
		Where("d.id IS NULL")
	b, err := lexiconFilter(ctx, q, b, "sy.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-EDT-002 query", err)
	}
	var ids []string
	if err := q.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, domain.NewStoreError("scan synsets without definitions", err)
	}
	return findingsFor("VAL-EDT-002", domain.SeverityWarning, domain.KindSynset, "synset has no definitions", ids), nil
}

func findingsFor(ruleID string, sev domain.Severity, kind domain.EntityKind, message string, ids []string) []domain.Finding {
	out := make([]domain.Finding, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Finding{RuleID: ruleID, Severity: sev, Kind: kind, EntityID: id, Message: message})
	}
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
