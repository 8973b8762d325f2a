package validate

import (
	"context"

	"github.com/wnedit/wnedit/internal/catalog"
	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// relationTableSpec describes one relation table's shape for the generic
// rule scans below.
type relationTableSpec struct {
	domain      domain.RelationDomain
	table       string
	sourceTable string // table the source_id column references
	sourceIDCol string // that table's business-id column
	targetTable string
	targetIDCol string
}

var relationTables = []relationTableSpec{
	{domain.DomainSynsetSynset, "synset_relations", "synsets", "synset_id", "synsets", "synset_id"},
	{domain.DomainSenseSense, "sense_relations", "senses", "sense_id", "senses", "sense_id"},
	{domain.DomainSenseSynset, "sense_synset_relations", "senses", "sense_id", "synsets", "synset_id"},
}

// checkRelationTargetMissing implements VAL-REL-001. The ON DELETE CASCADE
// foreign keys on every relation table make a dangling reference
// impossible through the engine; this rule exists for data merged in from
// elsewhere.
func checkRelationTargetMissing(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	var out []domain.Finding
	for _, spec := range relationTables {
		query := `
			SELECT r.id FROM ` + spec.table + ` r
			LEFT JOIN ` + spec.targetTable + ` t ON t.id = r.target_id
			WHERE t.id IS NULL`
		var rowIDs []int64
		if err := q.SelectContext(ctx, &rowIDs, query); err != nil {
			return nil, domain.NewStoreError("scan relations with missing targets", err)
		}
		for _, id := range rowIDs {
			out = append(out, domain.Finding{
				RuleID: "VAL-REL-001", Severity: domain.SeverityError,
				Kind: domain.KindRelation, EntityID: relationRowLabel(spec.domain, id),
				Message: "relation target no longer exists",
			})
		}
	}
	return out, nil
}

func relationRowLabel(d domain.RelationDomain, rowID int64) string {
	return string(d) + "#" + itoa(rowID)
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// checkRelationKindUnrecognized implements VAL-REL-002: a relation row
// naming a kind the catalog no longer recognizes for its domain (e.g.
// left over from an older LMF version's relation vocabulary).
func checkRelationKindUnrecognized(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	var out []domain.Finding
	for _, spec := range relationTables {
		var kinds []string
		if err := q.SelectContext(ctx, &kinds, `SELECT DISTINCT kind FROM `+spec.table); err != nil {
			return nil, domain.NewStoreError("scan relation kinds", err)
		}
		for _, kind := range kinds {
			if catalog.IsValidForDomain(spec.domain, kind) {
				continue
			}
			var rowIDs []int64
			if err := q.SelectContext(ctx, &rowIDs, `SELECT id FROM `+spec.table+` WHERE kind = ?`, kind); err != nil {
				return nil, domain.NewStoreError("scan relations by kind", err)
			}
			for _, id := range rowIDs {
				out = append(out, domain.Finding{
					RuleID: "VAL-REL-002", Severity: domain.SeverityWarning,
					Kind: domain.KindRelation, EntityID: relationRowLabel(spec.domain, id),
					Message: "relation kind is not recognized for this domain",
					Details: map[string]any{"kind": kind},
				})
			}
		}
	}
	return out, nil
}

// checkRedundantRelation implements VAL-REL-003: more than one row sharing
// the same (source, kind, target) triple. The UNIQUE constraint on every
// relation table makes this impossible through the engine; surfaced for
// completeness against externally-populated stores.
func checkRedundantRelation(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	var out []domain.Finding
	for _, spec := range relationTables {
		var rows []struct {
			SourceID int64  `db:"source_id"`
			Kind     string `db:"kind"`
			TargetID int64  `db:"target_id"`
			N        int    `db:"n"`
		}
		query := `SELECT source_id, kind, target_id, COUNT(*) AS n FROM ` + spec.table +
			` GROUP BY source_id, kind, target_id HAVING COUNT(*) > 1`
		if err := q.SelectContext(ctx, &rows, query); err != nil {
			return nil, domain.NewStoreError("scan redundant relations", err)
		}
		for _, r := range rows {
			out = append(out, domain.Finding{
				RuleID: "VAL-REL-003", Severity: domain.SeverityWarning,
				Kind: domain.KindRelation, EntityID: relationRowLabel(spec.domain, r.SourceID),
				Message: "redundant relation row",
				Details: map[string]any{"kind": r.Kind, "count": r.N},
			})
		}
	}
	return out, nil
}

// checkMissingInverseRelation implements VAL-REL-004: an asymmetric
// relation (source != inverse kind) whose inverse row is absent. Only
// applies to synset-synset and sense-sense domains, since sense-synset
// relations never carry an automatic inverse.
func checkMissingInverseRelation(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	var out []domain.Finding
	for _, spec := range relationTables {
		if spec.domain == domain.DomainSenseSynset {
			continue
		}
		var rows []struct {
			ID       int64  `db:"id"`
			SourceID int64  `db:"source_id"`
			Kind     string `db:"kind"`
			TargetID int64  `db:"target_id"`
		}
		if err := q.SelectContext(ctx, &rows, `SELECT id, source_id, kind, target_id FROM `+spec.table); err != nil {
			return nil, domain.NewStoreError("scan relations", err)
		}
		for _, r := range rows {
			inverse, ok := catalog.InverseOf(spec.domain, r.Kind)
			if !ok || inverse == r.Kind {
				continue
			}
			var n int
			if err := q.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+spec.table+` WHERE source_id = ? AND kind = ? AND target_id = ?`,
				r.TargetID, inverse, r.SourceID); err != nil {
				return nil, domain.NewStoreError("check inverse relation", err)
			}
			if n > 0 {
				continue
			}
			out = append(out, domain.Finding{
				RuleID: "VAL-REL-004", Severity: domain.SeverityWarning,
				Kind: domain.KindRelation, EntityID: relationRowLabel(spec.domain, r.ID),
				Message: "asymmetric relation is missing its inverse",
				Details: map[string]any{"kind": r.Kind, "expected_inverse": inverse},
			})
		}
	}
	return out, nil
}

// checkSelfLoopRelation implements VAL-REL-005. AddRelation already
// refuses a self-loop; this guards imported data.
func checkSelfLoopRelation(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	var out []domain.Finding
	for _, spec := range relationTables {
		var rowIDs []int64
		if err := q.SelectContext(ctx, &rowIDs, `SELECT id FROM `+spec.table+` WHERE source_id = target_id`); err != nil {
			return nil, domain.NewStoreError("scan self-loop relations", err)
		}
		for _, id := range rowIDs {
			out = append(out, domain.Finding{
				RuleID: "VAL-REL-005", Severity: domain.SeverityError,
				Kind: domain.KindRelation, EntityID: relationRowLabel(spec.domain, id),
				Message: "relation is a self-loop",
			})
		}
	}
	return out, nil
}

// checkTaxonomicPOSMismatch implements VAL-TAX-001: a hypernym-family
// relation between two synsets of different parts of speech.
func checkTaxonomicPOSMismatch(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("r.id", "r.kind", "src.synset_id AS src_id", "tgt.synset_id AS tgt_id").
		From("synset_relations r").
		Join("synsets src ON src.id = r.source_id").
		Join("synsets tgt ON tgt.id = r.target_id").
		Where("src.pos != tgt.pos")
	b, err := lexiconFilter(ctx, q, b, "src.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-TAX-001 query", err)
	}
	var rows []struct {
		ID    int64  `db:"id"`
		Kind  string `db:"kind"`
		SrcID string `db:"src_id"`
		TgtID string `db:"tgt_id"`
	}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("scan taxonomic relations", err)
	}
	out := make([]domain.Finding, 0, len(rows))
	for _, r := range rows {
		if !catalog.TaxonomicKinds[r.Kind] {
			continue
		}
		out = append(out, domain.Finding{
			RuleID: "VAL-TAX-001", Severity: domain.SeverityWarning,
			Kind: domain.KindRelation, EntityID: relationRowLabel(domain.DomainSynsetSynset, r.ID),
			Message: "hypernym-family relation between synsets of different parts of speech",
			Details: map[string]any{"kind": r.Kind, "source": r.SrcID, "target": r.TgtID},
		})
	}
	return out, nil
}
