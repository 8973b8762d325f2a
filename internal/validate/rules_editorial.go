package validate

import (
	"context"
	"strconv"
	"strings"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// editorialIDTable names one table whose business id must carry its
// owning lexicon's prefix (VAL-EDT-001).
type editorialIDTable struct {
	kind        domain.EntityKind
	table       string
	idCol       string
	lexiconJoin string // empty if the table has a direct lexicon_id column
}

var editorialIDTables = []editorialIDTable{
	{domain.KindSynset, "synsets", "synset_id", ""},
	{domain.KindEntry, "entries", "entry_id", ""},
	{domain.KindSense, "senses sn JOIN entries en ON en.id = sn.entry_id", "sense_id", "en"},
}

// checkEntityIDPrefix implements VAL-EDT-001: an entity id that doesn't
// begin with its owning lexicon's id plus a hyphen. CreateSynset,
// CreateEntry, and AddSense all enforce this for engine-originated ids;
// this rule guards ids brought in unchecked from an external source.
func checkEntityIDPrefix(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	var out []domain.Finding
	for _, spec := range editorialIDTables {
		lexCol := "lexicon_id"
		if spec.lexiconJoin != "" {
			lexCol = spec.lexiconJoin + ".lexicon_id"
		}
		query := `SELECT t.` + spec.idCol + ` AS biz_id, l.lex_id AS lex_id
			FROM ` + spec.table + ` t JOIN lexicons l ON l.id = ` + lexCol
		args := []any{}
		if scope.LexiconID != "" {
			query += ` WHERE l.lex_id = ?`
			args = append(args, scope.LexiconID)
		}

		var rows []struct {
			BizID string `db:"biz_id"`
			LexID string `db:"lex_id"`
		}
		if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, domain.NewStoreError("scan entity ids for prefix check", err)
		}
		for _, r := range rows {
			if strings.HasPrefix(r.BizID, r.LexID+"-") {
				continue
			}
			out = append(out, domain.Finding{
				RuleID: "VAL-EDT-001", Severity: domain.SeverityError,
				Kind: spec.kind, EntityID: r.BizID,
				Message: "entity id does not begin with its owning lexicon's id",
				Details: map[string]any{"lexicon": r.LexID},
			})
		}
	}
	return out, nil
}

// checkLowConfidenceSense implements VAL-EDT-003: a sense whose
// "confidenceScore" metadata key is set below 0.5.
func checkLowConfidenceSense(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	b := qb.Select("sn.sense_id", "sn.metadata").
		From("senses sn").
		Join("entries en ON en.id = sn.entry_id")
	b, err := lexiconFilter(ctx, q, b, "en.lexicon_id", scope)
	if err != nil {
		return nil, err
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, domain.NewStoreError("build VAL-EDT-003 query", err)
	}

	var rows []struct {
		SenseID  string `db:"sense_id"`
		Metadata string `db:"metadata"`
	}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("scan sense metadata", err)
	}

	var out []domain.Finding
	for _, r := range rows {
		score, ok := confidenceScore(r.Metadata)
		if !ok || score >= 0.5 {
			continue
		}
		out = append(out, domain.Finding{
			RuleID: "VAL-EDT-003", Severity: domain.SeverityWarning,
			Kind: domain.KindSense, EntityID: r.SenseID,
			Message: "sense confidence score is below 0.5",
			Details: map[string]any{"confidenceScore": score},
		})
	}
	return out, nil
}

func confidenceScore(metadataJSON string) (float64, bool) {
	meta, err := decodeMetadataForValidate(metadataJSON)
	if err != nil {
		return 0, false
	}
	raw, ok := meta["confidenceScore"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
