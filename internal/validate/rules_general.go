package validate

import (
	"context"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// checkDuplicateBusinessIDs implements VAL-GEN-001: entries, synsets, and
// senses each carry their own unique business-id namespace at the storage
// layer (syntactic behaviour ids carry no uniqueness constraint there),
// but nothing stops the *same* id string from being reused across those
// namespaces within one lexicon. This rule flags any id string that names
// more than one entity.
func checkDuplicateBusinessIDs(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error) {
	lexRow, ok, err := resolveScopedLexicon(ctx, q, scope)
	if err != nil {
		return nil, err
	}

	union := `
		SELECT entry_id AS biz_id FROM entries ` + lexiconClause(ok, "lexicon_id") + `
		UNION ALL
		SELECT synset_id AS biz_id FROM synsets ` + lexiconClause(ok, "lexicon_id") + `
		UNION ALL
		SELECT sense_id AS biz_id FROM senses s JOIN entries e ON e.id = s.entry_id ` + lexiconClause(ok, "e.lexicon_id") + `
		UNION ALL
		SELECT sb_id AS biz_id FROM syntactic_behaviours WHERE sb_id IS NOT NULL ` + andClause(ok, "lexicon_id")

	args := dupArgs(ok, lexRow, 4)
	query := `SELECT biz_id, COUNT(*) AS n FROM (` + union + `) GROUP BY biz_id HAVING COUNT(*) > 1`

	var rows []struct {
		BizID string `db:"biz_id"`
		N     int    `db:"n"`
	}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("scan duplicate business ids", err)
	}

	out := make([]domain.Finding, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Finding{
			RuleID:   "VAL-GEN-001",
			Severity: domain.SeverityError,
			Kind:     domain.KindLexicon,
			EntityID: r.BizID,
			Message:  "id is reused across more than one entity",
			Details:  map[string]any{"count": r.N},
		})
	}
	return out, nil
}

// resolveScopedLexicon resolves scope's lexicon business id to its row id,
// reporting ok=false when the scope is unrestricted.
func resolveScopedLexicon(ctx context.Context, q store.Querier, scope Scope) (int64, bool, error) {
	if scope.LexiconID == "" {
		return 0, false, nil
	}
	var row int64
	if err := q.GetContext(ctx, &row, `SELECT id FROM lexicons WHERE lex_id = ?`, scope.LexiconID); err != nil {
		return 0, false, domain.NewNotFoundError(domain.KindLexicon, scope.LexiconID)
	}
	return row, true, nil
}

func lexiconClause(scoped bool, col string) string {
	if !scoped {
		return ""
	}
	return "WHERE " + col + " = ?"
}

func andClause(scoped bool, col string) string {
	if !scoped {
		return ""
	}
	return "AND " + col + " = ?"
}

// dupArgs repeats lexRow n times when scoped, matching n placeholders
// across a UNION of n subqueries.
func dupArgs(scoped bool, lexRow int64, n int) []any {
	if !scoped {
		return nil
	}
	args := make([]any, n)
	for i := range args {
		args[i] = lexRow
	}
	return args
}
