// Package validate runs a stateless rule battery over a store snapshot,
// producing a list of findings. Nothing here mutates state; each rule is
// a pure read-only scan.
package validate

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// qb is the query builder flavor shared by every rule: question-mark
// placeholders, matching sqlite/sqlx's driver expectations.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Checker runs validation rules against a store.
type Checker struct {
	db *store.Store
}

// New returns a Checker bound to db.
func New(db *store.Store) *Checker {
	return &Checker{db: db}
}

// Scope narrows a validation run to a single lexicon; the zero value
// checks every lexicon.
type Scope struct {
	LexiconID string
}

type ruleFunc func(ctx context.Context, q store.Querier, scope Scope) ([]domain.Finding, error)

var allRules = []ruleFunc{
	checkDuplicateBusinessIDs,
	checkEntryNoSenses,
	checkEntryDuplicateSynsetTarget,
	checkDuplicateLemmaSameSynset,
	checkSenseMissingSynset,
	checkUnlexicalizedSynset,
	checkSharedILI,
	checkProposedILIEmptyDefinition,
	checkProposedAndRealILI,
	checkBlankDefinition,
	checkBlankExample,
	checkDuplicateDefinitionAcrossSynsets,
	checkProposedILITooShort,
	checkRelationTargetMissing,
	checkRelationKindUnrecognized,
	checkRedundantRelation,
	checkMissingInverseRelation,
	checkSelfLoopRelation,
	checkTaxonomicPOSMismatch,
	checkEntityIDPrefix,
	checkSynsetNoDefinitions,
	checkLowConfidenceSense,
}

// Validate runs the full rule battery, optionally scoped to one lexicon.
func (c *Checker) Validate(ctx context.Context, scope Scope) ([]domain.Finding, error) {
	return c.run(ctx, scope, allRules)
}

// ValidateSynset runs only the rules relevant to synset-shaped data,
// still scanning the whole store since most rules are cross-entity (e.g.
// VAL-SYN-002 needs every synset sharing a lexicon to detect a shared ILI).
func (c *Checker) ValidateSynset(ctx context.Context, scope Scope) ([]domain.Finding, error) {
	return c.run(ctx, scope, []ruleFunc{
		checkUnlexicalizedSynset,
		checkSharedILI,
		checkProposedILIEmptyDefinition,
		checkProposedAndRealILI,
		checkBlankDefinition,
		checkBlankExample,
		checkDuplicateDefinitionAcrossSynsets,
		checkProposedILITooShort,
		checkSynsetNoDefinitions,
	})
}

// ValidateEntry runs only the rules relevant to entry-shaped data.
func (c *Checker) ValidateEntry(ctx context.Context, scope Scope) ([]domain.Finding, error) {
	return c.run(ctx, scope, []ruleFunc{
		checkEntryNoSenses,
		checkEntryDuplicateSynsetTarget,
		checkDuplicateLemmaSameSynset,
		checkSenseMissingSynset,
		checkLowConfidenceSense,
	})
}

// ValidateRelations runs only the relation rules.
func (c *Checker) ValidateRelations(ctx context.Context, scope Scope) ([]domain.Finding, error) {
	return c.run(ctx, scope, []ruleFunc{
		checkRelationTargetMissing,
		checkRelationKindUnrecognized,
		checkRedundantRelation,
		checkMissingInverseRelation,
		checkSelfLoopRelation,
		checkTaxonomicPOSMismatch,
	})
}

func (c *Checker) run(ctx context.Context, scope Scope, rules []ruleFunc) ([]domain.Finding, error) {
	q := store.QuerierFromCtx(ctx, c.db.DB())
	var out []domain.Finding
	for _, rule := range rules {
		findings, err := rule(ctx, q, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, findings...)
	}
	return out, nil
}

// lexiconFilter adds a "col = ?" clause to builder b when scope names a
// lexicon, resolving its business id to a row id first.
func lexiconFilter(ctx context.Context, q store.Querier, b sq.SelectBuilder, col string, scope Scope) (sq.SelectBuilder, error) {
	if scope.LexiconID == "" {
		return b, nil
	}
	var lexRow int64
	if err := q.GetContext(ctx, &lexRow, `SELECT id FROM lexicons WHERE lex_id = ?`, scope.LexiconID); err != nil {
		return b, domain.NewNotFoundError(domain.KindLexicon, scope.LexiconID)
	}
	return b.Where(sq.Eq{col: lexRow}), nil
}
