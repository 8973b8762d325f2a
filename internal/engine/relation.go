package engine

import (
	"context"

	"github.com/wnedit/wnedit/internal/catalog"
	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

func relationTable(d domain.RelationDomain) string { return string(d) }

// resolveRelationEndpoint returns the row id for a source or target
// business key in the given domain, choosing the synsets or senses table
// as appropriate.
func (e *Editor) resolveRelationEndpoint(ctx context.Context, d domain.RelationDomain, id string, isSource bool) (int64, error) {
	switch d {
	case domain.DomainSynsetSynset:
		return e.db.SynsetRowIDByID(ctx, id)
	case domain.DomainSenseSense:
		return e.db.SenseRowIDByID(ctx, id)
	case domain.DomainSenseSynset:
		if isSource {
			return e.db.SenseRowIDByID(ctx, id)
		}
		return e.db.SynsetRowIDByID(ctx, id)
	}
	return 0, domain.NewValidationError("domain", "unrecognized relation domain")
}

// AddRelationParams describes a new directed relation triple.
type AddRelationParams struct {
	Domain      domain.RelationDomain
	Source      string
	Kind        string
	Target      string
	AutoInverse bool
	Metadata    domain.Metadata
}

// AddRelation inserts a directed relation, validating the kind against
// the catalog for its domain, rejecting self-loops, and — when
// AutoInverse is set — inserting the catalog-defined inverse row; the
// zero value of AutoInverse inserts no inverse row. Duplicate triples are
// silently ignored in both directions.
func (e *Editor) AddRelation(ctx context.Context, p AddRelationParams) error {
	if !catalog.IsValidForDomain(p.Domain, p.Kind) {
		return domain.NewValidationError("kind", "relation kind not recognized for this domain")
	}
	if p.Source == p.Target {
		return domain.NewValidationError("target", "relation source and target must differ")
	}

	return e.runTx(ctx, func(ctx context.Context) error {
		srcRow, err := e.resolveRelationEndpoint(ctx, p.Domain, p.Source, true)
		if err != nil {
			return err
		}
		tgtRow, err := e.resolveRelationEndpoint(ctx, p.Domain, p.Target, false)
		if err != nil {
			return err
		}

		metaJSON, err := encodeMetadata(p.Metadata)
		if err != nil {
			return domain.NewValidationError("metadata", "not JSON-serializable")
		}

		if err := insertRelationRow(ctx, e, p.Domain, srcRow, p.Kind, tgtRow, metaJSON); err != nil {
			return err
		}
		if err := e.history.RecordCreate(ctx, domain.KindRelation, p.Source+"/"+p.Kind+"/"+p.Target, ""); err != nil {
			return err
		}

		if !p.AutoInverse || p.Domain == domain.DomainSenseSynset {
			return nil
		}
		inverse, ok := catalog.InverseOf(p.Domain, p.Kind)
		if !ok {
			return nil
		}
		if err := insertRelationRow(ctx, e, p.Domain, tgtRow, inverse, srcRow, "{}"); err != nil {
			return err
		}
		return e.history.RecordCreate(ctx, domain.KindRelation, p.Target+"/"+inverse+"/"+p.Source, "")
	})
}

func insertRelationRow(ctx context.Context, e *Editor, d domain.RelationDomain, srcRow int64, kind string, tgtRow int64, metaJSON string) error {
	q := store.QuerierFromCtx(ctx, e.db.DB())
	_, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO `+relationTable(d)+` (source_id, kind, target_id, metadata) VALUES (?, ?, ?, ?)`,
		srcRow, kind, tgtRow, metaJSON)
	if err != nil {
		return domain.NewStoreError("insert relation", err)
	}
	return nil
}

// RemoveRelationParams mirrors AddRelationParams for removal.
type RemoveRelationParams struct {
	Domain      domain.RelationDomain
	Source      string
	Kind        string
	Target      string
	AutoInverse bool
}

// RemoveRelation deletes a relation triple, and — when AutoInverse is
// set — its catalog-defined inverse; the zero value of AutoInverse leaves
// the inverse row in place. No-op if the triple doesn't exist.
func (e *Editor) RemoveRelation(ctx context.Context, p RemoveRelationParams) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		srcRow, err := e.resolveRelationEndpoint(ctx, p.Domain, p.Source, true)
		if err != nil {
			return err
		}
		tgtRow, err := e.resolveRelationEndpoint(ctx, p.Domain, p.Target, false)
		if err != nil {
			return err
		}

		q := store.QuerierFromCtx(ctx, e.db.DB())
		if _, err := q.ExecContext(ctx, `DELETE FROM `+relationTable(p.Domain)+` WHERE source_id = ? AND kind = ? AND target_id = ?`,
			srcRow, p.Kind, tgtRow); err != nil {
			return domain.NewStoreError("remove relation", err)
		}
		if err := e.history.RecordDelete(ctx, domain.KindRelation, p.Source+"/"+p.Kind+"/"+p.Target, ""); err != nil {
			return err
		}

		if !p.AutoInverse || p.Domain == domain.DomainSenseSynset {
			return nil
		}
		inverse, ok := catalog.InverseOf(p.Domain, p.Kind)
		if !ok {
			return nil
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM `+relationTable(p.Domain)+` WHERE source_id = ? AND kind = ? AND target_id = ?`,
			tgtRow, inverse, srcRow); err != nil {
			return domain.NewStoreError("remove inverse relation", err)
		}
		return e.history.RecordDelete(ctx, domain.KindRelation, p.Target+"/"+inverse+"/"+p.Source, "")
	})
}

// ListOutgoingRelations returns relations whose source is sourceID,
// optionally filtered by kind.
func (e *Editor) ListOutgoingRelations(ctx context.Context, d domain.RelationDomain, sourceID, kind string) ([]domain.Relation, error) {
	srcRow, err := e.resolveRelationEndpoint(ctx, d, sourceID, true)
	if err != nil {
		return nil, err
	}

	query := `SELECT kind, target_id, metadata FROM ` + relationTable(d) + ` WHERE source_id = ?`
	args := []any{srcRow}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}

	var rows []struct {
		Kind     string `db:"kind"`
		TargetID int64  `db:"target_id"`
		Metadata string `db:"metadata"`
	}
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("list relations", err)
	}

	out := make([]domain.Relation, 0, len(rows))
	for _, r := range rows {
		targetID, err := e.relationTargetBusinessID(ctx, d, r.TargetID)
		if err != nil {
			return nil, err
		}
		meta, err := decodeMetadata(r.Metadata)
		if err != nil {
			return nil, domain.NewStoreError("decode relation metadata", err)
		}
		out = append(out, domain.Relation{Domain: d, Source: sourceID, Kind: r.Kind, Target: targetID, Metadata: meta})
	}
	return out, nil
}

func (e *Editor) relationTargetBusinessID(ctx context.Context, d domain.RelationDomain, targetRowID int64) (string, error) {
	table := "synsets"
	col := "synset_id"
	if d == domain.DomainSenseSense {
		table = "senses"
		col = "sense_id"
	}
	var id string
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.GetContext(ctx, &id, `SELECT `+col+` FROM `+table+` WHERE id = ?`, targetRowID); err != nil {
		return "", domain.NewStoreError("resolve relation target", err)
	}
	return id, nil
}
