package engine

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// CreateSynsetParams describes a new synset. ILI is interpreted
// specially: "in" proposes a placeholder (requires ILIDefinition of at
// least 20 characters); any other non-empty value links to that ILI,
// creating it as presupposed if it doesn't yet exist.
type CreateSynsetParams struct {
	LexiconID     string
	PartOfSpeech  domain.PartOfSpeech
	Definition    string
	ExplicitID    domain.Opt[string]
	ILI           domain.Opt[string]
	ILIDefinition domain.Opt[string]
	Lexicalized   domain.Opt[bool]
	Lexfile       domain.Opt[string]
	Metadata      domain.Metadata
}

// CreateSynset inserts a new synset, its initial definition, and any ILI
// or proposed-ILI binding requested.
func (e *Editor) CreateSynset(ctx context.Context, p CreateSynsetParams) (domain.Synset, error) {
	if !p.PartOfSpeech.IsValid() {
		return domain.Synset{}, domain.NewValidationError("pos", "part of speech not in closed set")
	}

	var out domain.Synset
	err := e.runTx(ctx, func(ctx context.Context) error {
		lexRow, err := e.db.LexiconRowIDByID(ctx, p.LexiconID)
		if err != nil {
			return err
		}

		id := p.ExplicitID.Value
		if !p.ExplicitID.Set || id == "" {
			id, err = nextSynsetID(ctx, e.db, p.LexiconID, string(p.PartOfSpeech))
			if err != nil {
				return domain.NewStoreError("generate synset id", err)
			}
		} else if !hasLexiconPrefix(id, p.LexiconID) {
			return domain.NewValidationError("id", "synset id must begin with the owning lexicon's id")
		}

		if p.ILI.Set && p.ILI.Value == "in" {
			def := p.ILIDefinition.Value
			if utf8.RuneCountInString(def) < 20 {
				return domain.NewValidationError("ili_definition", "proposed ILI definition must be at least 20 characters")
			}
		}

		var lexfileID *int64
		if p.Lexfile.Set && p.Lexfile.Value != "" {
			id, err := e.db.UpsertLexfile(ctx, p.Lexfile.Value)
			if err != nil {
				return err
			}
			lexfileID = &id
		}

		metaJSON, err := encodeMetadata(p.Metadata)
		if err != nil {
			return domain.NewValidationError("metadata", "not JSON-serializable")
		}

		q := store.QuerierFromCtx(ctx, e.db.DB())
		res, err := q.ExecContext(ctx, `
			INSERT INTO synsets (lexicon_id, synset_id, pos, lexfile_id, metadata) VALUES (?, ?, ?, ?, ?)`,
			lexRow, id, string(p.PartOfSpeech), lexfileID, metaJSON)
		if err != nil {
			return store.MapError(err, domain.KindSynset, id)
		}
		synRow, err := res.LastInsertId()
		if err != nil {
			return domain.NewStoreError("create synset", err)
		}

		if strings.TrimSpace(p.Definition) != "" {
			if _, err := q.ExecContext(ctx, `
				INSERT INTO definitions (synset_id, text, language, position) VALUES (?, ?, '', 0)`,
				synRow, p.Definition); err != nil {
				return domain.NewStoreError("create initial definition", err)
			}
		}

		if p.ILI.Set && p.ILI.Value != "" {
			if p.ILI.Value == "in" {
				if _, err := q.ExecContext(ctx, `INSERT INTO proposed_ilis (synset_id, definition, metadata) VALUES (?, ?, '{}')`,
					synRow, p.ILIDefinition.Value); err != nil {
					return domain.NewStoreError("propose ili", err)
				}
			} else {
				iliRow, err := ensureILI(ctx, e, p.ILI.Value)
				if err != nil {
					return err
				}
				if _, err := q.ExecContext(ctx, `UPDATE synsets SET ili_id = ? WHERE id = ?`, iliRow, synRow); err != nil {
					return domain.NewStoreError("link ili", err)
				}
			}
		}

		explicitLexicalized := p.Lexicalized.Set && p.Lexicalized.Value
		if !explicitLexicalized {
			if err := setUnlexicalizedSynset(ctx, e, synRow); err != nil {
				return err
			}
		}

		out = domain.Synset{
			ID: id, LexiconID: p.LexiconID, PartOfSpeech: p.PartOfSpeech,
			ILI: p.ILI.Value, Lexfile: p.Lexfile.Value, Lexicalized: explicitLexicalized,
			Metadata: p.Metadata,
		}
		snap, _ := encodeJSONValue(out)
		return e.history.RecordCreate(ctx, domain.KindSynset, id, snap)
	})
	return out, err
}

// UpdateSynsetParams carries partial-update fields for a synset.
type UpdateSynsetParams struct {
	Lexfile  domain.Opt[string]
	Metadata domain.Opt[domain.Metadata]
}

// UpdateSynset applies a partial update to an existing synset.
func (e *Editor) UpdateSynset(ctx context.Context, synsetID string, p UpdateSynsetParams) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		rowID, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())

		if p.Lexfile.Set {
			var lexfileID *int64
			if p.Lexfile.Value != "" {
				id, err := e.db.UpsertLexfile(ctx, p.Lexfile.Value)
				if err != nil {
					return err
				}
				lexfileID = &id
			}
			if _, err := q.ExecContext(ctx, `UPDATE synsets SET lexfile_id = ? WHERE id = ?`, lexfileID, rowID); err != nil {
				return domain.NewStoreError("update synset.lexfile", err)
			}
			if err := e.history.RecordFieldUpdate(ctx, domain.KindSynset, synsetID, "lexfile", "", jsonQuote(p.Lexfile.Value)); err != nil {
				return err
			}
		}
		if p.Metadata.Set {
			metaJSON, err := encodeMetadata(p.Metadata.Value)
			if err != nil {
				return domain.NewValidationError("metadata", "not JSON-serializable")
			}
			if _, err := q.ExecContext(ctx, `UPDATE synsets SET metadata = ? WHERE id = ?`, metaJSON, rowID); err != nil {
				return domain.NewStoreError("update synset.metadata", err)
			}
			if err := e.history.RecordFieldUpdate(ctx, domain.KindSynset, synsetID, "metadata", "", metaJSON); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSynset removes a synset. It refuses if the synset owns any sense
// unless cascade is true, in which case a history row is recorded for
// each owned sense and the senses are then removed with the synset row
// by foreign-key cascade, as is everything else it owns (definitions,
// examples, relations, ILI bindings).
func (e *Editor) DeleteSynset(ctx context.Context, synsetID string, cascade bool) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		rowID, err := e.db.SynsetRowIDByID(ctx, synsetID)
		if err != nil {
			return err
		}

		var senseIDs []string
		q := store.QuerierFromCtx(ctx, e.db.DB())
		if err := q.SelectContext(ctx, &senseIDs, `SELECT sense_id FROM senses WHERE synset_id = ?`, rowID); err != nil {
			return domain.NewStoreError("list senses", err)
		}
		if len(senseIDs) > 0 && !cascade {
			return domain.NewRelationRefusalError(domain.KindSynset, synsetID, "synset owns senses; pass cascade to delete them")
		}

		for _, sid := range senseIDs {
			if err := e.history.RecordDelete(ctx, domain.KindSense, sid, ""); err != nil {
				return err
			}
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM synsets WHERE id = ?`, rowID); err != nil {
			return domain.NewStoreError("delete synset", err)
		}
		return e.history.RecordDelete(ctx, domain.KindSynset, synsetID, "")
	})
}

// SynsetFilter conjunctively filters FindSynsets.
type SynsetFilter struct {
	LexiconID          string
	PartOfSpeech       domain.PartOfSpeech
	ILI                string
	DefinitionContains string
}

// FindSynsets returns synsets matching every set field of f.
func (e *Editor) FindSynsets(ctx context.Context, f SynsetFilter) ([]domain.Synset, error) {
	query := `
		SELECT DISTINCT s.id, s.synset_id, l.lex_id AS lexicon_id, s.pos, s.metadata,
			COALESCE(i.ili_id, '') AS ili_id
		FROM synsets s
		JOIN lexicons l ON l.id = s.lexicon_id
		LEFT JOIN ilis i ON i.id = s.ili_id
		LEFT JOIN definitions d ON d.synset_id = s.id
		WHERE 1=1`
	var args []any

	if f.LexiconID != "" {
		query += ` AND l.lex_id = ?`
		args = append(args, f.LexiconID)
	}
	if f.PartOfSpeech != "" {
		query += ` AND s.pos = ?`
		args = append(args, string(f.PartOfSpeech))
	}
	if f.ILI != "" {
		query += ` AND i.ili_id = ?`
		args = append(args, f.ILI)
	}
	if f.DefinitionContains != "" {
		query += ` AND d.text LIKE ? ESCAPE '\'`
		args = append(args, "%"+store.EscapeLike(f.DefinitionContains)+"%")
	}
	query += ` ORDER BY s.synset_id`

	var rows []struct {
		RowID     int64  `db:"id"`
		SynsetID  string `db:"synset_id"`
		LexiconID string `db:"lexicon_id"`
		POS       string `db:"pos"`
		Metadata  string `db:"metadata"`
		ILIID     string `db:"ili_id"`
	}
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("find synsets", err)
	}

	out := make([]domain.Synset, 0, len(rows))
	for _, r := range rows {
		meta, err := decodeMetadata(r.Metadata)
		if err != nil {
			return nil, domain.NewStoreError("decode synset metadata", err)
		}
		lexicalized, err := e.isSynsetLexicalized(ctx, r.RowID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Synset{
			ID: r.SynsetID, LexiconID: r.LexiconID, PartOfSpeech: domain.PartOfSpeech(r.POS),
			ILI: r.ILIID, Metadata: meta, Lexicalized: lexicalized,
		})
	}
	return out, nil
}

func (e *Editor) isSynsetLexicalized(ctx context.Context, synsetRowID int64) (bool, error) {
	unlex, err := isUnlexicalizedSynset(ctx, e, synsetRowID)
	if err != nil {
		return false, err
	}
	return !unlex, nil
}
