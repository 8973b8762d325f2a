package engine

import (
	"context"
	"time"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// CreateLexiconParams describes a new lexicon. Version is part of its
// identity but no other lexicon may share ID regardless of Version, so in
// practice at most one version of a given ID ever exists.
type CreateLexiconParams struct {
	ID       string
	Version  string
	Label    string
	Language string
	Email    string
	License  string
	URL      string
	Citation string
	Logo     string
	Metadata domain.Metadata
}

// CreateLexicon inserts a new lexicon row, failing with a duplicate error
// if one with the same bare id already exists; the unique index on
// lex_id enforces this even when the collision is also a same-version
// collision.
func (e *Editor) CreateLexicon(ctx context.Context, p CreateLexiconParams) (domain.Lexicon, error) {
	var out domain.Lexicon
	err := e.runTx(ctx, func(ctx context.Context) error {
		metaJSON, err := encodeMetadata(p.Metadata)
		if err != nil {
			return domain.NewValidationError("metadata", "not JSON-serializable")
		}
		now := time.Now().UTC()

		q := store.QuerierFromCtx(ctx, e.db.DB())
		_, err = q.ExecContext(ctx, `
			INSERT INTO lexicons (lex_id, version, label, language, email, license, url, citation, logo, metadata, modified, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
			p.ID, p.Version, p.Label, p.Language, p.Email, p.License, p.URL, p.Citation, p.Logo, metaJSON, now.Format(time.RFC3339Nano))
		if err != nil {
			return store.MapError(err, domain.KindLexicon, p.ID)
		}

		out = domain.Lexicon{
			ID: p.ID, Version: p.Version, Label: p.Label, Language: p.Language,
			Email: p.Email, License: p.License, URL: p.URL, Citation: p.Citation,
			Logo: p.Logo, Metadata: p.Metadata, CreatedAt: now,
		}
		snap, _ := encodeJSONValue(out)
		return e.history.RecordCreate(ctx, domain.KindLexicon, p.ID, snap)
	})
	return out, err
}

// UpdateLexiconParams carries partial-update fields; unset means no
// change. The nullable fields (URL, Citation, Logo, Metadata) accept an
// explicit Some("") / Some(empty map) to clear them.
type UpdateLexiconParams struct {
	Label    domain.Opt[string]
	Language domain.Opt[string]
	Email    domain.Opt[string]
	License  domain.Opt[string]
	URL      domain.Opt[string]
	Citation domain.Opt[string]
	Logo     domain.Opt[string]
	Metadata domain.Opt[domain.Metadata]
}

// UpdateLexicon applies a partial update to the lexicon identified by id
// or "id:version", setting modified = true and recording one history row
// per changed field.
func (e *Editor) UpdateLexicon(ctx context.Context, idOrSpecifier string, p UpdateLexiconParams) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		rowID, err := e.db.LexiconRowIDBySpecifier(ctx, idOrSpecifier)
		if err != nil {
			return err
		}
		lex, err := e.getLexiconByRowID(ctx, rowID)
		if err != nil {
			return err
		}

		q := store.QuerierFromCtx(ctx, e.db.DB())
		apply := func(field string, set bool, newVal, oldVal any, column string) error {
			if !set {
				return nil
			}
			if _, err := q.ExecContext(ctx, "UPDATE lexicons SET "+column+" = ? WHERE id = ?", newVal, rowID); err != nil {
				return domain.NewStoreError("update lexicon."+field, err)
			}
			oldJSON, _ := encodeJSONValue(oldVal)
			newJSON, _ := encodeJSONValue(newVal)
			return e.history.RecordFieldUpdate(ctx, domain.KindLexicon, lex.ID, field, oldJSON, newJSON)
		}

		if err := apply("label", p.Label.Set, p.Label.Value, lex.Label, "label"); err != nil {
			return err
		}
		if err := apply("language", p.Language.Set, p.Language.Value, lex.Language, "language"); err != nil {
			return err
		}
		if err := apply("email", p.Email.Set, p.Email.Value, lex.Email, "email"); err != nil {
			return err
		}
		if err := apply("license", p.License.Set, p.License.Value, lex.License, "license"); err != nil {
			return err
		}
		if err := apply("url", p.URL.Set, p.URL.Value, lex.URL, "url"); err != nil {
			return err
		}
		if err := apply("citation", p.Citation.Set, p.Citation.Value, lex.Citation, "citation"); err != nil {
			return err
		}
		if err := apply("logo", p.Logo.Set, p.Logo.Value, lex.Logo, "logo"); err != nil {
			return err
		}
		if p.Metadata.Set {
			metaJSON, err := encodeMetadata(p.Metadata.Value)
			if err != nil {
				return domain.NewValidationError("metadata", "not JSON-serializable")
			}
			if _, err := q.ExecContext(ctx, `UPDATE lexicons SET metadata = ? WHERE id = ?`, metaJSON, rowID); err != nil {
				return domain.NewStoreError("update lexicon.metadata", err)
			}
			oldJSON, _ := encodeJSONValue(lex.Metadata)
			if err := e.history.RecordFieldUpdate(ctx, domain.KindLexicon, lex.ID, "metadata", oldJSON, metaJSON); err != nil {
				return err
			}
		}

		if p.Label.Set || p.Language.Set || p.Email.Set || p.License.Set || p.URL.Set || p.Citation.Set || p.Logo.Set || p.Metadata.Set {
			if _, err := q.ExecContext(ctx, `UPDATE lexicons SET modified = 1 WHERE id = ?`, rowID); err != nil {
				return domain.NewStoreError("update lexicon.modified", err)
			}
		}
		return nil
	})
}

// GetLexicon returns the lexicon identified by id or "id:version".
func (e *Editor) GetLexicon(ctx context.Context, idOrSpecifier string) (domain.Lexicon, error) {
	rowID, err := e.db.LexiconRowIDBySpecifier(ctx, idOrSpecifier)
	if err != nil {
		return domain.Lexicon{}, err
	}
	return e.getLexiconByRowID(ctx, rowID)
}

// ListLexicons returns every lexicon in the store, ordered by id.
func (e *Editor) ListLexicons(ctx context.Context) ([]domain.Lexicon, error) {
	var rows []lexiconRow
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.SelectContext(ctx, &rows, `SELECT * FROM lexicons ORDER BY lex_id`); err != nil {
		return nil, domain.NewStoreError("list lexicons", err)
	}
	out := make([]domain.Lexicon, 0, len(rows))
	for _, r := range rows {
		lex, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, lex)
	}
	return out, nil
}

// DeleteLexicon removes the lexicon and, via foreign-key cascade, every
// entity it owns.
func (e *Editor) DeleteLexicon(ctx context.Context, idOrSpecifier string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		rowID, err := e.db.LexiconRowIDBySpecifier(ctx, idOrSpecifier)
		if err != nil {
			return err
		}
		lex, err := e.getLexiconByRowID(ctx, rowID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())
		if _, err := q.ExecContext(ctx, `DELETE FROM lexicons WHERE id = ?`, rowID); err != nil {
			return domain.NewStoreError("delete lexicon", err)
		}
		return e.history.RecordDelete(ctx, domain.KindLexicon, lex.ID, "")
	})
}

type lexiconRow struct {
	ID        int64  `db:"id"`
	LexID     string `db:"lex_id"`
	Version   string `db:"version"`
	Label     string `db:"label"`
	Language  string `db:"language"`
	Email     string `db:"email"`
	License   string `db:"license"`
	URL       string `db:"url"`
	Citation  string `db:"citation"`
	Logo      string `db:"logo"`
	Metadata  string `db:"metadata"`
	Modified  bool   `db:"modified"`
	CreatedAt string `db:"created_at"`
}

func (r lexiconRow) toDomain() (domain.Lexicon, error) {
	meta, err := decodeMetadata(r.Metadata)
	if err != nil {
		return domain.Lexicon{}, domain.NewStoreError("decode lexicon metadata", err)
	}
	createdAt, _ := time.Parse(time.RFC3339Nano, r.CreatedAt)
	return domain.Lexicon{
		ID: r.LexID, Version: r.Version, Label: r.Label, Language: r.Language,
		Email: r.Email, License: r.License, URL: r.URL, Citation: r.Citation,
		Logo: r.Logo, Metadata: meta, Modified: r.Modified, CreatedAt: createdAt,
	}, nil
}

func (e *Editor) getLexiconByRowID(ctx context.Context, rowID int64) (domain.Lexicon, error) {
	var r lexiconRow
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.GetContext(ctx, &r, `SELECT * FROM lexicons WHERE id = ?`, rowID); err != nil {
		return domain.Lexicon{}, domain.NewStoreError("get lexicon", err)
	}
	return r.toDomain()
}
