package engine

import (
	"context"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// CreateEntryParams describes a new lexical entry and its lemma (rank-0
// form).
type CreateEntryParams struct {
	LexiconID    string
	Lemma        string
	Script       string
	PartOfSpeech domain.PartOfSpeech
	ExplicitID   domain.Opt[string]
	Metadata     domain.Metadata
}

// CreateEntry inserts a new entry with its lemma as the rank-0 form.
func (e *Editor) CreateEntry(ctx context.Context, p CreateEntryParams) (domain.Entry, error) {
	if !p.PartOfSpeech.IsValid() {
		return domain.Entry{}, domain.NewValidationError("pos", "part of speech not in closed set")
	}

	var out domain.Entry
	err := e.runTx(ctx, func(ctx context.Context) error {
		lexRow, err := e.db.LexiconRowIDByID(ctx, p.LexiconID)
		if err != nil {
			return err
		}

		id := p.ExplicitID.Value
		if !p.ExplicitID.Set || id == "" {
			id, err = nextEntryID(ctx, e.db, p.LexiconID, p.Lemma, string(p.PartOfSpeech))
			if err != nil {
				return domain.NewStoreError("generate entry id", err)
			}
		} else if !hasLexiconPrefix(id, p.LexiconID) {
			return domain.NewValidationError("id", "entry id must begin with the owning lexicon's id")
		}

		metaJSON, err := encodeMetadata(p.Metadata)
		if err != nil {
			return domain.NewValidationError("metadata", "not JSON-serializable")
		}

		q := store.QuerierFromCtx(ctx, e.db.DB())
		res, err := q.ExecContext(ctx, `INSERT INTO entries (lexicon_id, entry_id, pos, metadata) VALUES (?, ?, ?, ?)`,
			lexRow, id, string(p.PartOfSpeech), metaJSON)
		if err != nil {
			return store.MapError(err, domain.KindEntry, id)
		}
		entryRow, err := res.LastInsertId()
		if err != nil {
			return domain.NewStoreError("create entry", err)
		}

		normalized := domain.NormalizeText(p.Lemma)
		if _, err := q.ExecContext(ctx, `
			INSERT INTO forms (entry_id, written_form, normalized_form, script, rank) VALUES (?, ?, ?, ?, 0)`,
			entryRow, p.Lemma, normalized, p.Script); err != nil {
			return store.MapError(err, domain.KindForm, id)
		}

		if _, err := q.ExecContext(ctx, `
			INSERT INTO entry_index (entry_id, lexicon_id, normalized_lemma, pos) VALUES (?, ?, ?, ?)`,
			entryRow, lexRow, normalized, string(p.PartOfSpeech)); err != nil {
			return domain.NewStoreError("create entry index", err)
		}

		lemmaForm := domain.Form{EntryID: id, WrittenForm: p.Lemma, NormalizedForm: normalized, Script: p.Script, Rank: 0}
		out = domain.Entry{ID: id, LexiconID: p.LexiconID, PartOfSpeech: p.PartOfSpeech, Metadata: p.Metadata, Forms: []domain.Form{lemmaForm}}
		snap, _ := encodeJSONValue(out)
		return e.history.RecordCreate(ctx, domain.KindEntry, id, snap)
	})
	return out, err
}

// AddForm attaches a new non-lemma form to an entry, ranked one past the
// current maximum.
func (e *Editor) AddForm(ctx context.Context, entryID, writtenForm, script string) (domain.Form, error) {
	var out domain.Form
	err := e.runTx(ctx, func(ctx context.Context) error {
		entryRow, err := e.db.EntryRowIDByID(ctx, entryID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())

		var maxRank int
		if err := q.GetContext(ctx, &maxRank, `SELECT COALESCE(MAX(rank), -1) FROM forms WHERE entry_id = ?`, entryRow); err != nil {
			return domain.NewStoreError("read max form rank", err)
		}
		rank := maxRank + 1
		normalized := domain.NormalizeText(writtenForm)

		if _, err := q.ExecContext(ctx, `
			INSERT INTO forms (entry_id, written_form, normalized_form, script, rank) VALUES (?, ?, ?, ?, ?)`,
			entryRow, writtenForm, normalized, script, rank); err != nil {
			return store.MapError(err, domain.KindForm, entryID)
		}

		out = domain.Form{EntryID: entryID, WrittenForm: writtenForm, NormalizedForm: normalized, Script: script, Rank: rank}
		snap, _ := encodeJSONValue(out)
		return e.history.RecordCreate(ctx, domain.KindForm, entryID, snap)
	})
	return out, err
}

// AddPronunciation attaches a pronunciation to a form, identified by its
// owning entry's id and the form's written form/script (rank 0 included).
func (e *Editor) AddPronunciation(ctx context.Context, entryID, writtenForm, script string, p domain.Pronunciation) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		formRow, err := formRowID(ctx, e, entryID, writtenForm, script)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())
		phonemic := 0
		if p.Phonemic {
			phonemic = 1
		}
		if _, err := q.ExecContext(ctx, `
			INSERT INTO pronunciations (form_id, value, variety, notation, phonemic, audio) VALUES (?, ?, ?, ?, ?, ?)`,
			formRow, p.Value, p.Variety, p.Notation, phonemic, p.Audio); err != nil {
			return domain.NewStoreError("add pronunciation", err)
		}
		return e.history.RecordCreate(ctx, domain.KindPronunciation, entryID, jsonQuote(p.Value))
	})
}

// AddTag attaches a tag to a form, identified the same way as AddPronunciation.
func (e *Editor) AddTag(ctx context.Context, entryID, writtenForm, script string, t domain.Tag) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		formRow, err := formRowID(ctx, e, entryID, writtenForm, script)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())
		if _, err := q.ExecContext(ctx, `INSERT INTO tags (form_id, value, category) VALUES (?, ?, ?)`,
			formRow, t.Value, t.Category); err != nil {
			return domain.NewStoreError("add tag", err)
		}
		return e.history.RecordCreate(ctx, domain.KindTag, entryID, jsonQuote(t.Value))
	})
}

func formRowID(ctx context.Context, e *Editor, entryID, writtenForm, script string) (int64, error) {
	entryRow, err := e.db.EntryRowIDByID(ctx, entryID)
	if err != nil {
		return 0, err
	}
	q := store.QuerierFromCtx(ctx, e.db.DB())
	var formRow int64
	err = q.GetContext(ctx, &formRow, `SELECT id FROM forms WHERE entry_id = ? AND written_form = ? AND script = ?`,
		entryRow, writtenForm, script)
	if err != nil {
		return 0, domain.NewNotFoundError(domain.KindForm, writtenForm)
	}
	return formRow, nil
}

// RemoveForm removes a non-lemma form by its written form and script.
// Rank 0 (the lemma) can never be removed.
func (e *Editor) RemoveForm(ctx context.Context, entryID, writtenForm, script string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		entryRow, err := e.db.EntryRowIDByID(ctx, entryID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())

		var rank int
		err = q.GetContext(ctx, &rank, `SELECT rank FROM forms WHERE entry_id = ? AND written_form = ? AND script = ?`,
			entryRow, writtenForm, script)
		if err != nil {
			return domain.NewNotFoundError(domain.KindForm, writtenForm)
		}
		if rank == 0 {
			return domain.NewValidationError("rank", "the rank-0 lemma form cannot be removed")
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM forms WHERE entry_id = ? AND written_form = ? AND script = ?`,
			entryRow, writtenForm, script); err != nil {
			return domain.NewStoreError("remove form", err)
		}
		return e.history.RecordDelete(ctx, domain.KindForm, entryID, "")
	})
}

// UpdateLemma edits the text of the rank-0 form (and the entry index row
// built on it). The entry's id does not change.
func (e *Editor) UpdateLemma(ctx context.Context, entryID, newLemma string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		entryRow, err := e.db.EntryRowIDByID(ctx, entryID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())

		var oldLemma string
		if err := q.GetContext(ctx, &oldLemma, `SELECT written_form FROM forms WHERE entry_id = ? AND rank = 0`, entryRow); err != nil {
			return domain.NewStoreError("read lemma", err)
		}

		normalized := domain.NormalizeText(newLemma)
		if _, err := q.ExecContext(ctx, `UPDATE forms SET written_form = ?, normalized_form = ? WHERE entry_id = ? AND rank = 0`,
			newLemma, normalized, entryRow); err != nil {
			return domain.NewStoreError("update lemma", err)
		}
		if _, err := q.ExecContext(ctx, `UPDATE entry_index SET normalized_lemma = ? WHERE entry_id = ?`, normalized, entryRow); err != nil {
			return domain.NewStoreError("update entry index", err)
		}
		return e.history.RecordFieldUpdate(ctx, domain.KindEntry, entryID, "lemma", jsonQuote(oldLemma), jsonQuote(newLemma))
	})
}

// UpdateEntryParams carries partial-update fields for an entry.
type UpdateEntryParams struct {
	Metadata domain.Opt[domain.Metadata]
}

// UpdateEntry applies a partial update to an entry's metadata.
func (e *Editor) UpdateEntry(ctx context.Context, entryID string, p UpdateEntryParams) error {
	if !p.Metadata.Set {
		return nil
	}
	return e.runTx(ctx, func(ctx context.Context) error {
		entryRow, err := e.db.EntryRowIDByID(ctx, entryID)
		if err != nil {
			return err
		}
		metaJSON, err := encodeMetadata(p.Metadata.Value)
		if err != nil {
			return domain.NewValidationError("metadata", "not JSON-serializable")
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())
		if _, err := q.ExecContext(ctx, `UPDATE entries SET metadata = ? WHERE id = ?`, metaJSON, entryRow); err != nil {
			return domain.NewStoreError("update entry.metadata", err)
		}
		return e.history.RecordFieldUpdate(ctx, domain.KindEntry, entryID, "metadata", "", metaJSON)
	})
}

// DeleteEntry removes an entry. It refuses if the entry has any sense
// unless cascade is true. Cascading deletion rechecks each affected
// synset's lexicalization state after the senses are gone.
func (e *Editor) DeleteEntry(ctx context.Context, entryID string, cascade bool) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		entryRow, err := e.db.EntryRowIDByID(ctx, entryID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())

		var senses []struct {
			SenseID   string `db:"sense_id"`
			SynsetRow int64  `db:"synset_id"`
		}
		if err := q.SelectContext(ctx, &senses, `SELECT sense_id, synset_id FROM senses WHERE entry_id = ?`, entryRow); err != nil {
			return domain.NewStoreError("list senses", err)
		}
		if len(senses) > 0 && !cascade {
			return domain.NewRelationRefusalError(domain.KindEntry, entryID, "entry owns senses; pass cascade to delete them")
		}

		for _, s := range senses {
			if err := e.history.RecordDelete(ctx, domain.KindSense, s.SenseID, ""); err != nil {
				return err
			}
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, entryRow); err != nil {
			return domain.NewStoreError("delete entry", err)
		}

		for _, s := range senses {
			if err := recheckSynsetLexicalization(ctx, e, s.SynsetRow); err != nil {
				return err
			}
		}
		return e.history.RecordDelete(ctx, domain.KindEntry, entryID, "")
	})
}

// EntryFilter conjunctively filters FindEntries.
type EntryFilter struct {
	LexiconID    string
	Lemma        string
	PartOfSpeech domain.PartOfSpeech
}

// FindEntries returns entries matching every set field of f.
func (e *Editor) FindEntries(ctx context.Context, f EntryFilter) ([]domain.Entry, error) {
	query := `
		SELECT en.id, en.entry_id, l.lex_id AS lexicon_id, en.pos, en.metadata
		FROM entries en
		JOIN lexicons l ON l.id = en.lexicon_id
		JOIN entry_index ei ON ei.entry_id = en.id
		WHERE 1=1`
	var args []any

	if f.LexiconID != "" {
		query += ` AND l.lex_id = ?`
		args = append(args, f.LexiconID)
	}
	if f.Lemma != "" {
		query += ` AND ei.normalized_lemma = ?`
		args = append(args, domain.NormalizeText(f.Lemma))
	}
	if f.PartOfSpeech != "" {
		query += ` AND en.pos = ?`
		args = append(args, string(f.PartOfSpeech))
	}
	query += ` ORDER BY en.entry_id`

	var rows []struct {
		RowID     int64  `db:"id"`
		EntryID   string `db:"entry_id"`
		LexiconID string `db:"lexicon_id"`
		POS       string `db:"pos"`
		Metadata  string `db:"metadata"`
	}
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStoreError("find entries", err)
	}

	out := make([]domain.Entry, 0, len(rows))
	for _, r := range rows {
		meta, err := decodeMetadata(r.Metadata)
		if err != nil {
			return nil, domain.NewStoreError("decode entry metadata", err)
		}
		forms, err := e.entryForms(ctx, r.RowID, r.EntryID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Entry{ID: r.EntryID, LexiconID: r.LexiconID, PartOfSpeech: domain.PartOfSpeech(r.POS), Metadata: meta, Forms: forms})
	}
	return out, nil
}

func (e *Editor) entryForms(ctx context.Context, entryRowID int64, entryID string) ([]domain.Form, error) {
	var rows []struct {
		RowID          int64  `db:"id"`
		WrittenForm    string `db:"written_form"`
		NormalizedForm string `db:"normalized_form"`
		Script         string `db:"script"`
		Rank           int    `db:"rank"`
	}
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.SelectContext(ctx, &rows, `SELECT id, written_form, normalized_form, script, rank FROM forms WHERE entry_id = ? ORDER BY rank`, entryRowID); err != nil {
		return nil, domain.NewStoreError("list forms", err)
	}
	out := make([]domain.Form, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Form{EntryID: entryID, WrittenForm: r.WrittenForm, NormalizedForm: r.NormalizedForm, Script: r.Script, Rank: r.Rank})
	}
	if len(rows) == 0 {
		return out, nil
	}

	formByRow := make(map[int64]*domain.Form, len(rows))
	for i, r := range rows {
		formByRow[r.RowID] = &out[i]
	}

	var prons []struct {
		FormID   int64  `db:"form_id"`
		Value    string `db:"value"`
		Variety  string `db:"variety"`
		Notation string `db:"notation"`
		Phonemic bool   `db:"phonemic"`
		Audio    string `db:"audio"`
	}
	if err := q.SelectContext(ctx, &prons, `
		SELECT form_id, value, variety, notation, phonemic, audio FROM pronunciations
		WHERE form_id IN (SELECT id FROM forms WHERE entry_id = ?) ORDER BY form_id, id`, entryRowID); err != nil {
		return nil, domain.NewStoreError("list pronunciations", err)
	}
	for _, p := range prons {
		if f, ok := formByRow[p.FormID]; ok {
			f.Pronunciations = append(f.Pronunciations, domain.Pronunciation{
				Value: p.Value, Variety: p.Variety, Notation: p.Notation, Phonemic: p.Phonemic, Audio: p.Audio,
			})
		}
	}

	var tags []struct {
		FormID   int64  `db:"form_id"`
		Value    string `db:"value"`
		Category string `db:"category"`
	}
	if err := q.SelectContext(ctx, &tags, `
		SELECT form_id, value, category FROM tags
		WHERE form_id IN (SELECT id FROM forms WHERE entry_id = ?) ORDER BY form_id, id`, entryRowID); err != nil {
		return nil, domain.NewStoreError("list tags", err)
	}
	for _, t := range tags {
		if f, ok := formByRow[t.FormID]; ok {
			f.Tags = append(f.Tags, domain.Tag{Value: t.Value, Category: t.Category})
		}
	}
	return out, nil
}
