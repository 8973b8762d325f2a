package lmf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/engine"
	"github.com/wnedit/wnedit/internal/store"
)

// ExportOptions controls how a lexicon is rendered to the shape and,
// from there, to XML.
type ExportOptions struct {
	// LMFVersion is the target schema version attribute. Lexfile and
	// count data require 1.1 or later; exporting them against an older
	// version is still attempted but reported in Warnings.
	LMFVersion string
}

// ExportReport accompanies an export with data the caller may want to
// surface: version-driven data-loss warnings. A failed post-export
// structural re-check is returned as an error, not recorded here.
type ExportReport struct {
	Warnings []string
}

// Exporter reads a lexicon and its full entity graph from the store and
// renders it to the intermediate shape, then to WN-LMF XML. Every read
// is pre-fetched in one query per child kind rather than per-parent, so
// exporting a lexicon of n synsets costs a constant number of round
// trips, not O(n).
type Exporter struct {
	editor *engine.Editor
}

// NewExporter builds an Exporter bound to an editor.
func NewExporter(editor *engine.Editor) *Exporter {
	return &Exporter{editor: editor}
}

// ExportLexicon renders one lexicon to the intermediate shape.
func (ex *Exporter) ExportLexicon(ctx context.Context, lexiconID string, opts ExportOptions) (Lexicon, *ExportReport, error) {
	report := &ExportReport{}

	lex, err := ex.editor.GetLexicon(ctx, lexiconID)
	if err != nil {
		return Lexicon{}, nil, domain.NewExportError("load lexicon", err)
	}

	db := ex.editor.Store()
	q := store.QuerierFromCtx(ctx, db.DB())

	var lexRow int64
	if err := q.GetContext(ctx, &lexRow, `SELECT id FROM lexicons WHERE lex_id = ?`, lexiconID); err != nil {
		return Lexicon{}, nil, domain.NewExportError("resolve lexicon row", err)
	}

	out := Lexicon{
		ID: lex.ID, Version: lex.Version, Label: lex.Label, Language: lex.Language,
		Email: lex.Email, License: lex.License, URL: lex.URL, Citation: lex.Citation,
		Logo: lex.Logo, Metadata: lex.Metadata,
	}

	if err := ex.loadDependenciesAndExtensions(ctx, q, lexRow, &out); err != nil {
		return Lexicon{}, nil, err
	}

	synsetRows, synsetIDByRow, err := ex.loadSynsets(ctx, q, lexRow, &out)
	if err != nil {
		return Lexicon{}, nil, err
	}
	if err := ex.loadSynsetChildren(ctx, q, synsetRows, synsetIDByRow, &out); err != nil {
		return Lexicon{}, nil, err
	}

	senseIDByRow, err := ex.loadEntries(ctx, q, lexRow, synsetIDByRow, &out)
	if err != nil {
		return Lexicon{}, nil, err
	}
	if err := ex.loadSenseChildren(ctx, q, senseIDByRow, synsetIDByRow, &out); err != nil {
		return Lexicon{}, nil, err
	}

	if err := ex.loadFrames(ctx, q, lexRow, senseIDByRow, &out); err != nil {
		return Lexicon{}, nil, err
	}

	if opts.LMFVersion < "1.1" {
		if len(out.Frames) > 0 || hasCounts(out) || hasLexfile(out) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("target LMF version %q predates 1.1: lexfile, count, and syntactic-behaviour data will not round-trip", opts.LMFVersion))
		}
	}

	return out, report, nil
}

func hasCounts(lex Lexicon) bool {
	for _, entry := range lex.Entries {
		for _, sense := range entry.Senses {
			if len(sense.Counts) > 0 {
				return true
			}
		}
	}
	return false
}

func hasLexfile(lex Lexicon) bool {
	for _, syn := range lex.Synsets {
		if syn.Lexfile != "" {
			return true
		}
	}
	return false
}

func (ex *Exporter) loadDependenciesAndExtensions(ctx context.Context, q store.Querier, lexRow int64, out *Lexicon) error {
	var deps []struct {
		DepID      string `db:"dep_id"`
		DepVersion string `db:"dep_version"`
		DepURL     string `db:"dep_url"`
	}
	if err := q.SelectContext(ctx, &deps, `SELECT dep_id, dep_version, dep_url FROM lexicon_dependencies WHERE lexicon_id = ?`, lexRow); err != nil {
		return domain.NewExportError("load dependencies", err)
	}
	for _, d := range deps {
		out.Requires = append(out.Requires, LexiconDependency{ID: d.DepID, Version: d.DepVersion, URL: d.DepURL})
	}

	var exts []struct {
		ExtID      string `db:"ext_id"`
		ExtVersion string `db:"ext_version"`
	}
	if err := q.SelectContext(ctx, &exts, `SELECT ext_id, ext_version FROM lexicon_extensions WHERE lexicon_id = ?`, lexRow); err != nil {
		return domain.NewExportError("load extensions", err)
	}
	for _, e := range exts {
		out.Extensions = append(out.Extensions, LexiconExtension{ID: e.ExtID, Version: e.ExtVersion})
	}
	return nil
}

func (ex *Exporter) loadSynsets(ctx context.Context, q store.Querier, lexRow int64, out *Lexicon) ([]int64, map[int64]string, error) {
	var rows []struct {
		RowID    int64   `db:"id"`
		SynsetID string  `db:"synset_id"`
		POS      string  `db:"pos"`
		Metadata string  `db:"metadata"`
		ILIID    *string `db:"ili_id"`
		Lexfile  *string `db:"lexfile"`
		Unlex    *int64  `db:"unlex"`
	}
	if err := q.SelectContext(ctx, &rows, `
		SELECT s.id AS id, s.synset_id AS synset_id, s.pos AS pos, s.metadata AS metadata,
		       i.ili_id AS ili_id, lf.name AS lexfile,
		       u.synset_id AS unlex
		FROM synsets s
		LEFT JOIN ilis i ON i.id = s.ili_id
		LEFT JOIN lexfiles lf ON lf.id = s.lexfile_id
		LEFT JOIN unlexicalized_synsets u ON u.synset_id = s.id
		WHERE s.lexicon_id = ? ORDER BY s.synset_id`, lexRow); err != nil {
		return nil, nil, domain.NewExportError("load synsets", err)
	}

	synsetIDByRow := make(map[int64]string, len(rows))
	synsetRows := make([]int64, 0, len(rows))
	for _, r := range rows {
		meta, err := decodeJSONMeta(r.Metadata)
		if err != nil {
			return nil, nil, domain.NewExportError("decode synset metadata", err)
		}
		syn := Synset{
			ID: r.SynsetID, PartOfSpeech: r.POS, Metadata: meta,
			Lexicalized: r.Unlex == nil,
		}
		if r.ILIID != nil {
			syn.ILI = *r.ILIID
		}
		if r.Lexfile != nil {
			syn.Lexfile = *r.Lexfile
		}
		out.Synsets = append(out.Synsets, syn)
		synsetIDByRow[r.RowID] = r.SynsetID
		synsetRows = append(synsetRows, r.RowID)
	}
	return synsetRows, synsetIDByRow, nil
}

func (ex *Exporter) loadSynsetChildren(ctx context.Context, q store.Querier, synsetRows []int64, synsetIDByRow map[int64]string, out *Lexicon) error {
	if len(synsetRows) == 0 {
		return nil
	}
	synsetByID := make(map[string]*Synset, len(out.Synsets))
	for i := range out.Synsets {
		synsetByID[out.Synsets[i].ID] = &out.Synsets[i]
	}

	query, args, err := expandIn(`
		SELECT d.synset_id AS synset_id, d.text AS text, d.language AS language, se.sense_id AS source_sense
		FROM definitions d LEFT JOIN senses se ON se.id = d.source_sense_id
		WHERE d.synset_id IN (?) ORDER BY d.synset_id, d.position`, synsetRows)
	if err != nil {
		return domain.NewExportError("build definitions query", err)
	}
	var defs []struct {
		SynsetID    int64   `db:"synset_id"`
		Text        string  `db:"text"`
		Language    string  `db:"language"`
		SourceSense *string `db:"source_sense"`
	}
	if err := q.SelectContext(ctx, &defs, query, args...); err != nil {
		return domain.NewExportError("load definitions", err)
	}
	for _, d := range defs {
		if syn, ok := synsetByID[synsetIDByRow[d.SynsetID]]; ok {
			def := Definition{Text: d.Text, Language: d.Language}
			if d.SourceSense != nil {
				def.SourceSense = *d.SourceSense
			}
			syn.Definitions = append(syn.Definitions, def)
		}
	}

	query, args, err = expandIn(`SELECT synset_id, definition FROM proposed_ilis WHERE synset_id IN (?)`, synsetRows)
	if err != nil {
		return domain.NewExportError("build proposed ili query", err)
	}
	var props []struct {
		SynsetID   int64  `db:"synset_id"`
		Definition string `db:"definition"`
	}
	if err := q.SelectContext(ctx, &props, query, args...); err != nil {
		return domain.NewExportError("load proposed ilis", err)
	}
	for _, p := range props {
		if syn, ok := synsetByID[synsetIDByRow[p.SynsetID]]; ok {
			syn.ILI = "in"
			syn.ProposedILI = &ProposedILI{Definition: p.Definition}
		}
	}

	query, args, err = expandIn(`SELECT synset_id, text, language FROM synset_examples WHERE synset_id IN (?) ORDER BY synset_id, position`, synsetRows)
	if err != nil {
		return domain.NewExportError("build synset examples query", err)
	}
	var exs []struct {
		SynsetID int64  `db:"synset_id"`
		Text     string `db:"text"`
		Language string `db:"language"`
	}
	if err := q.SelectContext(ctx, &exs, query, args...); err != nil {
		return domain.NewExportError("load synset examples", err)
	}
	for _, e := range exs {
		if syn, ok := synsetByID[synsetIDByRow[e.SynsetID]]; ok {
			syn.Examples = append(syn.Examples, Example{Text: e.Text, Language: e.Language})
		}
	}

	query, args, err = expandIn(`SELECT source_id, kind, target_id, metadata FROM synset_relations WHERE source_id IN (?)`, synsetRows)
	if err != nil {
		return domain.NewExportError("build synset relations query", err)
	}
	var rels []struct {
		SourceID int64  `db:"source_id"`
		Kind     string `db:"kind"`
		TargetID int64  `db:"target_id"`
		Metadata string `db:"metadata"`
	}
	if err := q.SelectContext(ctx, &rels, query, args...); err != nil {
		return domain.NewExportError("load synset relations", err)
	}
	for _, r := range rels {
		meta, err := decodeJSONMeta(r.Metadata)
		if err != nil {
			return domain.NewExportError("decode relation metadata", err)
		}
		if syn, ok := synsetByID[synsetIDByRow[r.SourceID]]; ok {
			syn.Relations = append(syn.Relations, Relation{Kind: r.Kind, Target: synsetIDByRow[r.TargetID], Metadata: meta})
		}
	}
	return nil
}

func (ex *Exporter) loadEntries(ctx context.Context, q store.Querier, lexRow int64, synsetIDByRow map[int64]string, out *Lexicon) (map[int64]string, error) {
	var entryRows []struct {
		RowID    int64  `db:"id"`
		EntryID  string `db:"entry_id"`
		POS      string `db:"pos"`
		Metadata string `db:"metadata"`
	}
	if err := q.SelectContext(ctx, &entryRows, `SELECT id, entry_id, pos, metadata FROM entries WHERE lexicon_id = ? ORDER BY entry_id`, lexRow); err != nil {
		return nil, domain.NewExportError("load entries", err)
	}

	entryByID := make(map[string]*Entry, len(entryRows))
	entryRowIDs := make([]int64, 0, len(entryRows))
	entryIDByRow := make(map[int64]string, len(entryRows))
	for _, r := range entryRows {
		meta, err := decodeJSONMeta(r.Metadata)
		if err != nil {
			return nil, domain.NewExportError("decode entry metadata", err)
		}
		out.Entries = append(out.Entries, Entry{ID: r.EntryID, PartOfSpeech: r.POS, Metadata: meta})
		entryRowIDs = append(entryRowIDs, r.RowID)
		entryIDByRow[r.RowID] = r.EntryID
	}
	for i := range out.Entries {
		entryByID[out.Entries[i].ID] = &out.Entries[i]
	}

	if len(entryRowIDs) > 0 {
		query, args, err := expandIn(`
			SELECT f.id AS id, f.entry_id AS entry_id, f.written_form AS written_form, f.script AS script, f.rank AS rank
			FROM forms f WHERE f.entry_id IN (?) ORDER BY f.entry_id, f.rank`, entryRowIDs)
		if err != nil {
			return nil, domain.NewExportError("build forms query", err)
		}
		var forms []struct {
			RowID       int64  `db:"id"`
			EntryID     int64  `db:"entry_id"`
			WrittenForm string `db:"written_form"`
			Script      string `db:"script"`
			Rank        int    `db:"rank"`
		}
		if err := q.SelectContext(ctx, &forms, query, args...); err != nil {
			return nil, domain.NewExportError("load forms", err)
		}
		// Two passes: the first grows each entry's Forms slice to its final
		// length, the second takes element pointers once no further append
		// can reallocate the backing array out from under them.
		for _, f := range forms {
			if entry, ok := entryByID[entryIDByRow[f.EntryID]]; ok {
				entry.Forms = append(entry.Forms, Form{WrittenForm: f.WrittenForm, Script: f.Script})
			}
		}
		formRowIDs := make([]int64, 0, len(forms))
		formPtrByRow := make(map[int64]*Form, len(forms))
		seen := make(map[int64]int, len(entryRowIDs))
		for _, f := range forms {
			entry, ok := entryByID[entryIDByRow[f.EntryID]]
			if !ok {
				continue
			}
			idx := seen[f.EntryID]
			seen[f.EntryID]++
			formPtrByRow[f.RowID] = &entry.Forms[idx]
			formRowIDs = append(formRowIDs, f.RowID)
		}
		if err := ex.loadFormChildren(ctx, q, formRowIDs, formPtrByRow); err != nil {
			return nil, err
		}
	}

	var senseRows []struct {
		RowID       int64   `db:"id"`
		SenseID     string  `db:"sense_id"`
		EntryID     int64   `db:"entry_id"`
		SynsetID    int64   `db:"synset_id"`
		Metadata    string  `db:"metadata"`
		AdjPosition *string `db:"adjposition"`
	}
	if err := q.SelectContext(ctx, &senseRows, `
		SELECT se.id AS id, se.sense_id AS sense_id, se.entry_id AS entry_id, se.synset_id AS synset_id,
		       se.metadata AS metadata, ap.value AS adjposition
		FROM senses se
		JOIN entries en ON en.id = se.entry_id
		LEFT JOIN adjpositions ap ON ap.id = se.adjposition_id
		WHERE en.lexicon_id = ? ORDER BY se.entry_id, se.entry_rank`, lexRow); err != nil {
		return nil, domain.NewExportError("load senses", err)
	}

	senseIDByRow := make(map[int64]string, len(senseRows))
	for _, r := range senseRows {
		meta, err := decodeJSONMeta(r.Metadata)
		if err != nil {
			return nil, domain.NewExportError("decode sense metadata", err)
		}
		sense := Sense{ID: r.SenseID, SynsetID: synsetIDByRow[r.SynsetID], Metadata: meta}
		if r.AdjPosition != nil {
			sense.AdjPosition = *r.AdjPosition
		}
		if entry, ok := entryByID[entryIDByRow[r.EntryID]]; ok {
			entry.Senses = append(entry.Senses, sense)
		}
		senseIDByRow[r.RowID] = r.SenseID
	}
	return senseIDByRow, nil
}

func (ex *Exporter) loadFormChildren(ctx context.Context, q store.Querier, formRows []int64, formPtrByRow map[int64]*Form) error {
	if len(formRows) == 0 {
		return nil
	}

	query, args, err := expandIn(`
		SELECT form_id, value, variety, notation, phonemic, audio FROM pronunciations
		WHERE form_id IN (?) ORDER BY form_id, id`, formRows)
	if err != nil {
		return domain.NewExportError("build pronunciations query", err)
	}
	var prons []struct {
		FormID   int64  `db:"form_id"`
		Value    string `db:"value"`
		Variety  string `db:"variety"`
		Notation string `db:"notation"`
		Phonemic bool   `db:"phonemic"`
		Audio    string `db:"audio"`
	}
	if err := q.SelectContext(ctx, &prons, query, args...); err != nil {
		return domain.NewExportError("load pronunciations", err)
	}
	for _, p := range prons {
		if f, ok := formPtrByRow[p.FormID]; ok {
			f.Pronunciations = append(f.Pronunciations, Pronunciation{
				Value: p.Value, Variety: p.Variety, Notation: p.Notation, Phonemic: p.Phonemic, Audio: p.Audio,
			})
		}
	}

	query, args, err = expandIn(`SELECT form_id, value, category FROM tags WHERE form_id IN (?) ORDER BY form_id, id`, formRows)
	if err != nil {
		return domain.NewExportError("build tags query", err)
	}
	var tags []struct {
		FormID   int64  `db:"form_id"`
		Value    string `db:"value"`
		Category string `db:"category"`
	}
	if err := q.SelectContext(ctx, &tags, query, args...); err != nil {
		return domain.NewExportError("load tags", err)
	}
	for _, t := range tags {
		if f, ok := formPtrByRow[t.FormID]; ok {
			f.Tags = append(f.Tags, Tag{Value: t.Value, Category: t.Category})
		}
	}
	return nil
}

func (ex *Exporter) loadSenseChildren(ctx context.Context, q store.Querier, senseIDByRow map[int64]string, synsetIDByRow map[int64]string, out *Lexicon) error {
	if len(senseIDByRow) == 0 {
		return nil
	}
	senseRows := make([]int64, 0, len(senseIDByRow))
	for row := range senseIDByRow {
		senseRows = append(senseRows, row)
	}

	senseByID := make(map[string]*Sense)
	for ei := range out.Entries {
		for si := range out.Entries[ei].Senses {
			senseByID[out.Entries[ei].Senses[si].ID] = &out.Entries[ei].Senses[si]
		}
	}

	query, args, err := expandIn(`SELECT sense_id, text, language FROM sense_examples WHERE sense_id IN (?) ORDER BY sense_id, position`, senseRows)
	if err != nil {
		return domain.NewExportError("build sense examples query", err)
	}
	var exs []struct {
		SenseID  int64  `db:"sense_id"`
		Text     string `db:"text"`
		Language string `db:"language"`
	}
	if err := q.SelectContext(ctx, &exs, query, args...); err != nil {
		return domain.NewExportError("load sense examples", err)
	}
	for _, e := range exs {
		if s, ok := senseByID[senseIDByRow[e.SenseID]]; ok {
			s.Examples = append(s.Examples, Example{Text: e.Text, Language: e.Language})
		}
	}

	query, args, err = expandIn(`SELECT source_id, kind, target_id, metadata FROM sense_relations WHERE source_id IN (?)`, senseRows)
	if err != nil {
		return domain.NewExportError("build sense relations query", err)
	}
	var rels []struct {
		SourceID int64  `db:"source_id"`
		Kind     string `db:"kind"`
		TargetID int64  `db:"target_id"`
		Metadata string `db:"metadata"`
	}
	if err := q.SelectContext(ctx, &rels, query, args...); err != nil {
		return domain.NewExportError("load sense relations", err)
	}
	for _, r := range rels {
		meta, err := decodeJSONMeta(r.Metadata)
		if err != nil {
			return domain.NewExportError("decode relation metadata", err)
		}
		if s, ok := senseByID[senseIDByRow[r.SourceID]]; ok {
			s.Relations = append(s.Relations, Relation{Kind: r.Kind, Target: senseIDByRow[r.TargetID], Metadata: meta})
		}
	}

	query, args, err = expandIn(`SELECT sense_id, value FROM counts WHERE sense_id IN (?) ORDER BY sense_id, id`, senseRows)
	if err != nil {
		return domain.NewExportError("build counts query", err)
	}
	var counts []struct {
		SenseID int64 `db:"sense_id"`
		Value   int   `db:"value"`
	}
	if err := q.SelectContext(ctx, &counts, query, args...); err != nil {
		return domain.NewExportError("load counts", err)
	}
	for _, c := range counts {
		if s, ok := senseByID[senseIDByRow[c.SenseID]]; ok {
			s.Counts = append(s.Counts, c.Value)
		}
	}

	query, args, err = expandIn(`SELECT source_id, kind, target_id, metadata FROM sense_synset_relations WHERE source_id IN (?)`, senseRows)
	if err != nil {
		return domain.NewExportError("build sense-synset relations query", err)
	}
	var synRels []struct {
		SourceID int64  `db:"source_id"`
		Kind     string `db:"kind"`
		TargetID int64  `db:"target_id"`
		Metadata string `db:"metadata"`
	}
	if err := q.SelectContext(ctx, &synRels, query, args...); err != nil {
		return domain.NewExportError("load sense-synset relations", err)
	}
	for _, r := range synRels {
		meta, err := decodeJSONMeta(r.Metadata)
		if err != nil {
			return domain.NewExportError("decode relation metadata", err)
		}
		if s, ok := senseByID[senseIDByRow[r.SourceID]]; ok {
			s.SynsetRelations = append(s.SynsetRelations, Relation{Kind: r.Kind, Target: synsetIDByRow[r.TargetID], Metadata: meta})
		}
	}
	return nil
}

func (ex *Exporter) loadFrames(ctx context.Context, q store.Querier, lexRow int64, senseIDByRow map[int64]string, out *Lexicon) error {
	var frames []struct {
		RowID int64   `db:"id"`
		SBID  *string `db:"sb_id"`
		Frame string  `db:"frame"`
	}
	if err := q.SelectContext(ctx, &frames, `SELECT id, sb_id, frame FROM syntactic_behaviours WHERE lexicon_id = ?`, lexRow); err != nil {
		return domain.NewExportError("load syntactic behaviours", err)
	}
	if len(frames) == 0 {
		return nil
	}

	frameRows := make([]int64, 0, len(frames))
	frameByRow := make(map[int64]*SyntacticBehaviour, len(frames))
	for _, f := range frames {
		sb := SyntacticBehaviour{Frame: f.Frame}
		if f.SBID != nil {
			sb.ID = *f.SBID
		}
		out.Frames = append(out.Frames, sb)
		frameRows = append(frameRows, f.RowID)
	}
	for i := range out.Frames {
		frameByRow[frames[i].RowID] = &out.Frames[i]
	}

	query, args, err := expandIn(`SELECT sb_id, sense_id FROM syntactic_behaviour_senses WHERE sb_id IN (?)`, frameRows)
	if err != nil {
		return domain.NewExportError("build syntactic behaviour senses query", err)
	}
	var links []struct {
		SBID    int64 `db:"sb_id"`
		SenseID int64 `db:"sense_id"`
	}
	if err := q.SelectContext(ctx, &links, query, args...); err != nil {
		return domain.NewExportError("load syntactic behaviour senses", err)
	}
	senseFrames := make(map[string][]string)
	for _, l := range links {
		sb := frameByRow[l.SBID]
		if sb == nil {
			continue
		}
		sb.SenseIDs = append(sb.SenseIDs, senseIDByRow[l.SenseID])
		senseFrames[senseIDByRow[l.SenseID]] = append(senseFrames[senseIDByRow[l.SenseID]], sb.Frame)
	}
	for ei := range out.Entries {
		for si := range out.Entries[ei].Senses {
			out.Entries[ei].Senses[si].FrameIDs = senseFrames[out.Entries[ei].Senses[si].ID]
		}
	}
	return nil
}

// Export renders lexiconIDs to a single WN-LMF document and re-parses its
// own output to confirm every synset, entry, and sense it wrote is
// recoverable — catching a codec regression before it reaches a
// consumer rather than after.
func (ex *Exporter) Export(ctx context.Context, lexiconIDs []string, opts ExportOptions) ([]byte, *ExportReport, error) {
	report := &ExportReport{}
	lexicons := make([]Lexicon, 0, len(lexiconIDs))
	for _, id := range lexiconIDs {
		lex, r, err := ex.ExportLexicon(ctx, id, opts)
		if err != nil {
			return nil, nil, err
		}
		lexicons = append(lexicons, lex)
		report.Warnings = append(report.Warnings, r.Warnings...)
	}

	var buf bytes.Buffer
	if err := WriteXML(&buf, lexicons); err != nil {
		return nil, nil, err
	}

	reparsed, err := ParseXML(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, nil, domain.NewExportError("post-export re-parse", err)
	}
	if err := checkStructuralMatch(lexicons, reparsed); err != nil {
		return nil, nil, err
	}

	return buf.Bytes(), report, nil
}

func checkStructuralMatch(want, got []Lexicon) error {
	if len(want) != len(got) {
		return domain.NewExportError("structural re-check", fmt.Errorf("wrote %d lexicons, re-parsed %d", len(want), len(got)))
	}
	for i := range want {
		if want[i].ID != got[i].ID {
			return domain.NewExportError("structural re-check", fmt.Errorf("lexicon %d: id %q became %q", i, want[i].ID, got[i].ID))
		}
		if len(want[i].Synsets) != len(got[i].Synsets) {
			return domain.NewExportError("structural re-check",
				fmt.Errorf("lexicon %q: wrote %d synsets, re-parsed %d", want[i].ID, len(want[i].Synsets), len(got[i].Synsets)))
		}
		if len(want[i].Entries) != len(got[i].Entries) {
			return domain.NewExportError("structural re-check",
				fmt.Errorf("lexicon %q: wrote %d entries, re-parsed %d", want[i].ID, len(want[i].Entries), len(got[i].Entries)))
		}
		var wantSenses, gotSenses int
		for _, e := range want[i].Entries {
			wantSenses += len(e.Senses)
		}
		for _, e := range got[i].Entries {
			gotSenses += len(e.Senses)
		}
		if wantSenses != gotSenses {
			return domain.NewExportError("structural re-check",
				fmt.Errorf("lexicon %q: wrote %d senses, re-parsed %d", want[i].ID, wantSenses, gotSenses))
		}
	}
	return nil
}
