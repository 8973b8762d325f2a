package lmf

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wnedit/wnedit/internal/catalog"
	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/engine"
	"github.com/wnedit/wnedit/internal/store"
)

// ImportOptions controls how a Lexicon is applied to the editor.
type ImportOptions struct {
	// RecordHistory enables edit-history rows for every created entity.
	// Off by default for bulk loads, mirroring the history log's own
	// bulk-import toggle.
	RecordHistory bool
	// Override replaces fields of the incoming lexicon's identity and
	// descriptive metadata before anything is written, without touching
	// the data it carries.
	Override *LexiconOverride
}

// LexiconOverride adjusts a lexicon's identity/descriptive fields prior
// to import. A zero-value field leaves the incoming value untouched.
type LexiconOverride struct {
	ID       string
	Version  string
	Label    string
	Language string
}

// ImportReport summarizes one import run: how many top-level entities of
// each kind were processed, how many senses were skipped because their
// synset target could not be resolved, and the text of every non-fatal
// problem encountered.
type ImportReport struct {
	// OperationID identifies this run for correlation in logs, independent
	// of the lexicon's own id, since the same lexicon can be imported more
	// than once (overridden to a new id each time) within a session.
	OperationID    string
	LexiconID      string
	SynsetsCreated int
	EntriesCreated int
	SensesCreated  int
	SensesSkipped  int
	RelationsAdded int
	Errors         []string
}

func (r *ImportReport) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Importer applies parsed WN-LMF lexicons to an editor, routing every
// write through its mutation API so validation, auto-id assignment, and
// inverse-relation bookkeeping all run exactly as they would for an
// interactive edit.
type Importer struct {
	editor *engine.Editor
}

// NewImporter builds an Importer bound to an editor.
func NewImporter(editor *engine.Editor) *Importer {
	return &Importer{editor: editor}
}

// Import applies lex to the store in a single transactional batch: a
// duplicate lexicon id aborts the whole batch before anything is
// written; once past that check, per-entity problems (an orphaned sense
// target, a relation naming an entity that was never imported) are
// recorded in the report and skipped rather than aborting the batch,
// since a large import transcribing another tool's output is expected
// to carry some slack at its edges.
func (im *Importer) Import(ctx context.Context, lex Lexicon, opts ImportOptions) (*ImportReport, error) {
	if opts.Override != nil {
		applyOverride(&lex, opts.Override)
	}
	report := &ImportReport{OperationID: uuid.New().String(), LexiconID: lex.ID}

	history := im.editor.History()
	prevEnabled := history.Enabled()
	history.SetEnabled(opts.RecordHistory)
	defer history.SetEnabled(prevEnabled)

	err := im.editor.Batch(ctx, func(ctx context.Context) error {
		if _, err := im.editor.GetLexicon(ctx, lex.ID); err == nil {
			return domain.NewDuplicateError(domain.KindLexicon, lex.ID)
		}
		if _, err := im.editor.CreateLexicon(ctx, engine.CreateLexiconParams{
			ID: lex.ID, Version: lex.Version, Label: lex.Label, Language: lex.Language,
			Email: lex.Email, License: lex.License, URL: lex.URL, Citation: lex.Citation,
			Logo: lex.Logo, Metadata: lex.Metadata,
		}); err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, im.editor.Store().DB())
		for _, d := range lex.Requires {
			if _, err := q.ExecContext(ctx, `INSERT INTO lexicon_dependencies (lexicon_id, dep_id, dep_version, dep_url)
				SELECT id, ?, ?, ? FROM lexicons WHERE lex_id = ?`, d.ID, d.Version, d.URL, lex.ID); err != nil {
				return domain.NewStoreError("import lexicon dependency", err)
			}
		}
		for _, x := range lex.Extensions {
			if _, err := q.ExecContext(ctx, `INSERT INTO lexicon_extensions (lexicon_id, ext_id, ext_version)
				SELECT id, ?, ? FROM lexicons WHERE lex_id = ?`, x.ID, x.Version, lex.ID); err != nil {
				return domain.NewStoreError("import lexicon extension", err)
			}
		}

		if err := im.seedRelationTypes(ctx, lex); err != nil {
			return err
		}

		for _, sb := range lex.Frames {
			var id domain.Opt[string]
			if sb.ID != "" {
				id = domain.Some(sb.ID)
			}
			if _, err := im.editor.AddSyntacticBehaviour(ctx, lex.ID, sb.Frame, id); err != nil {
				report.fail("syntactic behaviour %q: %v", sb.Frame, err)
			}
		}

		synsetIDs := make(map[string]bool, len(lex.Synsets))
		for _, syn := range lex.Synsets {
			if err := im.importSynset(ctx, lex.ID, syn, report); err != nil {
				report.fail("synset %q: %v", syn.ID, err)
				continue
			}
			synsetIDs[syn.ID] = true
		}

		senseIDs := make(map[string]bool)
		for _, entry := range lex.Entries {
			if err := im.importEntry(ctx, lex.ID, entry, synsetIDs, senseIDs, report); err != nil {
				report.fail("entry %q: %v", entry.ID, err)
			}
		}

		for _, entry := range lex.Entries {
			for _, sense := range entry.Senses {
				if !senseIDs[sense.ID] {
					continue
				}
				for _, frame := range sense.FrameIDs {
					if err := im.editor.AttachSyntacticBehaviourToSense(ctx, lex.ID, frame, sense.ID); err != nil {
						report.fail("attach frame %q to sense %q: %v", frame, sense.ID, err)
					}
				}
			}
		}

		for _, entry := range lex.Entries {
			for _, sense := range entry.Senses {
				if !senseIDs[sense.ID] {
					continue
				}
				for _, rel := range sense.Relations {
					if im.addRelation(ctx, domain.DomainSenseSense, sense.ID, rel, senseIDs[rel.Target]) {
						report.RelationsAdded++
					} else {
						report.fail("sense relation %s -%s-> %s: target not imported or relation refused", sense.ID, rel.Kind, rel.Target)
					}
				}
				for _, rel := range sense.SynsetRelations {
					if im.addRelation(ctx, domain.DomainSenseSynset, sense.ID, rel, synsetIDs[rel.Target]) {
						report.RelationsAdded++
					} else {
						report.fail("sense-synset relation %s -%s-> %s: target not imported or relation refused", sense.ID, rel.Kind, rel.Target)
					}
				}
			}
		}
		for _, syn := range lex.Synsets {
			for _, rel := range syn.Relations {
				if im.addRelation(ctx, domain.DomainSynsetSynset, syn.ID, rel, synsetIDs[rel.Target]) {
					report.RelationsAdded++
				} else {
					report.fail("synset relation %s -%s-> %s: target not imported or relation refused", syn.ID, rel.Kind, rel.Target)
				}
			}
		}

		return nil
	})
	if err != nil {
		return report, domain.NewImportError("import lexicon", err)
	}
	return report, nil
}

// seedRelationTypes upserts a relation_types row for every (domain, kind)
// pair the input actually uses, before any relation is inserted, so the
// catalog's inverse lookup has a durable record of every kind this
// lexicon introduced.
func (im *Importer) seedRelationTypes(ctx context.Context, lex Lexicon) error {
	seen := make(map[[2]string]bool)
	seed := func(d domain.RelationDomain, kind string) error {
		key := [2]string{string(d), kind}
		if seen[key] {
			return nil
		}
		seen[key] = true
		inverse, _ := catalog.InverseOf(d, kind)
		return im.editor.Store().UpsertRelationType(ctx, string(d), kind, inverse)
	}

	for _, syn := range lex.Synsets {
		for _, rel := range syn.Relations {
			if err := seed(domain.DomainSynsetSynset, rel.Kind); err != nil {
				return domain.NewStoreError("seed relation type", err)
			}
		}
	}
	for _, entry := range lex.Entries {
		for _, sense := range entry.Senses {
			for _, rel := range sense.Relations {
				if err := seed(domain.DomainSenseSense, rel.Kind); err != nil {
					return domain.NewStoreError("seed relation type", err)
				}
			}
			for _, rel := range sense.SynsetRelations {
				if err := seed(domain.DomainSenseSynset, rel.Kind); err != nil {
					return domain.NewStoreError("seed relation type", err)
				}
			}
		}
	}
	return nil
}

func (im *Importer) importSynset(ctx context.Context, lexID string, syn Synset, report *ImportReport) error {
	var ili domain.Opt[string]
	var iliDef domain.Opt[string]
	switch {
	case syn.ProposedILI != nil:
		ili = domain.Some("in")
		iliDef = domain.Some(syn.ProposedILI.Definition)
	case syn.ILI != "":
		ili = domain.Some(syn.ILI)
	}

	var lexfile domain.Opt[string]
	if syn.Lexfile != "" {
		lexfile = domain.Some(syn.Lexfile)
	}

	if _, err := im.editor.CreateSynset(ctx, engine.CreateSynsetParams{
		LexiconID: lexID, PartOfSpeech: domain.PartOfSpeech(syn.PartOfSpeech),
		ExplicitID: domain.Some(syn.ID), ILI: ili, ILIDefinition: iliDef,
		Lexicalized: domain.Some(false), Lexfile: lexfile, Metadata: syn.Metadata,
	}); err != nil {
		return err
	}
	report.SynsetsCreated++

	// Every definition, including the first, goes through AddDefinition
	// rather than CreateSynsetParams.Definition, since that field carries
	// no language — routing all of them the same way preserves it.
	for _, d := range syn.Definitions {
		if err := im.editor.AddDefinition(ctx, syn.ID, d.Text, d.Language, d.Metadata); err != nil {
			report.fail("synset %q: definition: %v", syn.ID, err)
		}
	}
	for _, ex := range syn.Examples {
		if err := im.editor.AddSynsetExample(ctx, syn.ID, ex.Text, ex.Language, ex.Metadata); err != nil {
			report.fail("synset %q: example: %v", syn.ID, err)
		}
	}
	return nil
}

func (im *Importer) importEntry(ctx context.Context, lexID string, entry Entry, synsetIDs, senseIDs map[string]bool, report *ImportReport) error {
	if len(entry.Forms) == 0 {
		return domain.NewValidationError("forms", "entry carries no lemma form")
	}
	lemma := entry.Forms[0]

	if _, err := im.editor.CreateEntry(ctx, engine.CreateEntryParams{
		LexiconID: lexID, Lemma: lemma.WrittenForm, Script: lemma.Script,
		PartOfSpeech: domain.PartOfSpeech(entry.PartOfSpeech), ExplicitID: domain.Some(entry.ID), Metadata: entry.Metadata,
	}); err != nil {
		return err
	}
	report.EntriesCreated++
	im.importFormChildren(ctx, entry.ID, lemma, report)

	for _, form := range entry.Forms[min(1, len(entry.Forms)):] {
		if _, err := im.editor.AddForm(ctx, entry.ID, form.WrittenForm, form.Script); err != nil {
			report.fail("entry %q: extra form %q: %v", entry.ID, form.WrittenForm, err)
			continue
		}
		im.importFormChildren(ctx, entry.ID, form, report)
	}

	for _, sense := range entry.Senses {
		if !synsetIDs[sense.SynsetID] && !im.synsetExistsElsewhere(ctx, sense.SynsetID) {
			report.SensesSkipped++
			report.fail("sense %q: target synset %q not found in this import or the store, skipped", sense.ID, sense.SynsetID)
			continue
		}

		var adjPos domain.Opt[string]
		if sense.AdjPosition != "" {
			adjPos = domain.Some(sense.AdjPosition)
		}
		if _, err := im.editor.AddSense(ctx, engine.AddSenseParams{
			EntryID: entry.ID, SynsetID: sense.SynsetID, ExplicitID: domain.Some(sense.ID),
			Lexicalized: domain.Some(true), AdjPosition: adjPos, Metadata: sense.Metadata,
		}); err != nil {
			report.fail("sense %q: %v", sense.ID, err)
			continue
		}
		report.SensesCreated++
		senseIDs[sense.ID] = true

		for _, count := range sense.Counts {
			if err := im.editor.AddCount(ctx, sense.ID, count, nil); err != nil {
				report.fail("sense %q: count: %v", sense.ID, err)
			}
		}
		for _, ex := range sense.Examples {
			if err := im.editor.AddSenseExample(ctx, sense.ID, ex.Text, ex.Language, ex.Metadata); err != nil {
				report.fail("sense %q: example: %v", sense.ID, err)
			}
		}
	}
	return nil
}

// importFormChildren attaches a form's pronunciations and tags once the
// form itself (lemma or extra) has been created. Failures are reported
// per-item rather than aborting the entry.
func (im *Importer) importFormChildren(ctx context.Context, entryID string, form Form, report *ImportReport) {
	for _, p := range form.Pronunciations {
		pron := domain.Pronunciation{Value: p.Value, Variety: p.Variety, Notation: p.Notation, Phonemic: p.Phonemic, Audio: p.Audio}
		if err := im.editor.AddPronunciation(ctx, entryID, form.WrittenForm, form.Script, pron); err != nil {
			report.fail("entry %q: form %q: pronunciation: %v", entryID, form.WrittenForm, err)
		}
	}
	for _, t := range form.Tags {
		tag := domain.Tag{Value: t.Value, Category: t.Category}
		if err := im.editor.AddTag(ctx, entryID, form.WrittenForm, form.Script, tag); err != nil {
			report.fail("entry %q: form %q: tag: %v", entryID, form.WrittenForm, err)
		}
	}
}

// addRelation attempts to add one relation; returns false without error
// if its target was never imported and isn't already present in the
// store from an earlier import, or if the editor refuses the relation
// (for example an unknown kind), leaving the caller to report it.
func (im *Importer) addRelation(ctx context.Context, d domain.RelationDomain, source string, rel Relation, targetKnown bool) bool {
	if !targetKnown && !im.targetExistsInStore(ctx, d, rel.Target) {
		return false
	}
	err := im.editor.AddRelation(ctx, engine.AddRelationParams{
		Domain: d, Source: source, Kind: rel.Kind, Target: rel.Target, AutoInverse: true, Metadata: rel.Metadata,
	})
	return err == nil
}

// targetExistsInStore checks whether a relation target that wasn't part
// of this import batch already exists from an earlier one, so imports
// that span multiple files can still cross-link to each other.
func (im *Importer) targetExistsInStore(ctx context.Context, d domain.RelationDomain, target string) bool {
	if d == domain.DomainSenseSense {
		_, err := im.editor.Store().SenseRowIDByID(ctx, target)
		return err == nil
	}
	_, err := im.editor.Store().SynsetRowIDByID(ctx, target)
	return err == nil
}

// synsetExistsElsewhere reports whether a synset id not created during
// this import batch is already present in the store from an earlier one.
func (im *Importer) synsetExistsElsewhere(ctx context.Context, synsetID string) bool {
	_, err := im.editor.Store().SynsetRowIDByID(ctx, synsetID)
	return err == nil
}

func applyOverride(lex *Lexicon, o *LexiconOverride) {
	if o.ID != "" {
		lex.ID = o.ID
	}
	if o.Version != "" {
		lex.Version = o.Version
	}
	if o.Label != "" {
		lex.Label = o.Label
	}
	if o.Language != "" {
		lex.Language = o.Language
	}
}
