package external

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/engine"
	"github.com/wnedit/wnedit/internal/lmf"
)

// StoreAdapter bridges to another store managed by this same engine —
// a second file, perhaps produced by a different install of this editor
// or shipped by a collaborator. Its bulk path reads the foreign editor's
// tables directly through lmf.Exporter, so most calls never touch XML at
// all; ExportXML/AddXML exist for the fallback path and for parity with
// adapters over a store that has no bulk-readable schema of its own.
type StoreAdapter struct {
	editor   *engine.Editor
	exporter *lmf.Exporter
	importer *lmf.Importer
}

// NewStoreAdapter builds a StoreAdapter over an already-open foreign
// editor. The caller owns the editor's lifecycle (Open/Initialize/Close).
func NewStoreAdapter(editor *engine.Editor) *StoreAdapter {
	return &StoreAdapter{
		editor:   editor,
		exporter: lmf.NewExporter(editor),
		importer: lmf.NewImporter(editor),
	}
}

// BulkRead loads a lexicon by specifier straight out of the foreign
// store's tables, skipping XML entirely.
func (a *StoreAdapter) BulkRead(ctx context.Context, specifier string) (lmf.Lexicon, error) {
	lex, _, err := a.exporter.ExportLexicon(ctx, specifier, lmf.ExportOptions{LMFVersion: "1.4"})
	return lex, err
}

// ExportXML renders the foreign store's lexicon to WN-LMF XML, used when
// BulkRead isn't available or raises.
func (a *StoreAdapter) ExportXML(ctx context.Context, specifier string, w io.Writer) error {
	data, _, err := a.exporter.Export(ctx, []string{specifier}, lmf.ExportOptions{LMFVersion: "1.4"})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// RemoveLexiconVersions deletes the foreign store's lexicon matching
// lexiconID, if one exists. A schema that enforces one row per bare id
// (as this store's own does) never has more than one version to remove.
func (a *StoreAdapter) RemoveLexiconVersions(ctx context.Context, lexiconID string) error {
	err := a.editor.DeleteLexicon(ctx, lexiconID)
	if err != nil && errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// AddXML parses a WN-LMF document and imports every lexicon it contains
// into the foreign store through its own Importer, so the write still
// goes through the foreign editor's validation and bookkeeping.
func (a *StoreAdapter) AddXML(ctx context.Context, r io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	lexicons, err := lmf.ParseXML(&buf)
	if err != nil {
		return err
	}
	for _, lex := range lexicons {
		if _, err := a.importer.Import(ctx, lex, lmf.ImportOptions{}); err != nil {
			return err
		}
	}
	return nil
}
