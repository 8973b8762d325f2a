// Package wnedit is the public facade over the editor: open a store from
// configuration, get back an Editor with every mutation, query, import/
// export, validation, and external-bridge operation attached, close it
// when done. Everything interesting lives in internal/*; this package
// only wires those collaborators together behind one handle.
package wnedit

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wnedit/wnedit/config"
	"github.com/wnedit/wnedit/internal/engine"
	"github.com/wnedit/wnedit/internal/external"
	"github.com/wnedit/wnedit/internal/lmf"
	"github.com/wnedit/wnedit/internal/store"
	"github.com/wnedit/wnedit/internal/validate"
)

// Editor is the module's entry point. It embeds *engine.Editor, so every
// lexicon/synset/entry/sense/relation/ILI/metadata/merge/split operation
// is called directly on it; Validate, Import/Export, and Bridge cover the
// remaining collaborators.
type Editor struct {
	*engine.Editor

	store    *store.Store
	checker  *validate.Checker
	importer *lmf.Importer
	exporter *lmf.Exporter
	cfg      config.LMFConfig
}

// Open opens the store named by cfg.Store, runs Initialize, and returns
// an Editor ready for use. Callers must call Close when done.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Editor, error) {
	s, err := store.OpenWithOptions(ctx, cfg.Store.Path, store.Options{
		WAL:         cfg.Store.WAL,
		BusyTimeout: time.Duration(cfg.Store.BusyTimeout) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("wnedit: open store: %w", err)
	}
	if err := s.Initialize(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("wnedit: initialize store: %w", err)
	}

	eng := engine.New(s, logger)

	return &Editor{
		Editor:   eng,
		store:    s,
		checker:  validate.New(s),
		importer: lmf.NewImporter(eng),
		exporter: lmf.NewExporter(eng),
		cfg:      cfg.LMF,
	}, nil
}

// Close releases the underlying store connection.
func (ed *Editor) Close() error {
	return ed.store.Close()
}

// Validate returns ed's validation checker, for running editorial,
// structural, and relation rules over the store.
func (ed *Editor) Validate() *validate.Checker {
	return ed.checker
}

// Import loads lex into the store via the intermediate import pipeline.
func (ed *Editor) Import(ctx context.Context, lex lmf.Lexicon, opts lmf.ImportOptions) (*lmf.ImportReport, error) {
	return ed.importer.Import(ctx, lex, opts)
}

// ImportXML parses WN-LMF XML and imports every lexicon it contains.
func (ed *Editor) ImportXML(ctx context.Context, data []byte, opts lmf.ImportOptions) ([]*lmf.ImportReport, error) {
	lexicons, err := lmf.ParseXML(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("wnedit: parse xml: %w", err)
	}
	reports := make([]*lmf.ImportReport, 0, len(lexicons))
	for _, lex := range lexicons {
		report, err := ed.importer.Import(ctx, lex, opts)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Export serializes the named lexicons as WN-LMF XML, defaulting to the
// configured LMF version when opts.LMFVersion is empty.
func (ed *Editor) Export(ctx context.Context, lexiconIDs []string, opts lmf.ExportOptions) ([]byte, *lmf.ExportReport, error) {
	if opts.LMFVersion == "" {
		opts.LMFVersion = ed.cfg.DefaultExportVersion
	}
	return ed.exporter.Export(ctx, lexiconIDs, opts)
}

// Bridge builds an external.Bridge over this Editor's own store, acting
// as either side of an external import/commit using the given adapter.
func (ed *Editor) Bridge(adapter external.Adapter, logger *slog.Logger) *external.Bridge {
	return external.NewBridge(adapter, ed.importer, ed.exporter, logger)
}
