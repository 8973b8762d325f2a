// Package external implements the bridge to another lexicon store:
// from_external prefers a bulk path that reads a foreign store's schema
// straight into the intermediate shape, falling back to an XML round
// trip through that store's own export when the bulk path fails;
// commit_to_external reverses the trip, replacing any existing matching
// lexicon versions in the foreign store with a freshly exported file.
package external

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/lmf"
)

// Adapter is the seam a concrete foreign-store binding implements. A
// binding that has no efficient bulk path may return an error from
// BulkRead unconditionally; Bridge falls back to the XML path for it.
type Adapter interface {
	// BulkRead loads one lexicon by specifier directly from the foreign
	// store's own schema, skipping an XML round trip entirely.
	BulkRead(ctx context.Context, specifier string) (lmf.Lexicon, error)
	// ExportXML writes the foreign store's rendering of one lexicon as
	// WN-LMF XML, used when BulkRead isn't available or fails.
	ExportXML(ctx context.Context, specifier string, w io.Writer) error
	// RemoveLexiconVersions deletes every version of a lexicon id already
	// present in the foreign store, ahead of adding a freshly exported one.
	RemoveLexiconVersions(ctx context.Context, lexiconID string) error
	// AddXML loads a WN-LMF document into the foreign store.
	AddXML(ctx context.Context, r io.Reader) error
}

// Importer is the subset of *lmf.Importer the bridge needs, named so
// tests can substitute a fake without a live editor.
type Importer interface {
	Import(ctx context.Context, lex lmf.Lexicon, opts lmf.ImportOptions) (*lmf.ImportReport, error)
}

// Exporter is the subset of *lmf.Exporter the bridge needs.
type Exporter interface {
	Export(ctx context.Context, lexiconIDs []string, opts lmf.ExportOptions) ([]byte, *lmf.ExportReport, error)
}

// FromExternalOptions controls one from_external call.
type FromExternalOptions struct {
	Override      *lmf.LexiconOverride
	RecordHistory bool
}

// CommitOptions controls one commit_to_external call.
type CommitOptions struct {
	LMFVersion string
}

// Bridge ties a foreign-store Adapter to this store's Importer/Exporter.
type Bridge struct {
	adapter  Adapter
	importer Importer
	exporter Exporter
	logger   *slog.Logger
}

// NewBridge builds a Bridge. A nil logger falls back to slog.Default,
// matching the engine's own constructor.
func NewBridge(adapter Adapter, importer Importer, exporter Exporter, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{adapter: adapter, importer: importer, exporter: exporter, logger: logger}
}

// FromExternal loads one lexicon from the foreign store and applies it
// through the Importer, so the write still goes through every check and
// bookkeeping step an interactive edit would. The bulk path is tried
// first; if it errors, the XML fallback runs instead, and only if both
// fail is the call reported as failed.
func (b *Bridge) FromExternal(ctx context.Context, specifier string, opts FromExternalOptions) (*lmf.ImportReport, error) {
	lex, bulkErr := b.adapter.BulkRead(ctx, specifier)
	if bulkErr != nil {
		b.logger.Warn("external bulk read failed, falling back to xml export", "specifier", specifier, "error", bulkErr)

		var buf bytes.Buffer
		if xmlErr := b.adapter.ExportXML(ctx, specifier, &buf); xmlErr != nil {
			return nil, domain.NewImportError("from_external",
				fmt.Errorf("bulk path: %w; xml fallback: %v", bulkErr, xmlErr))
		}
		lexicons, parseErr := lmf.ParseXML(&buf)
		if parseErr != nil {
			return nil, domain.NewImportError("from_external", fmt.Errorf("parse xml fallback: %w", parseErr))
		}
		if len(lexicons) == 0 {
			return nil, domain.NewImportError("from_external", errors.New("xml fallback produced no lexicons"))
		}
		lex = lexicons[0]
	}

	return b.importer.Import(ctx, lex, lmf.ImportOptions{
		Override:      opts.Override,
		RecordHistory: opts.RecordHistory,
	})
}

// CommitToExternal exports one lexicon to a temporary XML file, removes
// any existing matching versions from the foreign store, then loads the
// file into it. The temporary file is always removed before returning.
func (b *Bridge) CommitToExternal(ctx context.Context, lexiconID string, opts CommitOptions) error {
	data, _, err := b.exporter.Export(ctx, []string{lexiconID}, lmf.ExportOptions{LMFVersion: opts.LMFVersion})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "wnedit-commit-*.xml")
	if err != nil {
		return domain.NewExportError("commit_to_external", fmt.Errorf("create temp file: %w", err))
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return domain.NewExportError("commit_to_external", fmt.Errorf("write temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return domain.NewExportError("commit_to_external", fmt.Errorf("close temp file: %w", err))
	}

	if err := b.adapter.RemoveLexiconVersions(ctx, lexiconID); err != nil {
		return domain.NewExportError("commit_to_external", fmt.Errorf("remove existing versions: %w", err))
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return domain.NewExportError("commit_to_external", fmt.Errorf("reopen temp file: %w", err))
	}
	defer f.Close()

	if err := b.adapter.AddXML(ctx, f); err != nil {
		return domain.NewExportError("commit_to_external", fmt.Errorf("add to external store: %w", err))
	}
	return nil
}
