package external

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnedit/wnedit/internal/engine"
	"github.com/wnedit/wnedit/internal/lmf"
	"github.com/wnedit/wnedit/internal/store"
)

func newTestEditor(t *testing.T) (*engine.Editor, context.Context) {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(ctx, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Initialize(ctx))

	return engine.New(s, nil), ctx
}

func sampleLexicon() lmf.Lexicon {
	return lmf.Lexicon{
		ID: "awn", Version: "1.0", Label: "Animal WordNet", Language: "en",
		Email: "test@example.org", License: "CC0",
		Synsets: []lmf.Synset{
			{ID: "awn-0001-n", PartOfSpeech: "n", Definitions: []lmf.Definition{{Text: "a dog", Language: "en"}}},
		},
		Entries: []lmf.Entry{
			{
				ID: "awn-dog-n", PartOfSpeech: "n",
				Forms:  []lmf.Form{{WrittenForm: "dog"}},
				Senses: []lmf.Sense{{ID: "awn-dog-n-0001-01", SynsetID: "awn-0001-n"}},
			},
		},
	}
}

func TestStoreAdapter_BulkRoundTrip(t *testing.T) {
	t.Parallel()
	source, ctx := newTestEditor(t)
	target, _ := newTestEditor(t)

	_, err := lmf.NewImporter(source).Import(ctx, sampleLexicon(), lmf.ImportOptions{})
	require.NoError(t, err)

	adapter := NewStoreAdapter(source)
	bridge := NewBridge(adapter, lmf.NewImporter(target), lmf.NewExporter(target), nil)

	report, err := bridge.FromExternal(ctx, "awn", FromExternalOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Errors)
	require.Equal(t, 1, report.SynsetsCreated)

	lex, err := target.GetLexicon(ctx, "awn")
	require.NoError(t, err)
	require.Equal(t, "Animal WordNet", lex.Label)
}

func TestStoreAdapter_CommitToExternal(t *testing.T) {
	t.Parallel()
	source, ctx := newTestEditor(t)
	foreign, _ := newTestEditor(t)

	_, err := lmf.NewImporter(source).Import(ctx, sampleLexicon(), lmf.ImportOptions{})
	require.NoError(t, err)

	adapter := NewStoreAdapter(foreign)
	bridge := NewBridge(adapter, lmf.NewImporter(source), lmf.NewExporter(source), nil)

	err = bridge.CommitToExternal(ctx, "awn", CommitOptions{LMFVersion: "1.4"})
	require.NoError(t, err)

	lex, err := foreign.GetLexicon(ctx, "awn")
	require.NoError(t, err)
	require.Equal(t, "Animal WordNet", lex.Label)
}

func TestStoreAdapter_CommitToExternal_ReplacesExistingVersion(t *testing.T) {
	t.Parallel()
	source, ctx := newTestEditor(t)
	foreign, _ := newTestEditor(t)

	_, err := lmf.NewImporter(source).Import(ctx, sampleLexicon(), lmf.ImportOptions{})
	require.NoError(t, err)
	_, err = lmf.NewImporter(foreign).Import(ctx, sampleLexicon(), lmf.ImportOptions{})
	require.NoError(t, err)

	adapter := NewStoreAdapter(foreign)
	bridge := NewBridge(adapter, lmf.NewImporter(source), lmf.NewExporter(source), nil)

	err = bridge.CommitToExternal(ctx, "awn", CommitOptions{LMFVersion: "1.4"})
	require.NoError(t, err)

	lexicons, err := foreign.ListLexicons(ctx)
	require.NoError(t, err)
	require.Len(t, lexicons, 1)
}

// fakeAdapter lets the fallback path be exercised without a real bulk
// source: BulkRead always fails, forcing Bridge onto ExportXML.
type fakeAdapter struct {
	xml []byte
}

func (f *fakeAdapter) BulkRead(ctx context.Context, specifier string) (lmf.Lexicon, error) {
	return lmf.Lexicon{}, errors.New("bulk path not supported")
}

func (f *fakeAdapter) ExportXML(ctx context.Context, specifier string, w io.Writer) error {
	_, err := w.Write(f.xml)
	return err
}

func (f *fakeAdapter) RemoveLexiconVersions(ctx context.Context, lexiconID string) error {
	return nil
}

func (f *fakeAdapter) AddXML(ctx context.Context, r io.Reader) error {
	_, err := io.ReadAll(r)
	return err
}

func TestBridge_FromExternal_FallsBackToXMLWhenBulkFails(t *testing.T) {
	t.Parallel()
	target, ctx := newTestEditor(t)

	var buf bytes.Buffer
	require.NoError(t, lmf.WriteXML(&buf, []lmf.Lexicon{sampleLexicon()}))

	adapter := &fakeAdapter{xml: buf.Bytes()}
	bridge := NewBridge(adapter, lmf.NewImporter(target), lmf.NewExporter(target), nil)

	report, err := bridge.FromExternal(ctx, "awn", FromExternalOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, report.SynsetsCreated)

	lex, err := target.GetLexicon(ctx, "awn")
	require.NoError(t, err)
	require.Equal(t, "awn", lex.ID)
}

type alwaysFailAdapter struct{}

func (alwaysFailAdapter) BulkRead(ctx context.Context, specifier string) (lmf.Lexicon, error) {
	return lmf.Lexicon{}, errors.New("no bulk path")
}
func (alwaysFailAdapter) ExportXML(ctx context.Context, specifier string, w io.Writer) error {
	return errors.New("no xml export either")
}
func (alwaysFailAdapter) RemoveLexiconVersions(ctx context.Context, lexiconID string) error {
	return nil
}
func (alwaysFailAdapter) AddXML(ctx context.Context, r io.Reader) error { return nil }

func TestBridge_FromExternal_FailsWhenBothPathsFail(t *testing.T) {
	t.Parallel()
	target, ctx := newTestEditor(t)
	bridge := NewBridge(alwaysFailAdapter{}, lmf.NewImporter(target), lmf.NewExporter(target), nil)

	_, err := bridge.FromExternal(ctx, "awn", FromExternalOptions{})
	require.Error(t, err)
}
