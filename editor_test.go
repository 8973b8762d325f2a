package wnedit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnedit/wnedit/config"
	"github.com/wnedit/wnedit/internal/engine"
	"github.com/wnedit/wnedit/internal/external"
	"github.com/wnedit/wnedit/internal/lmf"
	"github.com/wnedit/wnedit/internal/validate"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Store: config.StoreConfig{Path: "", WAL: true, BusyTimeout: 5000},
		LMF:   config.LMFConfig{DefaultExportVersion: "1.4"},
		Log:   config.LogConfig{Level: "info", Format: "json"},
	}
}

func openTestEditor(t *testing.T) (*Editor, context.Context) {
	t.Helper()
	ctx := context.Background()

	ed, err := Open(ctx, testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ed.Close() })

	return ed, ctx
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

func TestOpen_EmbedsEngineAndInitializesStore(t *testing.T) {
	ed, ctx := openTestEditor(t)

	lex, err := ed.CreateLexicon(ctx, engine.CreateLexiconParams{
		ID: "test-wn", Version: "1.0", Label: "Test WordNet", Language: "en",
		Email: "test@example.org", License: "CC0",
	})
	require.NoError(t, err)
	require.Equal(t, "test-wn", lex.ID)
}

func TestEditor_ImportAndExportRoundTrip(t *testing.T) {
	ed, ctx := openTestEditor(t)

	report, err := ed.Import(ctx, sampleLexicon(), lmf.ImportOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Errors)
	require.Equal(t, 1, report.SynsetsCreated)

	data, exportReport, err := ed.Export(ctx, []string{"awn"}, lmf.ExportOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Empty(t, exportReport.Warnings)
}

func TestEditor_ImportXML(t *testing.T) {
	ed, ctx := openTestEditor(t)

	_, err := ed.Import(ctx, sampleLexicon(), lmf.ImportOptions{})
	require.NoError(t, err)

	data, _, err := ed.Export(ctx, []string{"awn"}, lmf.ExportOptions{})
	require.NoError(t, err)

	other, _ := openTestEditor(t)
	reports, err := other.ImportXML(ctx, data, lmf.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, 1, reports[0].SynsetsCreated)
}

func TestEditor_ValidateReturnsChecker(t *testing.T) {
	ed, ctx := openTestEditor(t)

	_, err := ed.Import(ctx, sampleLexicon(), lmf.ImportOptions{})
	require.NoError(t, err)

	findings, err := ed.Validate().Validate(ctx, validate.Scope{LexiconID: "awn"})
	require.NoError(t, err)
	require.NotNil(t, findings)
}

func TestEditor_BridgeImportsFromAnotherEditor(t *testing.T) {
	source, ctx := openTestEditor(t)
	target, _ := openTestEditor(t)

	_, err := source.Import(ctx, sampleLexicon(), lmf.ImportOptions{})
	require.NoError(t, err)

	adapter := external.NewStoreAdapter(source.Editor)
	report, err := target.Bridge(adapter, nil).FromExternal(ctx, "awn", external.FromExternalOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, report.SynsetsCreated)

	lex, err := target.GetLexicon(ctx, "awn")
	require.NoError(t, err)
	require.Equal(t, "Animal WordNet", lex.Label)
}
