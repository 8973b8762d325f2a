package lmf

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wnedit/wnedit/internal/engine"
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

// sampleLexicon builds a small but representative lexicon carrying two
// synsets, one entry with two senses, a sense-to-sense relation, and one
// syntactic behaviour — enough to exercise every Import/Export path.
func sampleLexicon() Lexicon {
	return Lexicon{
		ID: "awn", Version: "1.0", Label: "Animal WordNet", Language: "en",
		Email: "test@example.org", License: "CC0",
		Requires:   []LexiconDependency{{ID: "pwn", Version: "3.0", URL: "https://example.org/pwn"}},
		Extensions: []LexiconExtension{{ID: "awn-ext", Version: "1.0"}},
		Frames:     []SyntacticBehaviour{{ID: "awn-frame-1", Frame: "somebody ----s something"}},
		Synsets: []Synset{
			{
				ID: "awn-0001-n", PartOfSpeech: "n", Lexfile: "noun.animal",
				Definitions: []Definition{{Text: "a domesticated carnivore", Language: "en"}},
				Examples:    []Example{{Text: "the dog barked", Language: "en"}},
			},
			{
				ID: "awn-0002-n", PartOfSpeech: "n", Lexfile: "noun.animal",
				Definitions: []Definition{{Text: "a young dog", Language: "en"}},
			},
		},
		Entries: []Entry{
			{
				ID: "awn-dog-n", PartOfSpeech: "n",
				Forms: []Form{{
					WrittenForm:    "dog",
					Pronunciations: []Pronunciation{{Value: "dɒg", Variety: "GenAm", Phonemic: true}},
					Tags:           []Tag{{Value: "N1", Category: "partOfSpeechSubcat"}},
				}},
				Senses: []Sense{
					{
						ID: "awn-dog-n-0001-01", SynsetID: "awn-0001-n",
						Counts:   []int{12},
						FrameIDs: []string{"somebody ----s something"},
						Relations: []Relation{
							{Kind: "antonym", Target: "awn-dog-n-0002-01"},
						},
					},
					{ID: "awn-dog-n-0002-01", SynsetID: "awn-0002-n"},
				},
			},
		},
	}
}

func TestImport_RoutesThroughEditorAndReportsCounts(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)

	im := NewImporter(e)
	report, err := im.Import(ctx, sampleLexicon(), ImportOptions{})
	require.NoError(t, err)
	require.Empty(t, report.Errors)
	require.Equal(t, 2, report.SynsetsCreated)
	require.Equal(t, 1, report.EntriesCreated)
	require.Equal(t, 2, report.SensesCreated)
	require.Equal(t, 1, report.RelationsAdded)

	lex, err := e.GetLexicon(ctx, "awn")
	require.NoError(t, err)
	require.Equal(t, "Animal WordNet", lex.Label)
}

func TestImport_DuplicateLexiconAborts(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	im := NewImporter(e)

	_, err := im.Import(ctx, sampleLexicon(), ImportOptions{})
	require.NoError(t, err)

	_, err = im.Import(ctx, sampleLexicon(), ImportOptions{})
	require.Error(t, err)
}

func TestImport_SkipsSenseWithUnknownSynsetTarget(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	im := NewImporter(e)

	lex := sampleLexicon()
	lex.Entries[0].Senses = append(lex.Entries[0].Senses, Sense{
		ID: "awn-dog-n-0003-01", SynsetID: "awn-9999-n",
	})

	report, err := im.Import(ctx, lex, ImportOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, report.SensesSkipped)
	require.NotEmpty(t, report.Errors)
}

func TestImportExport_RoundTrip(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)

	im := NewImporter(e)
	_, err := im.Import(ctx, sampleLexicon(), ImportOptions{})
	require.NoError(t, err)

	ex := NewExporter(e)
	lex, report, err := ex.ExportLexicon(ctx, "awn", ExportOptions{LMFVersion: "1.4"})
	require.NoError(t, err)
	require.Empty(t, report.Warnings)

	require.Equal(t, "awn", lex.ID)
	require.Len(t, lex.Synsets, 2)
	require.Len(t, lex.Entries, 1)
	require.Len(t, lex.Entries[0].Senses, 2)
	require.Equal(t, "a domesticated carnivore", lex.Synsets[0].Definitions[0].Text)
	require.Equal(t, []int{12}, lex.Entries[0].Senses[0].Counts)
	require.Equal(t, []string{"somebody ----s something"}, lex.Entries[0].Senses[0].FrameIDs)
	require.Equal(t, []LexiconDependency{{ID: "pwn", Version: "3.0", URL: "https://example.org/pwn"}}, lex.Requires)
	require.Equal(t, []LexiconExtension{{ID: "awn-ext", Version: "1.0"}}, lex.Extensions)
	require.Equal(t, []Pronunciation{{Value: "dɒg", Variety: "GenAm", Phonemic: true}}, lex.Entries[0].Forms[0].Pronunciations)
	require.Equal(t, []Tag{{Value: "N1", Category: "partOfSpeechSubcat"}}, lex.Entries[0].Forms[0].Tags)
	require.Len(t, lex.Entries[0].Senses[0].Relations, 1)
	require.Equal(t, "antonym", lex.Entries[0].Senses[0].Relations[0].Kind)
}

func TestExport_WritesValidXMLAndPassesStructuralCheck(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)

	im := NewImporter(e)
	_, err := im.Import(ctx, sampleLexicon(), ImportOptions{})
	require.NoError(t, err)

	ex := NewExporter(e)
	data, report, err := ex.Export(ctx, []string{"awn"}, ExportOptions{LMFVersion: "1.4"})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Empty(t, report.Warnings)

	lexicons, err := ParseXML(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, lexicons, 1)
	require.Len(t, lexicons[0].Synsets, 2)
}

func TestExport_WarnsOnPreV1_1DataLoss(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)

	im := NewImporter(e)
	_, err := im.Import(ctx, sampleLexicon(), ImportOptions{})
	require.NoError(t, err)

	ex := NewExporter(e)
	_, report, err := ex.ExportLexicon(ctx, "awn", ExportOptions{LMFVersion: "1.0"})
	require.NoError(t, err)
	require.NotEmpty(t, report.Warnings)
}
