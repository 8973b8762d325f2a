package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnedit/wnedit/internal/domain"
)

func TestCreateSynset_RejectsUnknownPOS(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")

	_, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.PartOfSpeech("z"), Definition: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateSynset_AutoIDFormat(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")

	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a large feline animal"})
	require.NoError(t, err)
	assert.Equal(t, "awn-00000001-n", syn.ID)

	syn2, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "another concept"})
	require.NoError(t, err)
	assert.Equal(t, "awn-00000002-n", syn2.ID)
}

func TestCreateSynset_NoSensesDefaultsUnlexicalized(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")

	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
	require.NoError(t, err)
	assert.False(t, syn.Lexicalized)
}

func TestProposeILI_BoundaryLength(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
	require.NoError(t, err)

	def19 := strings.Repeat("a", 19)
	err = e.ProposeILI(ctx, syn.ID, def19, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	syn2, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "y"})
	require.NoError(t, err)
	def20 := strings.Repeat("a", 20)
	err = e.ProposeILI(ctx, syn2.ID, def20, nil)
	require.NoError(t, err)

	found, err := e.FindSynsets(ctx, SynsetFilter{LexiconID: "awn"})
	require.NoError(t, err)
	var gotProposed bool
	for _, s := range found {
		if s.ID == syn2.ID {
			gotProposed = true
		}
	}
	assert.True(t, gotProposed)
}

func TestLinkILI_RefusesWhenAlreadyBound(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
	require.NoError(t, err)

	require.NoError(t, e.LinkILI(ctx, syn.ID, "i12345"))
	err = e.LinkILI(ctx, syn.ID, "i99999")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDeleteSynset_RefusesWithSensesUnlessCascade(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a large feline animal"})
	require.NoError(t, err)
	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	_, err = e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: syn.ID})
	require.NoError(t, err)

	err = e.DeleteSynset(ctx, syn.ID, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRelation)

	require.NoError(t, e.DeleteSynset(ctx, syn.ID, true))

	entries, err := e.FindEntries(ctx, EntryFilter{LexiconID: "awn"})
	require.NoError(t, err)
	require.Len(t, entries, 1, "cascade removes only the synset's senses, not the entry")
}
