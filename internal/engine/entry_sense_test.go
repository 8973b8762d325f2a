package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnedit/wnedit/internal/domain"
)

func TestCreateEntry_AutoIDNormalizesLemma(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")

	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "Big Cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	assert.Equal(t, "awn-big_cat-n", entry.ID)
	assert.Equal(t, "Big Cat", entry.Lemma().WrittenForm)
	assert.Equal(t, 0, entry.Lemma().Rank)
}

func TestCreateEntry_GapFillingOnCollision(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")

	e1, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	e2, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	e3, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)

	assert.Equal(t, "awn-cat-n", e1.ID)
	assert.Equal(t, "awn-cat-n-2", e2.ID)
	assert.Equal(t, "awn-cat-n-3", e3.ID)

	require.NoError(t, e.DeleteEntry(ctx, e2.ID, false))

	e4, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	assert.Equal(t, "awn-cat-n-2", e4.ID, "gap left by deletion must be reused")
}

func TestRemoveForm_RefusesRankZero(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)

	err = e.RemoveForm(ctx, entry.ID, "cat", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddSense_LexicalizesSynsetAndAssignsRanks(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a large feline animal"})
	require.NoError(t, err)
	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)

	sense, err := e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: syn.ID})
	require.NoError(t, err)
	assert.True(t, sense.Lexicalized)
	assert.Equal(t, 1, sense.EntryRank)
	assert.True(t, strings.HasPrefix(sense.ID, "awn-"))

	found, err := e.FindSynsets(ctx, SynsetFilter{LexiconID: "awn"})
	require.NoError(t, err)
	for _, s := range found {
		if s.ID == syn.ID {
			assert.True(t, s.Lexicalized)
		}
	}
}

func TestAddSense_RefusesDuplicatePair(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
	require.NoError(t, err)
	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)

	_, err = e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: syn.ID})
	require.NoError(t, err)
	_, err = e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: syn.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestMoveSense_RefusesWhenEntryAlreadyInTarget(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	synA, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a"})
	require.NoError(t, err)
	synB, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "b"})
	require.NoError(t, err)
	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)

	senseA, err := e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: synA.ID})
	require.NoError(t, err)
	_, err = e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: synB.ID})
	require.NoError(t, err)

	err = e.MoveSense(ctx, senseA.ID, synB.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRemoveSense_UnlexicalizesEmptiedSynset(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
	require.NoError(t, err)
	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	sense, err := e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: syn.ID})
	require.NoError(t, err)

	require.NoError(t, e.RemoveSense(ctx, sense.ID))

	found, err := e.FindSynsets(ctx, SynsetFilter{LexiconID: "awn"})
	require.NoError(t, err)
	for _, s := range found {
		if s.ID == syn.ID {
			assert.False(t, s.Lexicalized)
		}
	}
}

func TestReorderSenses_RejectsNonMatchingSet(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	synA, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a"})
	require.NoError(t, err)
	sense, err := e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: synA.ID})
	require.NoError(t, err)

	err = e.ReorderSenses(ctx, entry.ID, []string{sense.ID, "bogus"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReorderSenses_AssignsSequentialRanks(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)

	var senseIDs []string
	for i := 0; i < 3; i++ {
		syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
		require.NoError(t, err)
		sense, err := e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: syn.ID})
		require.NoError(t, err)
		senseIDs = append(senseIDs, sense.ID)
	}

	reversed := []string{senseIDs[2], senseIDs[1], senseIDs[0]}
	require.NoError(t, e.ReorderSenses(ctx, entry.ID, reversed))
}
