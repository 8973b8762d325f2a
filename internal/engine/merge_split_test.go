package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnedit/wnedit/internal/domain"
)

func TestMergeSynsets_RefusesWhenBothBoundToILI(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	synA, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a"})
	require.NoError(t, err)
	synB, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "b"})
	require.NoError(t, err)
	require.NoError(t, e.LinkILI(ctx, synA.ID, "i11111"))
	require.NoError(t, e.LinkILI(ctx, synB.ID, "i22222"))

	err = e.MergeSynsets(ctx, synA.ID, synB.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestMergeSynsets_TransfersILISensesAndDefinitions(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	synA, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a large feline"})
	require.NoError(t, err)
	synB, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a large feline"})
	require.NoError(t, err)
	require.NoError(t, e.LinkILI(ctx, synA.ID, "i11111"))

	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	sense, err := e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: synA.ID})
	require.NoError(t, err)

	require.NoError(t, e.MergeSynsets(ctx, synA.ID, synB.ID))

	ili, err := e.GetILI(ctx, synB.ID)
	require.NoError(t, err)
	require.NotNil(t, ili)
	assert.Equal(t, "i11111", ili.ID)

	found, err := e.FindSynsets(ctx, SynsetFilter{LexiconID: "awn", DefinitionContains: "large feline"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, synB.ID, found[0].ID)
	assert.True(t, found[0].Lexicalized, "the target gains the source's sense")

	entries, err := e.FindEntries(ctx, EntryFilter{LexiconID: "awn"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	rels, err := e.ListOutgoingRelations(ctx, domain.DomainSenseSynset, sense.ID, "")
	require.NoError(t, err)
	assert.Empty(t, rels)
}

func TestMergeSynsets_DropsRedundantSenseAndSelfLoopRelation(t *testing.T) {
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

	require.NoError(t, e.AddRelation(ctx, AddRelationParams{Domain: domain.DomainSynsetSynset, Source: synA.ID, Kind: "hypernym", Target: synB.ID}))

	require.NoError(t, e.MergeSynsets(ctx, synA.ID, synB.ID))

	entries, err := e.FindEntries(ctx, EntryFilter{LexiconID: "awn"})
	require.NoError(t, err)
	require.Len(t, entries, 1, "the entry itself survives the merge")
	_, err = e.GetMetadata(ctx, domain.KindSense, senseA.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "the redundant duplicate sense must be dropped, not duplicated")

	rels, err := e.ListOutgoingRelations(ctx, domain.DomainSynsetSynset, synB.ID, "")
	require.NoError(t, err)
	assert.Empty(t, rels, "a relation that would become a self-loop after merge must be dropped")
}

func TestSplitSynset_RequiresAtLeastTwoGroups(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
	require.NoError(t, err)

	_, err = e.SplitSynset(ctx, syn.ID, [][]string{{"only-one"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSplitSynset_RejectsIncompletePartition(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
	require.NoError(t, err)
	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	sense, err := e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: syn.ID})
	require.NoError(t, err)

	_, err = e.SplitSynset(ctx, syn.ID, [][]string{{sense.ID}, {"bogus-sense"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSplitSynset_CreatesNewSynsetsAndCopiesRelations(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
	require.NoError(t, err)
	other, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "y"})
	require.NoError(t, err)
	require.NoError(t, e.AddRelation(ctx, AddRelationParams{Domain: domain.DomainSynsetSynset, Source: syn.ID, Kind: "hypernym", Target: other.ID}))

	catEntry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	dogEntry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "dog", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	catSense, err := e.AddSense(ctx, AddSenseParams{EntryID: catEntry.ID, SynsetID: syn.ID})
	require.NoError(t, err)
	dogSense, err := e.AddSense(ctx, AddSenseParams{EntryID: dogEntry.ID, SynsetID: syn.ID})
	require.NoError(t, err)

	newIDs, err := e.SplitSynset(ctx, syn.ID, [][]string{{catSense.ID}, {dogSense.ID}})
	require.NoError(t, err)
	require.Len(t, newIDs, 1)

	rels, err := e.ListOutgoingRelations(ctx, domain.DomainSynsetSynset, newIDs[0], "")
	require.NoError(t, err)
	require.Len(t, rels, 1, "outgoing relations must be copied onto each new synset")
	assert.Equal(t, "hypernym", rels[0].Kind)
}
