package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnedit/wnedit/internal/domain"
)

func TestSetMetadata_SetsAndDeletesKey(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
	require.NoError(t, err)

	require.NoError(t, e.SetMetadata(ctx, domain.KindSynset, syn.ID, "reviewer", "alice"))
	meta, err := e.GetMetadata(ctx, domain.KindSynset, syn.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", meta["reviewer"])

	require.NoError(t, e.SetMetadata(ctx, domain.KindSynset, syn.ID, "reviewer", nil))
	meta, err = e.GetMetadata(ctx, domain.KindSynset, syn.ID)
	require.NoError(t, err)
	_, present := meta["reviewer"]
	assert.False(t, present)
}

func TestSetMetadata_RejectsKindWithoutMetadata(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")

	err := e.SetMetadata(ctx, domain.KindRelation, "x/y/z", "note", "v")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetConfidence_StoresUnderReservedKey(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
	require.NoError(t, err)
	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "cat", PartOfSpeech: domain.POSNoun})
	require.NoError(t, err)
	sense, err := e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: syn.ID})
	require.NoError(t, err)

	require.NoError(t, e.SetConfidence(ctx, sense.ID, 0.87))

	meta, err := e.GetMetadata(ctx, domain.KindSense, sense.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.87, meta["confidenceScore"], 0.0001)
}
