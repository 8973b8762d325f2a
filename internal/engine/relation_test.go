package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnedit/wnedit/internal/domain"
)

func TestAddRelation_RejectsSelfLoop(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "x"})
	require.NoError(t, err)

	err = e.AddRelation(ctx, AddRelationParams{Domain: domain.DomainSynsetSynset, Source: syn.ID, Kind: "hypernym", Target: syn.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddRelation_RejectsUnknownKind(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	synA, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a"})
	require.NoError(t, err)
	synB, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "b"})
	require.NoError(t, err)

	err = e.AddRelation(ctx, AddRelationParams{Domain: domain.DomainSynsetSynset, Source: synA.ID, Kind: "bogus_kind", Target: synB.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddRelation_AutoInsertsInverse(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	synA, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a"})
	require.NoError(t, err)
	synB, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "b"})
	require.NoError(t, err)

	require.NoError(t, e.AddRelation(ctx, AddRelationParams{
		Domain: domain.DomainSynsetSynset, Source: synA.ID, Kind: "hypernym", Target: synB.ID, AutoInverse: true,
	}))

	forward, err := e.ListOutgoingRelations(ctx, domain.DomainSynsetSynset, synA.ID, "")
	require.NoError(t, err)
	require.Len(t, forward, 1)
	assert.Equal(t, "hypernym", forward[0].Kind)
	assert.Equal(t, synB.ID, forward[0].Target)

	backward, err := e.ListOutgoingRelations(ctx, domain.DomainSynsetSynset, synB.ID, "")
	require.NoError(t, err)
	require.Len(t, backward, 1)
	assert.Equal(t, "hyponym", backward[0].Kind)
	assert.Equal(t, synA.ID, backward[0].Target)
}

func TestRemoveRelation_RemovesInverseToo(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	synA, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a"})
	require.NoError(t, err)
	synB, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "b"})
	require.NoError(t, err)
	require.NoError(t, e.AddRelation(ctx, AddRelationParams{
		Domain: domain.DomainSynsetSynset, Source: synA.ID, Kind: "hypernym", Target: synB.ID, AutoInverse: true,
	}))

	require.NoError(t, e.RemoveRelation(ctx, RemoveRelationParams{
		Domain: domain.DomainSynsetSynset, Source: synA.ID, Kind: "hypernym", Target: synB.ID, AutoInverse: true,
	}))

	forward, err := e.ListOutgoingRelations(ctx, domain.DomainSynsetSynset, synA.ID, "")
	require.NoError(t, err)
	assert.Empty(t, forward)
	backward, err := e.ListOutgoingRelations(ctx, domain.DomainSynsetSynset, synB.ID, "")
	require.NoError(t, err)
	assert.Empty(t, backward)
}

func TestAddRelation_DuplicateTripleIgnored(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	synA, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a"})
	require.NoError(t, err)
	synB, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "b"})
	require.NoError(t, err)

	require.NoError(t, e.AddRelation(ctx, AddRelationParams{Domain: domain.DomainSynsetSynset, Source: synA.ID, Kind: "hypernym", Target: synB.ID}))
	require.NoError(t, e.AddRelation(ctx, AddRelationParams{Domain: domain.DomainSynsetSynset, Source: synA.ID, Kind: "hypernym", Target: synB.ID}))

	rels, err := e.ListOutgoingRelations(ctx, domain.DomainSynsetSynset, synA.ID, "")
	require.NoError(t, err)
	assert.Len(t, rels, 1)
}
