package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnedit/wnedit/internal/domain"
)

func TestCreateLexicon_DuplicateBareID(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)

	mustCreateLexicon(t, e, ctx, "awn")
	_, err := e.CreateLexicon(ctx, CreateLexiconParams{
		ID: "awn", Version: "2.0", Label: "Other", Language: "en", Email: "x@y.com", License: "CC0",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdateLexicon_PartialAndClearNullable(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")

	err := e.UpdateLexicon(ctx, "awn", UpdateLexiconParams{
		Label: domain.Some("New Label"),
		URL:   domain.Some(""),
	})
	require.NoError(t, err)

	lex, err := e.GetLexicon(ctx, "awn")
	require.NoError(t, err)
	assert.Equal(t, "New Label", lex.Label)
	assert.Equal(t, "", lex.URL)
	assert.True(t, lex.Modified)
	assert.Equal(t, "en", lex.Language, "unset fields must not change")
}

func TestGetLexicon_BySpecifierAndBareID(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")

	byBare, err := e.GetLexicon(ctx, "awn")
	require.NoError(t, err)
	bySpec, err := e.GetLexicon(ctx, "awn:1.0")
	require.NoError(t, err)
	assert.Equal(t, byBare, bySpec)
}

func TestDeleteLexicon_CascadesToOwnedSynsets(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSNoun, Definition: "a thing"})
	require.NoError(t, err)

	require.NoError(t, e.DeleteLexicon(ctx, "awn"))

	_, err = e.FindSynsets(ctx, SynsetFilter{LexiconID: "awn"})
	require.NoError(t, err)
	found, err := e.FindSynsets(ctx, SynsetFilter{})
	require.NoError(t, err)
	for _, s := range found {
		assert.NotEqual(t, syn.ID, s.ID)
	}
}
