package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnedit/wnedit/internal/domain"
)

func TestAddSyntacticBehaviour_WithAndWithoutExplicitID(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")

	sb, err := e.AddSyntacticBehaviour(ctx, "awn", "Somebody ----s something", domain.None[string]())
	require.NoError(t, err)
	assert.Equal(t, "", sb.ID)

	sb2, err := e.AddSyntacticBehaviour(ctx, "awn", "Somebody ----s", domain.Some("awn-sb-1"))
	require.NoError(t, err)
	assert.Equal(t, "awn-sb-1", sb2.ID)
}

func TestAddSyntacticBehaviour_RejectsMismatchedPrefix(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")

	_, err := e.AddSyntacticBehaviour(ctx, "awn", "frame", domain.Some("other-sb-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAttachSyntacticBehaviourToSense(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")
	syn, err := e.CreateSynset(ctx, CreateSynsetParams{LexiconID: "awn", PartOfSpeech: domain.POSVerb, Definition: "to leap"})
	require.NoError(t, err)
	entry, err := e.CreateEntry(ctx, CreateEntryParams{LexiconID: "awn", Lemma: "jump", PartOfSpeech: domain.POSVerb})
	require.NoError(t, err)
	sense, err := e.AddSense(ctx, AddSenseParams{EntryID: entry.ID, SynsetID: syn.ID})
	require.NoError(t, err)

	_, err = e.AddSyntacticBehaviour(ctx, "awn", "Somebody ----s", domain.None[string]())
	require.NoError(t, err)

	require.NoError(t, e.AttachSyntacticBehaviourToSense(ctx, "awn", "Somebody ----s", sense.ID))
	require.NoError(t, e.AttachSyntacticBehaviourToSense(ctx, "awn", "Somebody ----s", sense.ID), "duplicate attachment is a no-op")
}

func TestRemoveSyntacticBehaviour_NotFoundWhenAbsent(t *testing.T) {
	t.Parallel()
	e, ctx := newTestEditor(t)
	mustCreateLexicon(t, e, ctx, "awn")

	err := e.RemoveSyntacticBehaviour(ctx, "awn", "nonexistent frame")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
