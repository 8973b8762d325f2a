package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("pos", "not in closed set")

	require.Equal(t, "validation: pos — not in closed set", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "pos", Message: "not in closed set"},
		{Field: "ili_definition", Message: "too short"},
	})

	require.Equal(t, "validation: 2 errors", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	require.Len(t, err.Errors, 2)
}

func TestNotFoundError(t *testing.T) {
	t.Parallel()

	err := NewNotFoundError(KindSynset, "awn-00000001-n")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "awn-00000001-n")
}

func TestDuplicateError(t *testing.T) {
	t.Parallel()

	err := NewDuplicateError(KindLexicon, "awn:1.0")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRelationRefusalError(t *testing.T) {
	t.Parallel()

	err := NewRelationRefusalError(KindSynset, "awn-00000001-n", "owns senses")
	assert.ErrorIs(t, err, ErrRelation)
	assert.Contains(t, err.Error(), "owns senses")
}

func TestConflictError(t *testing.T) {
	t.Parallel()

	err := NewConflictError("both synsets bound to an ILI")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestIndexRangeError(t *testing.T) {
	t.Parallel()

	err := NewIndexRangeError(KindDefinition, 5, 2)
	assert.ErrorIs(t, err, ErrIndexRange)
}

func TestStoreError_WrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := errors.New("disk full")
	err := NewStoreError("open", underlying)

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, underlying)
}

func TestSchemaMismatchError(t *testing.T) {
	t.Parallel()

	err := &SchemaMismatchError{Expected: "1.0", Actual: "0.9"}
	assert.ErrorIs(t, err, ErrStore)
	assert.Contains(t, err.Error(), "0.9")
}

func TestImportError_WrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := errors.New("malformed xml")
	err := NewImportError("parse", underlying)

	assert.ErrorIs(t, err, ErrImport)
	assert.ErrorIs(t, err, underlying)
}

func TestExportError_WrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := errors.New("round-trip mismatch")
	err := NewExportError("verify", underlying)

	assert.ErrorIs(t, err, ErrExport)
	assert.ErrorIs(t, err, underlying)
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrStore, ErrValidation, ErrNotFound, ErrDuplicate,
		ErrRelation, ErrConflict, ErrImport, ErrExport, ErrIndexRange,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.Falsef(t, errors.Is(a, b), "sentinel %d should not match sentinel %d", i, j)
			}
		}
	}
}
