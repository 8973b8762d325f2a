package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers. Every error surfaced at the
// public API boundary wraps exactly one of these via errors.Is.
var (
	// ErrStore signals storage I/O failure, corruption, or schema mismatch.
	ErrStore = errors.New("store error")
	// ErrValidation signals a precondition failure: bad POS, bad id prefix,
	// bad relation kind, self-loop, short ILI definition, bad partition.
	ErrValidation = errors.New("validation error")
	// ErrNotFound signals a referenced entity is absent.
	ErrNotFound = errors.New("entity not found")
	// ErrDuplicate signals an identity collision.
	ErrDuplicate = errors.New("duplicate entity")
	// ErrRelation signals refusal to cascade where the caller did not opt in.
	ErrRelation = errors.New("relation error")
	// ErrConflict signals refusal to merge or bind conflicting states.
	ErrConflict = errors.New("conflict")
	// ErrImport signals malformed WN-LMF input or an upstream resource error.
	ErrImport = errors.New("import error")
	// ErrExport signals a post-export structural re-check failed.
	ErrExport = errors.New("export error")
	// ErrIndexRange signals an out-of-range positional index (definitions,
	// examples addressed by insertion order).
	ErrIndexRange = errors.New("index out of range")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// NotFoundError names the entity kind and id that could not be located.
type NotFoundError struct {
	Kind EntityKind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.ID, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError builds a *NotFoundError for the given entity.
func NewNotFoundError(kind EntityKind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// DuplicateError names the entity kind and key that already exists.
type DuplicateError struct {
	Kind EntityKind
	Key  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Key, ErrDuplicate)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// NewDuplicateError builds a *DuplicateError for the given entity key.
func NewDuplicateError(kind EntityKind, key string) *DuplicateError {
	return &DuplicateError{Kind: kind, Key: key}
}

// RelationRefusalError signals a cascade was required but not opted into.
type RelationRefusalError struct {
	Kind   EntityKind
	ID     string
	Reason string
}

func (e *RelationRefusalError) Error() string {
	return fmt.Sprintf("%s %q: %s: %s", e.Kind, e.ID, ErrRelation, e.Reason)
}

func (e *RelationRefusalError) Unwrap() error { return ErrRelation }

// NewRelationRefusalError builds a *RelationRefusalError.
func NewRelationRefusalError(kind EntityKind, id, reason string) *RelationRefusalError {
	return &RelationRefusalError{Kind: kind, ID: id, Reason: reason}
}

// ConflictErrorDetail names the reason two entities' states conflict.
type ConflictErrorDetail struct {
	Reason string
}

func (e *ConflictErrorDetail) Error() string {
	return fmt.Sprintf("%s: %s", ErrConflict, e.Reason)
}

func (e *ConflictErrorDetail) Unwrap() error { return ErrConflict }

// NewConflictError builds a *ConflictErrorDetail with the given reason.
func NewConflictError(reason string) *ConflictErrorDetail {
	return &ConflictErrorDetail{Reason: reason}
}

// IndexRangeError names the position that fell outside a collection's bounds.
type IndexRangeError struct {
	Kind  EntityKind
	Index int
	Len   int
}

func (e *IndexRangeError) Error() string {
	return fmt.Sprintf("%s index %d: %s (len=%d)", e.Kind, e.Index, ErrIndexRange, e.Len)
}

func (e *IndexRangeError) Unwrap() error { return ErrIndexRange }

// NewIndexRangeError builds an *IndexRangeError.
func NewIndexRangeError(kind EntityKind, index, length int) *IndexRangeError {
	return &IndexRangeError{Kind: kind, Index: index, Len: length}
}

// StoreError wraps a storage-layer failure (I/O, schema mismatch).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return errors.Join(ErrStore, e.Err) }

// NewStoreError builds a *StoreError for the given operation.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// SchemaMismatchError reports the store's schema token does not match the
// code's expected token.
type SchemaMismatchError struct {
	Expected string
	Actual   string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("store: schema version %q does not match expected %q", e.Actual, e.Expected)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrStore }

// ImportError wraps a failure encountered while parsing or applying WN-LMF
// (or the intermediate shape).
type ImportError struct {
	Op  string
	Err error
}

func (e *ImportError) Error() string { return fmt.Sprintf("import: %s: %v", e.Op, e.Err) }

func (e *ImportError) Unwrap() error { return errors.Join(ErrImport, e.Err) }

// NewImportError builds an *ImportError for the given operation.
func NewImportError(op string, err error) *ImportError {
	return &ImportError{Op: op, Err: err}
}

// ExportError wraps a failure discovered by the post-export structural
// re-check.
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string { return fmt.Sprintf("export: %s: %v", e.Op, e.Err) }

func (e *ExportError) Unwrap() error { return errors.Join(ErrExport, e.Err) }

// NewExportError builds an *ExportError for the given operation.
func NewExportError(op string, err error) *ExportError {
	return &ExportError{Op: op, Err: err}
}
