package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wnedit/wnedit/internal/domain"
)

func TestIsValidSynsetRelation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want bool
	}{
		{"hypernym", true},
		{"hyponym", true},
		{"also", true},
		{"bogus_kind", false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, IsValidSynsetRelation(tt.kind), "kind=%s", tt.kind)
	}
}

func TestInverseOfSynset_AsymmetricPair(t *testing.T) {
	t.Parallel()

	inv, ok := InverseOfSynset("hypernym")
	assert.True(t, ok)
	assert.Equal(t, "hyponym", inv)

	inv, ok = InverseOfSynset("hyponym")
	assert.True(t, ok)
	assert.Equal(t, "hypernym", inv)
}

func TestInverseOfSynset_Symmetric(t *testing.T) {
	t.Parallel()

	inv, ok := InverseOfSynset("similar")
	assert.True(t, ok)
	assert.Equal(t, "similar", inv)
	assert.True(t, IsSymmetricSynset("similar"))
	assert.False(t, IsSymmetricSynset("hypernym"))
}

func TestInverseOfSynset_Unknown(t *testing.T) {
	t.Parallel()

	_, ok := InverseOfSynset("not_a_kind")
	assert.False(t, ok)
}

func TestSenseSynsetRelations_NoInverse(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidSenseSynsetRelation("domain_topic"))
	inv, ok := InverseOf(domain.DomainSenseSynset, "domain_topic")
	assert.False(t, ok)
	assert.Empty(t, inv)
}

func TestIsValidForDomain(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidForDomain(domain.DomainSynsetSynset, "hypernym"))
	assert.False(t, IsValidForDomain(domain.DomainSenseSense, "hypernym"))
	assert.True(t, IsValidForDomain(domain.DomainSenseSense, "antonym"))
	assert.True(t, IsValidForDomain(domain.DomainSenseSynset, "exemplifies"))
}

func TestAllKinds_NonEmpty(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, AllSynsetKinds())
	assert.NotEmpty(t, AllSenseKinds())
	assert.NotEmpty(t, AllSenseSynsetKinds())
}

func TestTaxonomicKinds(t *testing.T) {
	t.Parallel()

	assert.True(t, TaxonomicKinds["hypernym"])
	assert.False(t, TaxonomicKinds["similar"])
}
