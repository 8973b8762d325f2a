// Package catalog holds the static, read-only tables of recognized WN-LMF
// 1.4 relation kinds and their inverses. There is no mutable
// process-wide state here — every map is a package-level constant-shaped
// var, safe to share across every Editor handle.
package catalog

import "github.com/wnedit/wnedit/internal/domain"

// relationEntry pairs a relation kind with its inverse. A kind whose
// Inverse equals itself is symmetric.
type relationEntry struct {
	Inverse string
}

// synsetRelations is the synset↔synset relation domain.
var synsetRelations = map[string]relationEntry{
	"hypernym":          {Inverse: "hyponym"},
	"hyponym":           {Inverse: "hypernym"},
	"instance_hypernym": {Inverse: "instance_hyponym"},
	"instance_hyponym":  {Inverse: "instance_hypernym"},
	"mero_part":         {Inverse: "holo_part"},
	"holo_part":         {Inverse: "mero_part"},
	"mero_member":       {Inverse: "holo_member"},
	"holo_member":       {Inverse: "mero_member"},
	"mero_substance":    {Inverse: "holo_substance"},
	"holo_substance":    {Inverse: "mero_substance"},
	"entails":           {Inverse: "is_entailed_by"},
	"is_entailed_by":    {Inverse: "entails"},
	"causes":            {Inverse: "is_caused_by"},
	"is_caused_by":      {Inverse: "causes"},
	"domain_topic":      {Inverse: "has_domain_topic"},
	"has_domain_topic":  {Inverse: "domain_topic"},
	"domain_region":     {Inverse: "has_domain_region"},
	"has_domain_region": {Inverse: "domain_region"},
	"exemplifies":       {Inverse: "is_exemplified_by"},
	"is_exemplified_by": {Inverse: "exemplifies"},
	"also":              {Inverse: "also"},
	"similar":           {Inverse: "similar"},
	"attribute":         {Inverse: "attribute"},
	"other":             {Inverse: "other"},
}

// senseRelations is the sense↔sense relation domain.
var senseRelations = map[string]relationEntry{
	"antonym":           {Inverse: "antonym"},
	"also":              {Inverse: "also"},
	"similar":           {Inverse: "similar"},
	"derivation":        {Inverse: "derivation"},
	"pertainym":         {Inverse: "pertainym"},
	"participle":        {Inverse: "participle"},
	"domain_topic":      {Inverse: "has_domain_topic"},
	"has_domain_topic":  {Inverse: "domain_topic"},
	"domain_region":     {Inverse: "has_domain_region"},
	"has_domain_region": {Inverse: "domain_region"},
	"exemplifies":       {Inverse: "is_exemplified_by"},
	"is_exemplified_by": {Inverse: "exemplifies"},
	"other":             {Inverse: "other"},
}

// senseSynsetRelations is the sense→synset relation domain. These never
// carry an automatic inverse.
var senseSynsetRelations = map[string]struct{}{
	"domain_topic":      {},
	"has_domain_topic":  {},
	"domain_region":     {},
	"has_domain_region": {},
	"exemplifies":       {},
	"is_exemplified_by": {},
	"other":             {},
}

// IsValidSynsetRelation reports whether kind is recognized for synset↔synset.
func IsValidSynsetRelation(kind string) bool {
	_, ok := synsetRelations[kind]
	return ok
}

// IsValidSenseRelation reports whether kind is recognized for sense↔sense.
func IsValidSenseRelation(kind string) bool {
	_, ok := senseRelations[kind]
	return ok
}

// IsValidSenseSynsetRelation reports whether kind is recognized for
// sense→synset.
func IsValidSenseSynsetRelation(kind string) bool {
	_, ok := senseSynsetRelations[kind]
	return ok
}

// IsValidForDomain dispatches to the right table by domain.
func IsValidForDomain(domainKind domain.RelationDomain, kind string) bool {
	switch domainKind {
	case domain.DomainSynsetSynset:
		return IsValidSynsetRelation(kind)
	case domain.DomainSenseSense:
		return IsValidSenseRelation(kind)
	case domain.DomainSenseSynset:
		return IsValidSenseSynsetRelation(kind)
	}
	return false
}

// InverseOfSynset returns the inverse kind and whether one is defined.
func InverseOfSynset(kind string) (string, bool) {
	e, ok := synsetRelations[kind]
	if !ok {
		return "", false
	}
	return e.Inverse, true
}

// InverseOfSense returns the inverse kind and whether one is defined.
func InverseOfSense(kind string) (string, bool) {
	e, ok := senseRelations[kind]
	if !ok {
		return "", false
	}
	return e.Inverse, true
}

// InverseOf dispatches to the right table by domain. sense→synset relations
// never have an inverse.
func InverseOf(domainKind domain.RelationDomain, kind string) (string, bool) {
	switch domainKind {
	case domain.DomainSynsetSynset:
		return InverseOfSynset(kind)
	case domain.DomainSenseSense:
		return InverseOfSense(kind)
	default:
		return "", false
	}
}

// IsSymmetricSynset reports whether kind is its own inverse.
func IsSymmetricSynset(kind string) bool {
	inv, ok := InverseOfSynset(kind)
	return ok && inv == kind
}

// IsSymmetricSense reports whether kind is its own inverse.
func IsSymmetricSense(kind string) bool {
	inv, ok := InverseOfSense(kind)
	return ok && inv == kind
}

// IsSymmetric dispatches to the right table by domain.
func IsSymmetric(domainKind domain.RelationDomain, kind string) bool {
	switch domainKind {
	case domain.DomainSynsetSynset:
		return IsSymmetricSynset(kind)
	case domain.DomainSenseSense:
		return IsSymmetricSense(kind)
	default:
		return false
	}
}

// AllSynsetKinds returns every recognized synset↔synset relation kind.
func AllSynsetKinds() []string { return keys(synsetRelations) }

// AllSenseKinds returns every recognized sense↔sense relation kind.
func AllSenseKinds() []string { return keys(senseRelations) }

// AllSenseSynsetKinds returns every recognized sense→synset relation kind.
func AllSenseSynsetKinds() []string {
	out := make([]string, 0, len(senseSynsetRelations))
	for k := range senseSynsetRelations {
		out = append(out, k)
	}
	return out
}

func keys(m map[string]relationEntry) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// TaxonomicKinds are the kinds VAL-TAX-001 considers "is-a" hierarchy
// relations, where source and target are expected to share a POS.
var TaxonomicKinds = map[string]bool{
	"hypernym":          true,
	"hyponym":           true,
	"instance_hypernym": true,
	"instance_hyponym":  true,
}
