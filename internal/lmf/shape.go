// Package lmf implements the intermediate dictionary shape shared by the
// Importer and Exporter, the WN-LMF 1.4 XML codec built on it, and the
// bulk import/export pipelines that move data between that shape and the
// store.
package lmf

// Lexicon is one "<Lexicon>" dictionary: its metadata plus every synset,
// entry, and syntactic-behaviour frame it owns. This is the unit the
// Importer consumes and the Exporter produces — identical on both sides,
// so a round trip through Export then Import is lossless for every field
// this shape carries.
type Lexicon struct {
	ID         string
	Version    string
	Label      string
	Language   string
	Email      string
	License    string
	URL        string
	Citation   string
	Logo       string
	Metadata   map[string]any
	Requires   []LexiconDependency
	Extensions []LexiconExtension
	Synsets    []Synset
	Entries    []Entry
	Frames     []SyntacticBehaviour
}

// LexiconDependency names a lexicon this one requires at a given version.
type LexiconDependency struct {
	ID      string
	Version string
	URL     string
}

// LexiconExtension names a lexicon this one extends at a given version.
type LexiconExtension struct {
	ID      string
	Version string
}

// Synset is one concept: its part of speech, ILI binding, definitions,
// examples, and outgoing synset-to-synset relations.
type Synset struct {
	ID           string
	PartOfSpeech string
	ILI          string // "" = none, "in" = proposed
	Lexfile      string
	Lexicalized  bool
	Metadata     map[string]any
	Definitions  []Definition
	Examples     []Example
	ProposedILI  *ProposedILI
	Relations    []Relation
}

// ProposedILI is a not-yet-allocated ILI placeholder bound to one synset.
type ProposedILI struct {
	Definition string
	Metadata   map[string]any
}

// Definition is synset-owned prose text, in insertion order.
type Definition struct {
	Text        string
	Language    string
	SourceSense string
	Metadata    map[string]any
}

// Example is usage text owned by a synset or a sense, in insertion order.
type Example struct {
	Text     string
	Language string
	Metadata map[string]any
}

// Relation is a directed, typed edge to another entity, named by that
// entity's business id. The owning side (Synset.Relations,
// Sense.Relations, Sense.SynsetRelations) determines the domain.
type Relation struct {
	Kind     string
	Target   string
	Metadata map[string]any
}

// Entry is a lemma plus part of speech, its additional forms, and the
// senses binding it to synsets.
type Entry struct {
	ID           string
	PartOfSpeech string
	Metadata     map[string]any
	Forms        []Form
	Senses       []Sense
}

// Form is a written rendering of an entry; index 0 in Entry.Forms is the
// lemma (rank 0).
type Form struct {
	WrittenForm    string
	Script         string
	Pronunciations []Pronunciation
	Tags           []Tag
}

// Pronunciation is a phonetic rendering attached to a form.
type Pronunciation struct {
	Value    string
	Variety  string
	Notation string
	Phonemic bool
	Audio    string
}

// Tag is an arbitrary categorized annotation attached to a form.
type Tag struct {
	Value    string
	Category string
}

// Sense binds an entry to a synset, named by the synset's business id —
// resolved within the current import batch first, else against the
// store, by the Importer.
type Sense struct {
	ID              string
	SynsetID        string
	AdjPosition     string
	Metadata        map[string]any
	Counts          []int
	Examples        []Example
	Relations       []Relation // sense-to-sense
	SynsetRelations []Relation // sense-to-synset
	FrameIDs        []string   // frame texts of the syntactic behaviours this sense participates in
}

// SyntacticBehaviour is a verb-frame template shared by the senses in
// SenseIDs.
type SyntacticBehaviour struct {
	ID       string
	Frame    string
	SenseIDs []string
}
