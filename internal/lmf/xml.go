package lmf

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wnedit/wnedit/internal/domain"
)

// No ecosystem library in the surveyed corpus parses or writes WN-LMF XML,
// so the codec is built directly on encoding/xml, the same way the corpus
// reaches for stdlib encoding packages for formats no third-party library
// covers (see DESIGN.md).

type xmlLexicalResource struct {
	XMLName xml.Name     `xml:"LexicalResource"`
	Lexicon []xmlLexicon `xml:"Lexicon"`
}

type xmlLexicon struct {
	ID       string                  `xml:"id,attr"`
	Version  string                  `xml:"version,attr"`
	Label    string                  `xml:"label,attr"`
	Language string                  `xml:"language,attr"`
	Email    string                  `xml:"email,attr"`
	License  string                  `xml:"license,attr"`
	URL      string                  `xml:"url,attr,omitempty"`
	Citation string                  `xml:"citation,attr,omitempty"`
	Logo     string                  `xml:"logo,attr,omitempty"`
	Meta     xmlMeta                 `xml:"meta,attr,omitempty"`
	Requires []xmlRequires           `xml:"Requires"`
	Extends  []xmlExtends            `xml:"Extends"`
	Entries  []xmlLexicalEntry       `xml:"LexicalEntry"`
	Synsets  []xmlSynset             `xml:"Synset"`
	Frames   []xmlSyntacticBehaviour `xml:"SyntacticBehaviour"`
}

type xmlRequires struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
	URL     string `xml:"url,attr,omitempty"`
}

type xmlExtends struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
}

// xmlMeta serializes arbitrary key/value metadata into a single
// attribute-friendly token string ("key=value;key=value"); WN-LMF's own
// <meta> extension point doesn't standardize a shape, so this mirrors the
// store's own metadata JSON blob through a flat encoding good enough for a
// round trip through this codec.
type xmlMeta string

type xmlLexicalEntry struct {
	ID                  string                       `xml:"id,attr"`
	Lemma               xmlLemma                     `xml:"Lemma"`
	Forms               []xmlForm                    `xml:"Form"`
	Senses              []xmlSense                   `xml:"Sense"`
	SyntacticBehaviours []xmlEntrySyntacticBehaviour `xml:"SyntacticBehaviour"`
	Meta                xmlMeta                      `xml:"meta,attr,omitempty"`
}

type xmlLemma struct {
	WrittenForm  string `xml:"writtenForm,attr"`
	PartOfSpeech string `xml:"partOfSpeech,attr"`
	Script       string `xml:"script,attr,omitempty"`
}

type xmlForm struct {
	WrittenForm    string             `xml:"writtenForm,attr"`
	Script         string             `xml:"script,attr,omitempty"`
	Pronunciations []xmlPronunciation `xml:"Pronunciation"`
	Tags           []xmlTag           `xml:"Tag"`
}

type xmlPronunciation struct {
	Value    string `xml:",chardata"`
	Variety  string `xml:"variety,attr,omitempty"`
	Notation string `xml:"notation,attr,omitempty"`
	Phonemic string `xml:"phonemic,attr,omitempty"`
	Audio    string `xml:"audio,attr,omitempty"`
}

type xmlTag struct {
	Value    string `xml:",chardata"`
	Category string `xml:"category,attr"`
}

// xmlEntrySyntacticBehaviour is the form WN-LMF 1.4 uses inside a
// LexicalEntry: a bare subcategorization frame reference naming the
// senses of that entry it governs.
type xmlEntrySyntacticBehaviour struct {
	SubcategorizationFrame string `xml:"subcategorizationFrame,attr"`
	Senses                 string `xml:"senses,attr"`
}

type xmlSense struct {
	ID              string        `xml:"id,attr"`
	Synset          string        `xml:"synset,attr"`
	AdjPosition     string        `xml:"adjposition,attr,omitempty"`
	Counts          []xmlCount    `xml:"Count"`
	Examples        []xmlExample  `xml:"Example"`
	SenseRelations  []xmlRelation `xml:"SenseRelation"`
	SynsetRelations []xmlRelation `xml:"SenseSynsetRelation"`
	Meta            xmlMeta       `xml:"meta,attr,omitempty"`
}

type xmlCount struct {
	Value string `xml:",chardata"`
}

type xmlRelation struct {
	RelType string  `xml:"relType,attr"`
	Target  string  `xml:"target,attr"`
	Meta    xmlMeta `xml:"meta,attr,omitempty"`
}

type xmlSynset struct {
	ID            string            `xml:"id,attr"`
	ILI           string            `xml:"ili,attr,omitempty"`
	PartOfSpeech  string            `xml:"partOfSpeech,attr"`
	Lexfile       string            `xml:"lexfile,attr,omitempty"`
	Definitions   []xmlDefinition   `xml:"Definition"`
	ILIDefinition *xmlILIDefinition `xml:"ILIDefinition"`
	Examples      []xmlExample      `xml:"Example"`
	Relations     []xmlRelation     `xml:"SynsetRelation"`
	Meta          xmlMeta           `xml:"meta,attr,omitempty"`
}

type xmlDefinition struct {
	Text        string `xml:",chardata"`
	Language    string `xml:"language,attr,omitempty"`
	SourceSense string `xml:"sourceSense,attr,omitempty"`
}

type xmlILIDefinition struct {
	Text string `xml:",chardata"`
}

type xmlExample struct {
	Text     string `xml:",chardata"`
	Language string `xml:"language,attr,omitempty"`
}

type xmlSyntacticBehaviour struct {
	ID    string `xml:"id,attr,omitempty"`
	Frame string `xml:"subcategorizationFrame,attr"`
}

// ParseXML decodes a WN-LMF 1.4 document into its lexicons in the
// intermediate shape, one per <Lexicon> element.
func ParseXML(r io.Reader) ([]Lexicon, error) {
	var doc xmlLexicalResource
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, domain.NewImportError("parse xml", err)
	}

	out := make([]Lexicon, 0, len(doc.Lexicon))
	for _, xl := range doc.Lexicon {
		out = append(out, lexiconFromXML(xl))
	}
	return out, nil
}

func lexiconFromXML(xl xmlLexicon) Lexicon {
	lex := Lexicon{
		ID: xl.ID, Version: xl.Version, Label: xl.Label, Language: xl.Language,
		Email: xl.Email, License: xl.License, URL: xl.URL, Citation: xl.Citation,
		Logo: xl.Logo, Metadata: decodeXMLMeta(xl.Meta),
	}
	for _, r := range xl.Requires {
		lex.Requires = append(lex.Requires, LexiconDependency{ID: r.ID, Version: r.Version, URL: r.URL})
	}
	for _, ext := range xl.Extends {
		lex.Extensions = append(lex.Extensions, LexiconExtension{ID: ext.ID, Version: ext.Version})
	}
	for _, sb := range xl.Frames {
		lex.Frames = append(lex.Frames, SyntacticBehaviour{ID: sb.ID, Frame: sb.Frame})
	}

	for _, xs := range xl.Synsets {
		syn := Synset{
			ID: xs.ID, PartOfSpeech: xs.PartOfSpeech, ILI: xs.ILI, Lexfile: xs.Lexfile,
			Metadata: decodeXMLMeta(xs.Meta),
		}
		for _, d := range xs.Definitions {
			syn.Definitions = append(syn.Definitions, Definition{Text: strings.TrimSpace(d.Text), Language: d.Language, SourceSense: d.SourceSense})
		}
		for _, ex := range xs.Examples {
			syn.Examples = append(syn.Examples, Example{Text: strings.TrimSpace(ex.Text), Language: ex.Language})
		}
		for _, rel := range xs.Relations {
			syn.Relations = append(syn.Relations, Relation{Kind: rel.RelType, Target: rel.Target, Metadata: decodeXMLMeta(rel.Meta)})
		}
		if xs.ILI == "in" && xs.ILIDefinition != nil {
			syn.ProposedILI = &ProposedILI{Definition: strings.TrimSpace(xs.ILIDefinition.Text)}
		}
		lex.Synsets = append(lex.Synsets, syn)
	}

	for _, xe := range xl.Entries {
		entry := Entry{ID: xe.ID, PartOfSpeech: xe.Lemma.PartOfSpeech, Metadata: decodeXMLMeta(xe.Meta)}
		entry.Forms = append(entry.Forms, Form{WrittenForm: xe.Lemma.WrittenForm, Script: xe.Lemma.Script})
		for _, xf := range xe.Forms {
			form := Form{WrittenForm: xf.WrittenForm, Script: xf.Script}
			for _, p := range xf.Pronunciations {
				form.Pronunciations = append(form.Pronunciations, Pronunciation{
					Value: strings.TrimSpace(p.Value), Variety: p.Variety, Notation: p.Notation,
					Phonemic: p.Phonemic == "" || p.Phonemic == "true", Audio: p.Audio,
				})
			}
			for _, t := range xf.Tags {
				form.Tags = append(form.Tags, Tag{Value: strings.TrimSpace(t.Value), Category: t.Category})
			}
			entry.Forms = append(entry.Forms, form)
		}

		for _, xsn := range xe.Senses {
			sense := Sense{ID: xsn.ID, SynsetID: xsn.Synset, AdjPosition: xsn.AdjPosition, Metadata: decodeXMLMeta(xsn.Meta)}
			for _, c := range xsn.Counts {
				if n, err := strconv.Atoi(strings.TrimSpace(c.Value)); err == nil {
					sense.Counts = append(sense.Counts, n)
				}
			}
			for _, ex := range xsn.Examples {
				sense.Examples = append(sense.Examples, Example{Text: strings.TrimSpace(ex.Text), Language: ex.Language})
			}
			for _, rel := range xsn.SenseRelations {
				sense.Relations = append(sense.Relations, Relation{Kind: rel.RelType, Target: rel.Target, Metadata: decodeXMLMeta(rel.Meta)})
			}
			for _, rel := range xsn.SynsetRelations {
				sense.SynsetRelations = append(sense.SynsetRelations, Relation{Kind: rel.RelType, Target: rel.Target, Metadata: decodeXMLMeta(rel.Meta)})
			}
			entry.Senses = append(entry.Senses, sense)
		}

		senseByID := make(map[string]int, len(entry.Senses))
		for i, s := range entry.Senses {
			senseByID[s.ID] = i
		}
		for _, xsb := range xe.SyntacticBehaviours {
			for _, senseID := range strings.Fields(xsb.Senses) {
				if i, ok := senseByID[senseID]; ok {
					entry.Senses[i].FrameIDs = append(entry.Senses[i].FrameIDs, xsb.SubcategorizationFrame)
				}
			}
		}

		lex.Entries = append(lex.Entries, entry)
	}

	return lex
}

// WriteXML encodes lexicons into a single WN-LMF 1.4 document.
func WriteXML(w io.Writer, lexicons []Lexicon) error {
	doc := xmlLexicalResource{}
	for _, lex := range lexicons {
		doc.Lexicon = append(doc.Lexicon, lexiconToXML(lex))
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return domain.NewExportError("write xml header", err)
	}
	if err := enc.Encode(doc); err != nil {
		return domain.NewExportError("encode xml", err)
	}
	return nil
}

func lexiconToXML(lex Lexicon) xmlLexicon {
	xl := xmlLexicon{
		ID: lex.ID, Version: lex.Version, Label: lex.Label, Language: lex.Language,
		Email: lex.Email, License: lex.License, URL: lex.URL, Citation: lex.Citation,
		Logo: lex.Logo, Meta: encodeXMLMeta(lex.Metadata),
	}
	for _, r := range lex.Requires {
		xl.Requires = append(xl.Requires, xmlRequires{ID: r.ID, Version: r.Version, URL: r.URL})
	}
	for _, ext := range lex.Extensions {
		xl.Extends = append(xl.Extends, xmlExtends{ID: ext.ID, Version: ext.Version})
	}
	for _, sb := range lex.Frames {
		xl.Frames = append(xl.Frames, xmlSyntacticBehaviour{ID: sb.ID, Frame: sb.Frame})
	}

	for _, syn := range lex.Synsets {
		xs := xmlSynset{ID: syn.ID, ILI: syn.ILI, PartOfSpeech: syn.PartOfSpeech, Lexfile: syn.Lexfile, Meta: encodeXMLMeta(syn.Metadata)}
		for _, d := range syn.Definitions {
			xs.Definitions = append(xs.Definitions, xmlDefinition{Text: d.Text, Language: d.Language, SourceSense: d.SourceSense})
		}
		for _, ex := range syn.Examples {
			xs.Examples = append(xs.Examples, xmlExample{Text: ex.Text, Language: ex.Language})
		}
		for _, rel := range syn.Relations {
			xs.Relations = append(xs.Relations, xmlRelation{RelType: rel.Kind, Target: rel.Target, Meta: encodeXMLMeta(rel.Metadata)})
		}
		if syn.ProposedILI != nil {
			xs.ILIDefinition = &xmlILIDefinition{Text: syn.ProposedILI.Definition}
		}
		xl.Synsets = append(xl.Synsets, xs)
	}

	for _, entry := range lex.Entries {
		xe := xmlLexicalEntry{ID: entry.ID, Meta: encodeXMLMeta(entry.Metadata)}
		var extraForms []Form
		if len(entry.Forms) > 0 {
			xe.Lemma = xmlLemma{WrittenForm: entry.Forms[0].WrittenForm, PartOfSpeech: entry.PartOfSpeech, Script: entry.Forms[0].Script}
			extraForms = entry.Forms[1:]
		}
		for _, form := range extraForms {
			xf := xmlForm{WrittenForm: form.WrittenForm, Script: form.Script}
			for _, p := range form.Pronunciations {
				phonemic := ""
				if !p.Phonemic {
					phonemic = "false"
				}
				xf.Pronunciations = append(xf.Pronunciations, xmlPronunciation{
					Value: p.Value, Variety: p.Variety, Notation: p.Notation, Phonemic: phonemic, Audio: p.Audio,
				})
			}
			for _, t := range form.Tags {
				xf.Tags = append(xf.Tags, xmlTag{Value: t.Value, Category: t.Category})
			}
			xe.Forms = append(xe.Forms, xf)
		}

		frameSenseIDs := make(map[string][]string)
		var frameOrder []string
		for _, sense := range entry.Senses {
			xsn := xmlSense{ID: sense.ID, Synset: sense.SynsetID, AdjPosition: sense.AdjPosition, Meta: encodeXMLMeta(sense.Metadata)}
			for _, c := range sense.Counts {
				xsn.Counts = append(xsn.Counts, xmlCount{Value: strconv.Itoa(c)})
			}
			for _, ex := range sense.Examples {
				xsn.Examples = append(xsn.Examples, xmlExample{Text: ex.Text, Language: ex.Language})
			}
			for _, rel := range sense.Relations {
				xsn.SenseRelations = append(xsn.SenseRelations, xmlRelation{RelType: rel.Kind, Target: rel.Target, Meta: encodeXMLMeta(rel.Metadata)})
			}
			for _, rel := range sense.SynsetRelations {
				xsn.SynsetRelations = append(xsn.SynsetRelations, xmlRelation{RelType: rel.Kind, Target: rel.Target, Meta: encodeXMLMeta(rel.Metadata)})
			}
			xe.Senses = append(xe.Senses, xsn)

			for _, frame := range sense.FrameIDs {
				if _, ok := frameSenseIDs[frame]; !ok {
					frameOrder = append(frameOrder, frame)
				}
				frameSenseIDs[frame] = append(frameSenseIDs[frame], sense.ID)
			}
		}
		for _, frame := range frameOrder {
			xe.SyntacticBehaviours = append(xe.SyntacticBehaviours, xmlEntrySyntacticBehaviour{
				SubcategorizationFrame: frame, Senses: strings.Join(frameSenseIDs[frame], " "),
			})
		}

		xl.Entries = append(xl.Entries, xe)
	}

	return xl
}

func decodeXMLMeta(m xmlMeta) domain.Metadata {
	if m == "" {
		return nil
	}
	out := domain.Metadata{}
	for _, pair := range strings.Split(string(m), ";") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

func encodeXMLMeta(m domain.Metadata) xmlMeta {
	if len(m) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, k+"="+toString(v))
	}
	return xmlMeta(strings.Join(parts, ";"))
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
