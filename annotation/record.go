// Package annotation parses standoff annotation lines (brat .ann style) into
// typed records.
//
// Each non-empty line starts with a discriminator selecting the record kind:
//
//	T1	Person 0 5	Alice                 text span
//	E1	Attack:T2 Attacker:T1 Target:T3     event
//	R1	knows Arg1:T1 Arg2:T3               relation
//	N1	Reference T1 gnd:118540238	Ada     normalization
//	A1	Role T1 Guard                       attribute
//
// Fields are separated by runs of whitespace. Lines that cannot form a record
// fail with an error marked errors.ErrMalformedRecord.
package annotation

import (
	"fmt"
)

// Kind is the record discriminator
type Kind byte

const (
	KindTextSpan      Kind = 'T'
	KindEvent         Kind = 'E'
	KindRelation      Kind = 'R'
	KindNormalization Kind = 'N'
	KindAttribute     Kind = 'A'
)

func (k Kind) String() string {
	switch k {
	case KindTextSpan:
		return "text_span"
	case KindEvent:
		return "event"
	case KindRelation:
		return "relation"
	case KindNormalization:
		return "normalization"
	case KindAttribute:
		return "attribute"
	default:
		return fmt.Sprintf("unknown(%q)", byte(k))
	}
}

// Record is one parsed annotation line. The set of implementations is closed:
// *TextSpan, *Event, *Relation, *Normalization and *Attribute.
type Record interface {
	Kind() Kind
	// Line is the 1-based source line number
	Line() int
	// RecordID is the annotation identifier, the first field of the line
	RecordID() string

	isRecord()
}

// header holds what every record shares
type header struct {
	LineNo int    `json:"line"`
	ID     string `json:"id"`
	Type   string `json:"type"`
}

func (h header) Line() int        { return h.LineNo }
func (h header) RecordID() string { return h.ID }
func (header) isRecord()          {}

// TextSpan marks a run of document text with an entity type
type TextSpan struct {
	header
	Start string `json:"start"`
	End   string `json:"end"`
	// Text is the covered text, fields joined by single spaces; may be empty
	Text string `json:"text"`
}

func (*TextSpan) Kind() Kind { return KindTextSpan }

// Argument is a role:reference pair
type Argument struct {
	Role string `json:"role"`
	Ref  string `json:"ref"`
}

// Event is a typed event anchored on a trigger span
type Event struct {
	header
	Trigger string     `json:"trigger"`
	Args    []Argument `json:"args,omitempty"`
}

func (*Event) Kind() Kind { return KindEvent }

// Relation links two annotations with a typed edge
type Relation struct {
	header
	Arg1 Argument `json:"arg1"`
	Arg2 Argument `json:"arg2"`
}

func (*Relation) Kind() Kind { return KindRelation }

// Normalization ties an annotation to an entry in a normalization database
type Normalization struct {
	header
	Target string `json:"target"`
	DB     string `json:"db"`
	NormID string `json:"norm_id"`
	Text   string `json:"text,omitempty"`
}

func (*Normalization) Kind() Kind { return KindNormalization }

// Attribute qualifies an annotation with a type and free-form values
type Attribute struct {
	header
	Target string   `json:"target"`
	Values []string `json:"values"`
}

func (*Attribute) Kind() Kind { return KindAttribute }
