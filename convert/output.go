package convert

import (
	"time"

	"github.com/teranos/standoff/turtle"
)

// Output is a conversion in parts form: the prefix declarations and the
// statement body. Callers composing SPARQL use the parts; everything else
// uses Document.
type Output struct {
	Prefixes []string `json:"prefixes"`
	Data     string   `json:"data"`
}

// Document flattens the parts into a Turtle document
func (o *Output) Document() string {
	return turtle.Document(o.Prefixes, o.Data)
}

// Empty reports whether no statements were produced
func (o *Output) Empty() bool {
	return o.Data == ""
}

// Stats summarizes one conversion
type Stats struct {
	Lines    int            `json:"lines"`
	Records  map[string]int `json:"records"`
	Skipped  int            `json:"skipped"`
	Deferred int            `json:"deferred_entities"`
}

// Result is a finished conversion. GraphPath is the document graph's path
// relative to the triplestore endpoint.
type Result struct {
	ConversionID string        `json:"conversion_id"`
	User         string        `json:"user"`
	Document     string        `json:"document"`
	Namespace    string        `json:"namespace"`
	GraphPath    string        `json:"graph_path"`
	Output       Output        `json:"output"`
	Stats        Stats         `json:"stats"`
	Duration     time.Duration `json:"duration_ns"`
}
