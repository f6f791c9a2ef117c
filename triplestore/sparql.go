package triplestore

import (
	"strings"

	"github.com/teranos/standoff/convert"
	"github.com/teranos/standoff/turtle"
)

// InsertData composes a SPARQL INSERT DATA update from conversion parts.
// With a non-empty graph the statements go into that named graph.
func InsertData(out convert.Output, graph string) string {
	var b strings.Builder
	for _, p := range out.Prefixes {
		b.WriteString("PREFIX ")
		b.WriteString(p)
		b.WriteString("\n")
	}
	if len(out.Prefixes) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("INSERT DATA {\n")
	if graph != "" {
		b.WriteString("GRAPH ")
		b.WriteString(turtle.IRI(graph))
		b.WriteString(" {\n")
	}
	b.WriteString(out.Data)
	if graph != "" {
		b.WriteString("}\n")
	}
	b.WriteString("}\n")
	return b.String()
}
