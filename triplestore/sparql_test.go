package triplestore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/standoff/convert"
)

func TestInsertData(t *testing.T) {
	out := convert.Output{
		Prefixes: []string{
			"rdfs: <http://www.w3.org/2000/01/rdf-schema#>",
			"ome: <http://purl.org/ontomedia/core/expression#>",
		},
		Data: "<http://ex.org/T1>\n\ta ome:Person .\n\n",
	}

	tests := []struct {
		name  string
		out   convert.Output
		graph string
		want  string
	}{
		{
			name:  "named graph",
			out:   out,
			graph: "http://ex.org/user/alice/story",
			want: "PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>\n" +
				"PREFIX ome: <http://purl.org/ontomedia/core/expression#>\n\n" +
				"INSERT DATA {\nGRAPH <http://ex.org/user/alice/story> {\n" +
				"<http://ex.org/T1>\n\ta ome:Person .\n\n" +
				"}\n}\n",
		},
		{
			name: "default graph",
			out:  out,
			want: "PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>\n" +
				"PREFIX ome: <http://purl.org/ontomedia/core/expression#>\n\n" +
				"INSERT DATA {\n" +
				"<http://ex.org/T1>\n\ta ome:Person .\n\n" +
				"}\n",
		},
		{
			name: "no prefixes",
			out:  convert.Output{Data: "<a> <b> <c> .\n"},
			want: "INSERT DATA {\n<a> <b> <c> .\n}\n",
		},
		{
			name:  "graph IRI escaped",
			out:   convert.Output{Data: "<a> <b> <c> .\n"},
			graph: "http://ex.org/a b",
			want:  "INSERT DATA {\nGRAPH <http://ex.org/a\\u0020b> {\n<a> <b> <c> .\n}\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InsertData(tt.out, tt.graph))
		})
	}
}
