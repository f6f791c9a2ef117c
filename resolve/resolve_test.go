package resolve

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/standoff/ontology"
)

const ns = "http://example.org/annotations/alice/story/"

func testConfig() *ontology.Config {
	return &ontology.Config{
		BaseNamespace: "http://example.org/annotations/",
		Namespaces: []ontology.Namespace{
			{Prefix: "ome", URI: "http://purl.org/ontomedia/core/expression#"},
			{Prefix: "foaf", URI: "http://xmlns.com/foaf/0.1/"},
		},
		CategoryMap:     map[string]string{"Person": "ome", "Location": "ome"},
		RelationshipMap: map[string]string{"knows": "foaf"},
		ExtendedMap:     map[string]string{"Occupation": "ome:has-occupation {1}"},
		StringLiterals:  map[string]string{"Nickname": `foaf:nick "{1}"`},
		ClassLiterals:   map[string]string{"Role": "a ome:{1}"},
	}
}

func TestResolve(t *testing.T) {
	r := New(testConfig(), ns)

	tests := []struct {
		token string
		want  Symbol
	}{
		{"ome", Symbol{Kind: Resolved, Value: "http://purl.org/ontomedia/core/expression#", Tier: "namespaces"}},
		{"Person", Symbol{Kind: Resolved, Value: "ome:Person", Tier: "category_map"}},
		{"knows", Symbol{Kind: Resolved, Value: "foaf:knows", Tier: "relationship_map"}},
		{"Occupation", Symbol{Kind: Unmatched, Value: "Occupation", Tier: "extended_rdf_map"}},
		{"Nickname", Symbol{Kind: Unmatched, Value: "Nickname", Tier: "string_literals"}},
		{"Role", Symbol{Kind: Unmatched, Value: "Role", Tier: "class_literals"}},
		{"Vehicle", Symbol{Kind: Resolved, Value: "Vehicle"}},
		{"Per<son>", Symbol{Kind: Resolved, Value: "ome:Person", Tier: "category_map"}},
		{"Person2", Symbol{Kind: Resolved, Value: "Person2"}},
		{"<>\";", Symbol{Kind: Unmatched}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.token))
		})
	}
}

func TestSymbolPredicates(t *testing.T) {
	r := New(testConfig(), ns)
	assert.True(t, r.Resolve("Vehicle").PassThrough())
	assert.False(t, r.Resolve("Person").PassThrough())
	assert.False(t, r.Resolve("Role").PassThrough())
	assert.True(t, r.Resolve(";;").Empty())
	assert.False(t, r.Resolve("Role").Empty())
}

func TestSanitize_NeverLeaksSyntax(t *testing.T) {
	for _, token := range []string{"A<b>", `x"y`, "a;b", "new\nline", "tab\there", "ü-ber_1"} {
		out := Sanitize(token)
		assert.False(t, strings.ContainsAny(out, "<>\";\n\t "), "%q -> %q", token, out)
	}
	assert.Equal(t, "-ber_1", Sanitize("ü-ber_1"))
}

func TestExpand(t *testing.T) {
	r := New(testConfig(), ns)

	tests := []struct {
		name   string
		token  string
		filler Filler
		want   string
	}{
		{"extended with value", "Occupation", Value(" blacksmith "), "ome:has-occupation blacksmith"},
		{"extended strips statement breakers", "Occupation", Value(`smith>"; ex:evil`), "ome:has-occupation smith ex:evil"},
		{"extended with entity", "Occupation", Entity("T7"), "ome:has-occupation <" + ns + "T7>"},
		{"entity naming a category", "Occupation", Entity("Person1"), "ome:has-occupation ome:Person"},
		{"string literal escapes quotes", "Nickname", Value("the", `"Bard"`), `foaf:nick "the \"Bard\""`},
		{"class literal camel case", "Role", Value("night", "watch", "captain"), "a ome:NightWatchCaptain"},
		{"class literal filters", "Role", Value("x-ray's", "3rd", "man!"), "a ome:X-Rays3RdMan"},
		{"no template", "Vehicle", Value("red", "car"), "Vehicle red car"},
		{"no template sanitizes token", "Ve<hi>cle", Entity("T1"), "Vehicle <" + ns + "T1>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Expand(tt.token, tt.filler))
		})
	}
}

func TestTemplate(t *testing.T) {
	r := New(testConfig(), ns)

	sym, ok := r.Template("Nickname")
	require.True(t, ok)
	assert.Equal(t, Symbol{Kind: Template, Value: `foaf:nick "{1}"`, Tier: "string_literals"}, sym)

	_, ok = r.Template("Person")
	assert.False(t, ok)
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "NightWatch", CamelCase("night watch"))
	assert.Equal(t, "NightWatch", CamelCase("NIGHT   WATCH"))
	assert.Equal(t, "X-Ray", CamelCase("x-ray"))
	assert.Equal(t, "Snake_Case", CamelCase("snake_case"))
	assert.Equal(t, "3Rd", CamelCase("3rd"))
	assert.Equal(t, "", CamelCase("!?"))
}

func TestIRI(t *testing.T) {
	r := New(testConfig(), ns)
	assert.Equal(t, "<"+ns+"T1>", r.IRI("T1"))
	assert.Equal(t, "<"+ns+"T1evil>", r.IRI("T1> <evil"))
}

type upperStrategy struct{}

func (upperStrategy) Name() string { return "upper" }

func (upperStrategy) TryResolve(key string) (Symbol, bool) {
	if strings.ToUpper(key) != key {
		return Symbol{}, false
	}
	return Symbol{Kind: Resolved, Value: "ex:" + strings.ToLower(key), Tier: "upper"}, true
}

func TestCustomStrategyOrder(t *testing.T) {
	cfg := testConfig()
	strategies := append([]Strategy{upperStrategy{}}, DefaultStrategies(cfg)...)
	r := NewWithStrategies(strategies, cfg.CategoryMap, ns)

	assert.Equal(t, "ex:gpe", r.Resolve("GPE").Value)
	assert.Equal(t, "ome:Person", r.Resolve("Person").Value)
}
