package ontology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/standoff/errors"
)

var wantPrefixes = []string{"rdfs", "owl", "ome", "cnt", "foaf"}

func prefixes(cfg *Config) []string {
	var out []string
	for _, ns := range cfg.Namespaces {
		out = append(out, ns.Prefix)
	}
	return out
}

func TestFileLoader_Formats(t *testing.T) {
	for _, name := range []string{"ontomedia-data.json", "ontomedia-data.toml", "ontomedia-data.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := NewFileLoader(filepath.Join("testdata", name)).Load()
			require.NoError(t, err)

			assert.Equal(t, "http://example.org/annotations/", cfg.BaseNamespace)
			assert.Equal(t, "1.4.0", cfg.Version)
			assert.Equal(t, wantPrefixes, prefixes(cfg), "document order is preserved")
			assert.Equal(t, "ome", cfg.CategoryMap["Person"])
			assert.Equal(t, "foaf", cfg.RelationshipMap["knows"])
			assert.Equal(t, "ome:has-occupation {1}", cfg.ExtendedMap["Occupation"])
			assert.Equal(t, `foaf:nick "{1}"`, cfg.StringLiterals["Nickname"])
			assert.Equal(t, "a ome:{1}", cfg.ClassLiterals["Role"])
			assert.Equal(t, filepath.Join("testdata", name), cfg.Source)

			uri, ok := cfg.NamespaceURI("foaf")
			assert.True(t, ok)
			assert.Equal(t, "http://xmlns.com/foaf/0.1/", uri)
		})
	}
}

func TestPredicateDefaults(t *testing.T) {
	cfg, err := NewFileLoader("testdata/ontomedia-data.json").Load()
	require.NoError(t, err)
	assert.Equal(t, Predicates{
		SameAs:   DefaultSameAs,
		ShadowOf: DefaultShadowOf,
		Label:    DefaultLabel,
		Chars:    DefaultChars,
	}, cfg.Predicates)

	cfg, err = NewFileLoader("testdata/ontomedia-data.toml").Load()
	require.NoError(t, err)
	assert.Equal(t, "ome:is-shadow-of", cfg.Predicates.ShadowOf, "document overrides win")
	assert.Equal(t, DefaultSameAs, cfg.Predicates.SameAs)
}

func TestDocumentNamespaceAndGraphPath(t *testing.T) {
	cfg := &Config{BaseNamespace: "http://example.org/a/", BaseURL: "/graphs/"}
	assert.Equal(t, "http://example.org/a/alice/story1/", cfg.DocumentNamespace("alice", "story1"))
	assert.Equal(t, "/graphs/user/alice/story1", cfg.GraphPath("alice", "story1"))
}

func TestFileLoader_Failures(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileLoader(filepath.Join(dir, "nope.json")).Load()
		require.Error(t, err)
		assert.True(t, errors.IsConfigUnavailable(err))
		assert.NotEmpty(t, errors.GetAllHints(err))
	})

	tests := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{"malformed json", "bad.json", `{"base_namespace": `, "decode JSON"},
		{"malformed yaml", "bad.yaml", "namespaces: [unclosed", "decode YAML"},
		{"malformed toml", "bad.toml", "base_namespace = ", "decode TOML"},
		{"namespaces not an object", "list.json", `{"base_namespace": "http://x/", "namespaces": ["a"]}`, "must be an object"},
		{"missing base namespace", "nobase.json", `{"namespaces": {"a": "http://a/"}}`, "base_namespace is required"},
		{"overlapping tables", "overlap.json", `{
			"base_namespace": "http://x/",
			"category_map": {"Person": "ome"},
			"class_literals": {"Person": "a ome:{1}"}
		}`, `"Person" appears in both category_map and class_literals`},
		{"prefix used as token", "prefix.yaml", "base_namespace: http://x/\nnamespaces:\n  ome: http://o/\nrelationship_map:\n  ome: foaf\n", "namespaces and relationship_map"},
		{"duplicate prefix", "dup.json", `{"base_namespace": "http://x/", "namespaces": {"a": "http://a/", "a": "http://b/"}}`, "declared twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := NewFileLoader(path).Load()
			require.Error(t, err)
			assert.True(t, errors.IsConfigUnavailable(err), "%v", err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatOf("ontomedia-data.json"))
	assert.Equal(t, FormatTOML, FormatOf("/etc/standoff/ontology.TOML"))
	assert.Equal(t, FormatYAML, FormatOf("o.yml"))
	assert.Equal(t, FormatJSON, FormatOf("ontology"))
}

func TestLint(t *testing.T) {
	cfg := &Config{
		BaseNamespace:   "http://x/",
		Namespaces:      []Namespace{{Prefix: "ome", URI: "http://o/"}},
		CategoryMap:     map[string]string{"Person": "ome", "Place": "geo"},
		RelationshipMap: map[string]string{},
		ExtendedMap:     map[string]string{"Occupation": "ome:has-occupation"},
		StringLiterals:  map[string]string{"Nickname": `foaf:nick "{1}"`},
		ClassLiterals:   map[string]string{},
	}

	assert.Equal(t, []string{
		"extended_rdf_map.Occupation: template has no {1} placeholder",
		"category_map.Place: prefix geo is not declared",
	}, cfg.Lint())
}

func TestCheckVersion(t *testing.T) {
	cfg := &Config{Version: "1.4.0", Source: "ontomedia-data.json"}

	assert.NoError(t, cfg.CheckVersion(""))
	assert.NoError(t, cfg.CheckVersion(">= 1.2, < 2"))
	assert.NoError(t, cfg.CheckVersion("~1.4"))

	err := cfg.CheckVersion(">= 2")
	require.Error(t, err)
	assert.True(t, errors.IsConfigUnavailable(err))
	assert.Contains(t, err.Error(), "does not satisfy")

	err = cfg.CheckVersion("!!nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ontology version constraint")

	unversioned := &Config{Source: "x.json"}
	err = unversioned.CheckVersion("^1")
	require.Error(t, err)
	assert.True(t, errors.IsConfigUnavailable(err))

	bad := &Config{Version: "one"}
	assert.True(t, errors.IsConfigUnavailable(bad.CheckVersion("^1")))
}
