// Package ontology holds the mapping document that drives conversion: the
// namespace prefixes, the token tables consulted by the resolver and the
// predicate vocabulary used for normalization and labels.
//
// A Config is read-only once loaded. Reloads build a new Config and swap
// it in (see Cache), so a conversion holding a snapshot never sees it change.
package ontology

import (
	"sort"
	"strings"

	"github.com/teranos/standoff/errors"
)

// Placeholder is the substitution point in extended and literal templates
const Placeholder = "{1}"

// Default predicates, used when the document does not override them
const (
	DefaultSameAs   = "owl:sameAs"
	DefaultShadowOf = "ome:shadow-of"
	DefaultLabel    = "rdfs:label"
	DefaultChars    = "cnt:chars"
)

// Namespace is one prefix declaration
type Namespace struct {
	Prefix string `json:"prefix"`
	URI    string `json:"uri"`
}

// Predicates names the fixed predicates the engine emits
type Predicates struct {
	SameAs   string `json:"same_as" yaml:"same_as" toml:"same_as"`
	ShadowOf string `json:"shadow_of" yaml:"shadow_of" toml:"shadow_of"`
	Label    string `json:"label" yaml:"label" toml:"label"`
	Chars    string `json:"chars" yaml:"chars" toml:"chars"`
}

// Config is a loaded ontology mapping document.
type Config struct {
	// BaseNamespace is the URI root; documents live under base + user + "/" + doc + "/"
	BaseNamespace string `json:"base_namespace"`
	// BaseURL is the graph path root on the triplestore
	BaseURL string `json:"base_url"`
	Version string `json:"version,omitempty"`

	// Namespaces keeps document order so prefix output is reproducible
	Namespaces []Namespace `json:"namespaces"`

	CategoryMap     map[string]string `json:"category_map"`
	RelationshipMap map[string]string `json:"relationship_map"`
	ExtendedMap     map[string]string `json:"extended_rdf_map"`
	StringLiterals  map[string]string `json:"string_literals"`
	ClassLiterals   map[string]string `json:"class_literals"`

	Predicates Predicates `json:"predicates"`

	// Source is the path or URL the document was read from
	Source string `json:"-"`
}

// NamespaceURI returns the URI bound to prefix
func (c *Config) NamespaceURI(prefix string) (string, bool) {
	for _, ns := range c.Namespaces {
		if ns.Prefix == prefix {
			return ns.URI, true
		}
	}
	return "", false
}

// DocumentNamespace returns the per-document namespace for a user's document
func (c *Config) DocumentNamespace(user, document string) string {
	return c.BaseNamespace + user + "/" + document + "/"
}

// GraphPath returns the triplestore path of a user's document graph
func (c *Config) GraphPath(user, document string) string {
	return c.BaseURL + "user/" + user + "/" + document
}

func (c *Config) applyDefaults() {
	if c.Predicates.SameAs == "" {
		c.Predicates.SameAs = DefaultSameAs
	}
	if c.Predicates.ShadowOf == "" {
		c.Predicates.ShadowOf = DefaultShadowOf
	}
	if c.Predicates.Label == "" {
		c.Predicates.Label = DefaultLabel
	}
	if c.Predicates.Chars == "" {
		c.Predicates.Chars = DefaultChars
	}
	for _, m := range []*map[string]string{
		&c.CategoryMap, &c.RelationshipMap, &c.ExtendedMap, &c.StringLiterals, &c.ClassLiterals,
	} {
		if *m == nil {
			*m = map[string]string{}
		}
	}
}

// Validate checks the structural invariants of a loaded document: a base
// namespace, unique prefixes and lookup tables with disjoint keys.
func (c *Config) Validate() error {
	if c.BaseNamespace == "" {
		return errors.WithHint(
			errors.New("base_namespace is required"),
			"set base_namespace to the URI root documents are minted under",
		)
	}

	owner := make(map[string]string)
	for _, ns := range c.Namespaces {
		if ns.Prefix == "" {
			return errors.New("namespace with empty prefix")
		}
		if prev, dup := owner[ns.Prefix]; dup {
			return errors.Newf("namespace prefix %q declared twice (%s)", ns.Prefix, prev)
		}
		owner[ns.Prefix] = "namespaces"
	}

	for _, table := range c.tables()[1:] {
		for _, key := range sortedKeys(table.entries) {
			if prev, dup := owner[key]; dup {
				return errors.Newf("token %q appears in both %s and %s", key, prev, table.name)
			}
			owner[key] = table.name
		}
	}
	return nil
}

// Lint returns non-fatal problems: templates without a placeholder and map
// entries whose prefix is not declared.
func (c *Config) Lint() []string {
	var warnings []string
	for _, table := range []namedTable{
		{"extended_rdf_map", c.ExtendedMap},
		{"string_literals", c.StringLiterals},
		{"class_literals", c.ClassLiterals},
	} {
		for _, key := range sortedKeys(table.entries) {
			if !strings.Contains(table.entries[key], Placeholder) {
				warnings = append(warnings, table.name+"."+key+": template has no "+Placeholder+" placeholder")
			}
		}
	}
	for _, table := range []namedTable{
		{"category_map", c.CategoryMap},
		{"relationship_map", c.RelationshipMap},
	} {
		for _, key := range sortedKeys(table.entries) {
			if _, ok := c.NamespaceURI(table.entries[key]); !ok {
				warnings = append(warnings, table.name+"."+key+": prefix "+table.entries[key]+" is not declared")
			}
		}
	}
	return warnings
}

type namedTable struct {
	name    string
	entries map[string]string
}

// tables lists the lookup tables in resolution order; namespaces first.
func (c *Config) tables() []namedTable {
	ns := make(map[string]string, len(c.Namespaces))
	for _, n := range c.Namespaces {
		ns[n.Prefix] = n.URI
	}
	return []namedTable{
		{"namespaces", ns},
		{"category_map", c.CategoryMap},
		{"relationship_map", c.RelationshipMap},
		{"extended_rdf_map", c.ExtendedMap},
		{"string_literals", c.StringLiterals},
		{"class_literals", c.ClassLiterals},
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
