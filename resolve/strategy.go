package resolve

import (
	"strings"

	"github.com/teranos/standoff/ontology"
)

// Strategy is one resolution tier. TryResolve receives a sanitized key.
type Strategy interface {
	Name() string
	TryResolve(key string) (Symbol, bool)
}

// Expander is a Strategy that owns parametrized templates
type Expander interface {
	Strategy
	// TemplateFor returns the raw template for key
	TemplateFor(key string) (string, bool)
	// Fill substitutes filler into template; entity is set when filler is
	// an IRI or prefixed name rather than free text
	Fill(template, filler string, entity bool) string
}

// NamespaceStrategy resolves a prefix to its URI
type NamespaceStrategy struct {
	uris map[string]string
}

func NewNamespaceStrategy(namespaces []ontology.Namespace) *NamespaceStrategy {
	uris := make(map[string]string, len(namespaces))
	for _, ns := range namespaces {
		uris[ns.Prefix] = ns.URI
	}
	return &NamespaceStrategy{uris: uris}
}

func (s *NamespaceStrategy) Name() string { return "namespaces" }

func (s *NamespaceStrategy) TryResolve(key string) (Symbol, bool) {
	uri, ok := s.uris[key]
	if !ok {
		return Symbol{}, false
	}
	return Symbol{Kind: Resolved, Value: uri, Tier: s.Name()}, true
}

// PrefixedStrategy resolves token to "prefix:token" through a token→prefix table
type PrefixedStrategy struct {
	name  string
	table map[string]string
}

func NewPrefixedStrategy(name string, table map[string]string) *PrefixedStrategy {
	return &PrefixedStrategy{name: name, table: table}
}

func (s *PrefixedStrategy) Name() string { return s.name }

func (s *PrefixedStrategy) TryResolve(key string) (Symbol, bool) {
	prefix, ok := s.table[key]
	if !ok {
		return Symbol{}, false
	}
	return Symbol{Kind: Resolved, Value: prefix + ":" + key, Tier: s.name}, true
}

// TemplateStrategy answers Unmatched for its tokens and expands their templates
type TemplateStrategy struct {
	name      string
	table     map[string]string
	transform Transform
}

// Transform rewrites a filler before substitution
type Transform func(filler string, entity bool) string

// NewTemplateStrategy creates a template tier. transform may be nil.
func NewTemplateStrategy(name string, table map[string]string, transform Transform) *TemplateStrategy {
	return &TemplateStrategy{name: name, table: table, transform: transform}
}

func (s *TemplateStrategy) Name() string { return s.name }

func (s *TemplateStrategy) TryResolve(key string) (Symbol, bool) {
	if _, ok := s.table[key]; !ok {
		return Symbol{}, false
	}
	return Symbol{Kind: Unmatched, Value: key, Tier: s.name}, true
}

func (s *TemplateStrategy) TemplateFor(key string) (string, bool) {
	tmpl, ok := s.table[key]
	return tmpl, ok
}

func (s *TemplateStrategy) Fill(template, filler string, entity bool) string {
	if s.transform != nil {
		filler = s.transform(filler, entity)
	}
	return strings.ReplaceAll(template, ontology.Placeholder, filler)
}

// DefaultStrategies builds the tiers of cfg in resolution order.
func DefaultStrategies(cfg *ontology.Config) []Strategy {
	return []Strategy{
		NewNamespaceStrategy(cfg.Namespaces),
		NewPrefixedStrategy("category_map", cfg.CategoryMap),
		NewPrefixedStrategy("relationship_map", cfg.RelationshipMap),
		NewTemplateStrategy("extended_rdf_map", cfg.ExtendedMap, extendedFiller),
		NewTemplateStrategy("string_literals", cfg.StringLiterals, literalFiller),
		NewTemplateStrategy("class_literals", cfg.ClassLiterals, camelCaseFiller),
	}
}
