package resolve

import (
	"strings"

	"github.com/teranos/standoff/ontology"
	"github.com/teranos/standoff/turtle"
)

// Resolver resolves tokens for one document namespace. It holds no mutable
// state and may be shared by concurrent callers of the same document.
type Resolver struct {
	strategies []Strategy
	categories map[string]string
	namespace  string
}

// New builds a resolver over cfg's tables for documents under namespace.
func New(cfg *ontology.Config, namespace string) *Resolver {
	return NewWithStrategies(DefaultStrategies(cfg), cfg.CategoryMap, namespace)
}

// NewWithStrategies builds a resolver from explicit tiers. categories is
// consulted when an entity reference fills a template.
func NewWithStrategies(strategies []Strategy, categories map[string]string, namespace string) *Resolver {
	return &Resolver{strategies: strategies, categories: categories, namespace: namespace}
}

// Namespace returns the document namespace
func (r *Resolver) Namespace() string {
	return r.namespace
}

// Resolve classifies token. The token is sanitized first; a token with
// nothing left is Unmatched with an empty Value. Unknown tokens pass through
// as Resolved with no tier.
func (r *Resolver) Resolve(token string) Symbol {
	key := Sanitize(token)
	if key == "" {
		return Symbol{Kind: Unmatched}
	}
	for _, s := range r.strategies {
		if sym, ok := s.TryResolve(key); ok {
			return sym
		}
	}
	return Symbol{Kind: Resolved, Value: key}
}

// Template returns the raw template for token from the first template tier
// that has one.
func (r *Resolver) Template(token string) (Symbol, bool) {
	key := Sanitize(token)
	for _, s := range r.strategies {
		if e, ok := s.(Expander); ok {
			if tmpl, ok := e.TemplateFor(key); ok {
				return Symbol{Kind: Template, Value: tmpl, Tier: e.Name()}, true
			}
		}
	}
	return Symbol{}, false
}

// Filler is what a template placeholder is filled with
type Filler interface {
	text(r *Resolver) (s string, entity bool)
}

type valueFiller []string

func (v valueFiller) text(*Resolver) (string, bool) {
	return strings.TrimSpace(strings.Join(v, " ")), false
}

// Value fills with free-form text, words joined by single spaces and trimmed
func Value(words ...string) Filler {
	return valueFiller(words)
}

type entityFiller string

// An entity whose letters form a category becomes that category's prefixed
// name; anything else is an IRI in the document namespace.
func (e entityFiller) text(r *Resolver) (string, bool) {
	if letters := lettersOnly(string(e)); letters != "" {
		if prefix, ok := r.categories[letters]; ok {
			return prefix + ":" + letters, true
		}
	}
	return r.IRI(string(e)), true
}

// Entity fills with a reference to another annotation or category
func Entity(id string) Filler {
	return entityFiller(id)
}

// Expand builds the statement fragment for token from the template tiers,
// tried in order. Without a template the result is "token filler".
func (r *Resolver) Expand(token string, filler Filler) string {
	key := Sanitize(token)
	text, entity := filler.text(r)
	for _, s := range r.strategies {
		if e, ok := s.(Expander); ok {
			if tmpl, ok := e.TemplateFor(key); ok {
				return e.Fill(tmpl, text, entity)
			}
		}
	}
	if !entity {
		text = stripStatementBreakers(text)
	}
	return key + " " + text
}

// IRI returns the namespace IRI of a local identifier, sanitized.
func (r *Resolver) IRI(id string) string {
	return turtle.IRI(r.namespace + Sanitize(id))
}

// stripStatementBreakers drops characters that could end or restructure the
// surrounding statement when free text is spliced in unquoted.
func stripStatementBreakers(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune("<>\"{}|^`\\;", r) {
			return -1
		}
		return r
	}, s)
}

func extendedFiller(filler string, entity bool) string {
	if entity {
		return filler
	}
	return stripStatementBreakers(filler)
}

func literalFiller(filler string, _ bool) string {
	return turtle.EscapeString(filler)
}

func camelCaseFiller(filler string, _ bool) string {
	return CamelCase(filler)
}
