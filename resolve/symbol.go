// Package resolve maps annotation type tokens onto ontology vocabulary.
//
// A Resolver walks an ordered list of strategies, one per ontology table.
// Plain tiers turn a token into a URI or prefixed name. Template tiers answer
// Unmatched, telling the caller to build the statement with Expand instead.
// Tokens are sanitized before lookup and before they reach any output.
package resolve

import (
	"strings"
)

// Kind classifies a resolution result
type Kind int

const (
	// Resolved carries a URI or prefixed name ready for output
	Resolved Kind = iota
	// Template carries an unexpanded snippet with one placeholder
	Template
	// Unmatched means no plain mapping; expand through the template tiers
	Unmatched
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case Template:
		return "template"
	default:
		return "unmatched"
	}
}

// Symbol is the outcome of resolving one token
type Symbol struct {
	Kind  Kind
	Value string
	// Tier names the strategy that matched; empty for pass-through tokens
	Tier string
}

// PassThrough reports whether no table knew the token and Value is the
// sanitized token itself.
func (s Symbol) PassThrough() bool {
	return s.Kind == Resolved && s.Tier == ""
}

// Empty reports whether sanitizing left nothing to resolve
func (s Symbol) Empty() bool {
	return s.Kind == Unmatched && s.Value == ""
}

// Sanitize keeps ASCII letters, digits, underscore and hyphen.
func Sanitize(token string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) || r == '-' {
			return r
		}
		return -1
	}, token)
}

// lettersOnly keeps ASCII letters, underscore and hyphen
func lettersOnly(token string) string {
	return strings.Map(func(r rune) rune {
		if isLetter(r) || r == '_' || r == '-' {
			return r
		}
		return -1
	}, token)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isWordRune(r rune) bool {
	return isLetter(r) || (r >= '0' && r <= '9') || r == '_'
}

// CamelCase turns free text into a class local name: characters other than
// letters, digits, space, hyphen and underscore are dropped, each word is
// capitalized and spaces are removed. "night watch" becomes "NightWatch".
// A letter is uppercased when the preceding character is not a letter, so
// "x-ray" becomes "X-Ray" and "3rd" becomes "3Rd".
func CamelCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case isLetter(r):
			if prevLetter {
				b.WriteRune(toLower(r))
			} else {
				b.WriteRune(toUpper(r))
			}
			prevLetter = true
		case r == ' ':
			prevLetter = false
		case (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}
