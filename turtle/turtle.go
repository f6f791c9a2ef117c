// Package turtle assembles Turtle documents and escapes the values placed in them.
package turtle

import (
	"fmt"
	"strings"
)

// MediaType is sent when a document is transmitted
const MediaType = "application/x-turtle"

// PrefixLine builds the parts-form prefix entry "prefix: <URI>".
func PrefixLine(prefix, uri string) string {
	return prefix + ": " + IRI(uri)
}

// Document writes one "@prefix p: <URI>." line per entry, a blank line and
// the body verbatim.
func Document(prefixes []string, data string) string {
	var b strings.Builder
	for _, p := range prefixes {
		b.WriteString("@prefix ")
		b.WriteString(p)
		b.WriteString(".\n")
	}
	b.WriteString("\n")
	b.WriteString(data)
	return b.String()
}

// Literal wraps s in double quotes, escaping it exactly once.
func Literal(s string) string {
	return `"` + EscapeString(s) + `"`
}

// EscapeString escapes backslash, double quote, CR, LF and TAB for use
// inside a short string literal. Invalid UTF-8 becomes U+FFFD.
func EscapeString(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if !strings.ContainsAny(s, "\\\"\n\r\t") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IRI wraps s in angle brackets. Characters not allowed in an IRIREF are
// written as \uXXXX escapes.
func IRI(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('<')
	for _, r := range s {
		if r <= 0x20 || strings.ContainsRune("<>\"{}|^`\\", r) {
			fmt.Fprintf(&b, `\u%04X`, r)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('>')
	return b.String()
}
