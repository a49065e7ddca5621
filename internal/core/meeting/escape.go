package meeting

import (
	"html"
	"strings"
)

// Escaper maps raw chat text to text that is safe to embed in one output format.
type Escaper func(string) string

// EscapeHTML escapes <, >, &, ' and ".
func EscapeHTML(s string) string { return html.EscapeString(s) }

// EscapeText leaves text untouched.
func EscapeText(s string) string { return s }

var rstReplacer = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	"`", "\\`",
	`_`, `\_`,
	`|`, `\|`,
)

// EscapeRST backslash-escapes characters that start RST inline markup.
func EscapeRST(s string) string { return rstReplacer.Replace(s) }

var mdReplacer = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	"`", "\\`",
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `&lt;`,
	`>`, `&gt;`,
	`#`, `\#`,
	`|`, `\|`,
)

// EscapeMarkdown backslash-escapes Markdown emphasis, link and heading markup.
func EscapeMarkdown(s string) string { return mdReplacer.Replace(s) }

const wikiSpecial = "[]{}|'<>=*#:;~&"

// EscapeWiki wraps text containing MediaWiki markup characters in <nowiki>.
func EscapeWiki(s string) string {
	if !strings.ContainsAny(s, wikiSpecial) {
		return s
	}
	s = strings.ReplaceAll(s, "</nowiki>", "&lt;/nowiki&gt;")
	return "<nowiki>" + s + "</nowiki>"
}

// DefaultEscaper returns the escaping primitive used for a format.
func DefaultEscaper(f Format) Escaper {
	switch f {
	case FormatHTMLLog, FormatHTML:
		return EscapeHTML
	case FormatRST:
		return EscapeRST
	case FormatWiki:
		return EscapeWiki
	case FormatMarkdown:
		return EscapeMarkdown
	default:
		return EscapeText
	}
}
