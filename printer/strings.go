package printer

import (
	"strings"

	"github.com/bblfsh/codemod/estree"
)

// stringLiteral renders a string with the preferred quotes. The raw source is reused when
// available to keep the escapes the author wrote.
func (p *printer) stringLiteral(v, raw string) string {
	var content string
	if n := len(raw); n >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[n-1] == raw[0] {
		content = raw[1 : n-1]
	} else {
		q := estree.QuoteString(v, '"')
		content = q[1 : len(q)-1]
	}
	return makeString(content, p.preferredQuote(content))
}

func (p *printer) preferredQuote(content string) byte {
	preferred, alternate := byte('"'), byte('\'')
	if p.opts.SingleQuote {
		preferred, alternate = alternate, preferred
	}
	if strings.Count(content, string(preferred)) > strings.Count(content, string(alternate)) {
		return alternate
	}
	return preferred
}

// isKeptEscape reports if a backslash before the character changes the meaning of the string.
func isKeptEscape(c byte) bool {
	switch {
	case c >= '0' && c <= '7':
		return true
	case c >= 0x80:
		// multi-byte characters, including line separators
		return true
	}
	switch c {
	case '\n', '\r', '"', '\'', '\\', 'b', 'f', 'n', 'r', 't', 'u', 'v', 'x':
		return true
	}
	return false
}

// makeString wraps the raw string content into the quotes, escaping the enclosing quote and
// dropping escapes of the other quote and other unnecessary escapes.
func makeString(content string, quote byte) string {
	other := byte('"')
	if quote == '"' {
		other = '\''
	}
	var buf strings.Builder
	buf.Grow(len(content) + 2)
	buf.WriteByte(quote)
	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '\\' && i+1 < len(content):
			next := content[i+1]
			i++
			switch {
			case next == other:
				buf.WriteByte(next)
			case next == quote || isKeptEscape(next):
				buf.WriteByte('\\')
				buf.WriteByte(next)
			default:
				buf.WriteByte(next)
			}
		case c == quote:
			buf.WriteByte('\\')
			buf.WriteByte(c)
		default:
			buf.WriteByte(c)
		}
	}
	buf.WriteByte(quote)
	return buf.String()
}
