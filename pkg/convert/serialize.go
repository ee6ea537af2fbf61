package convert

import (
	"fmt"
	"strings"
)

// Serialize reassembles a transformed token list into a single string. The
// result is not pretty-printed; canonical formatting happens after the
// orchestrator's validation re-parse.
func Serialize(tokens []Token) string {
	var b strings.Builder

	for _, tok := range tokens {
		if tok.Kind == KindString {
			b.WriteByte('"')
			writeEscaped(&b, tok.Value)
			b.WriteByte('"')
			continue
		}
		b.WriteString(tok.Value)
	}

	return b.String()
}

// writeEscaped writes s with JSON string escaping applied. Characters are
// assumed already decoded by the tokenizer, so everything outside the escape
// set is emitted verbatim.
func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
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
			if c < 0x20 {
				fmt.Fprintf(b, `\u%04x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
}
