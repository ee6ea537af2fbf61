package convert

import "strings"

// The tokenizer is a single left-to-right scan with one piece of context: is
// the cursor currently in a value position? That flag is true at the start of
// input and immediately after a colon, a comma, or an opening '[', and it
// resolves the three constructs that are only legal where a value is
// expected: bracketed tag paths, u-prefixed strings, and unquoted date
// phrases.
//
// Each recognizer is a free function taking an explicit position and
// returning (token, next position) so it can be unit-tested on its own.
// The tokenizer is lenient: it never fails, it always advances, and
// malformed input simply produces the best partial reading. Validity is
// decided later, when the assembled output is re-parsed.

// compositeLexicon holds the 3-letter weekday and month abbreviations that
// mark the start of an unquoted date phrase such as
// "Thu Jan 01 00:00:00 CST 1970".
var compositeLexicon = map[string]bool{
	"Mon": true, "Tue": true, "Wed": true, "Thu": true, "Fri": true,
	"Sat": true, "Sun": true,
	"Jan": true, "Feb": true, "Mar": true, "Apr": true, "May": true,
	"Jun": true, "Jul": true, "Aug": true, "Sep": true, "Oct": true,
	"Nov": true, "Dec": true,
}

// keywordTable maps repr keyword spellings to their JSON equivalents. The
// lowercase JSON spellings map to themselves so that already-valid keywords
// are tagged as keywords and never re-quoted.
var keywordTable = map[string]string{
	"True":  "true",
	"False": "false",
	"None":  "null",
	"true":  "true",
	"false": "false",
	"null":  "null",
}

// Tokenize scans input and returns an ordered token list. Every character of
// input belongs to exactly one token's Raw span, except characters the
// scanner classifies as unrecognized and skips.
func Tokenize(input string) []Token {
	tokens := make([]Token, 0, 32)
	valuePos := true
	i := 0

	for i < len(input) {
		c := input[i]

		switch {
		case isSpace(c):
			var tok Token
			tok, i = scanWhitespace(input, i)
			tokens = append(tokens, tok)
			// Whitespace does not change the value-position context.
			continue

		case c == 'u' && i+1 < len(input) && isQuote(input[i+1]):
			// Unicode-string prefix: the string itself is parsed as an
			// ordinary quoted string; the prefix survives only in Raw.
			tok, next := scanString(input, i+1)
			tok.Raw = input[i : i+1+len(tok.Raw)]
			tokens = append(tokens, tok)
			i = next

		case isQuote(c):
			var tok Token
			tok, i = scanString(input, i)
			tokens = append(tokens, tok)

		case isDigit(c) || (c == '-' && i+1 < len(input) && isDigit(input[i+1])):
			var tok Token
			tok, i = scanNumber(input, i)
			tokens = append(tokens, tok)

		case c == '[' && valuePos && isTagPath(input, i):
			var tok Token
			tok, i = scanComposite(input, i)
			tokens = append(tokens, tok)

		case c == '{' || c == '}' || c == '[' || c == ']':
			tokens = append(tokens, Token{Kind: KindStructural, Value: string(c), Raw: string(c)})
			i++
			valuePos = c == '['
			continue

		case c == ':':
			tokens = append(tokens, Token{Kind: KindColon, Value: ":", Raw: ":"})
			i++
			valuePos = true
			continue

		case c == ',':
			tokens = append(tokens, Token{Kind: KindComma, Value: ",", Raw: ","})
			i++
			valuePos = true
			continue

		case isIdentChar(c):
			if valuePos && isCompositeStart(input, i) {
				var tok Token
				tok, i = scanComposite(input, i)
				tokens = append(tokens, tok)
			} else {
				var tok Token
				tok, i = scanIdentifier(input, i)
				tokens = append(tokens, tok)
			}

		default:
			// Unrecognized character: skip it so the scan always terminates.
			i++
			continue
		}

		valuePos = false
	}

	return tokens
}

// scanWhitespace consumes a maximal run of whitespace characters.
func scanWhitespace(s string, pos int) (Token, int) {
	i := pos
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	raw := s[pos:i]
	return Token{Kind: KindWhitespace, Value: raw, Raw: raw}, i
}

// scanString consumes a string delimited by matching single or double quotes,
// decoding backslash escapes into Value. An unterminated string consumes the
// rest of the input.
func scanString(s string, pos int) (Token, int) {
	quote := s[pos]
	var val strings.Builder
	i := pos + 1

	for i < len(s) && s[i] != quote {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				val.WriteByte('\n')
				i += 2
			case 'r':
				val.WriteByte('\r')
				i += 2
			case 't':
				val.WriteByte('\t')
				i += 2
			case '\\':
				val.WriteByte('\\')
				i += 2
			case '\'':
				val.WriteByte('\'')
				i += 2
			case '"':
				val.WriteByte('"')
				i += 2
			case 'u':
				if r, ok := decodeHex4(s, i+2); ok {
					val.WriteRune(r)
					i += 6
				} else {
					val.WriteByte(s[i])
					i++
				}
			default:
				// Unknown escape: keep the backslash and the character.
				val.WriteByte(s[i])
				val.WriteByte(s[i+1])
				i += 2
			}
			continue
		}
		val.WriteByte(s[i])
		i++
	}
	if i < len(s) {
		i++ // closing quote
	}

	return Token{Kind: KindString, Value: val.String(), Raw: s[pos:i]}, i
}

// decodeHex4 decodes 4 hex digits starting at pos into a rune.
func decodeHex4(s string, pos int) (rune, bool) {
	if pos+4 > len(s) {
		return 0, false
	}
	var r rune
	for _, c := range []byte(s[pos : pos+4]) {
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			return 0, false
		}
	}
	return r, true
}

// scanNumber consumes a JSON number: optional leading '-', digits, optional
// fraction, optional exponent.
func scanNumber(s string, pos int) (Token, int) {
	i := pos
	if s[i] == '-' {
		i++
	}
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' && i+1 < len(s) && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	raw := s[pos:i]
	return Token{Kind: KindNumber, Value: raw, Raw: raw}, i
}

// scanIdentifier consumes a maximal run of letters, digits and underscores,
// mapping keyword spellings through keywordTable.
func scanIdentifier(s string, pos int) (Token, int) {
	i := pos
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	raw := s[pos:i]
	if mapped, ok := keywordTable[raw]; ok {
		return Token{Kind: KindKeyword, Value: mapped, Raw: raw}, i
	}
	return Token{Kind: KindIdentifier, Value: raw, Raw: raw}, i
}

// scanComposite consumes an opaque composite value (a tag path or a date
// phrase) up to the next terminating delimiter: a ',' or '}' at depth zero,
// or a ']' that has no matching '[' inside the value. Bracket and paren
// nesting is tracked with a plain counter so malformed input stays a single
// bounded forward scan. Trailing whitespace is left for the next token.
func scanComposite(s string, pos int) (Token, int) {
	depth := 0
	i := pos
	for i < len(s) {
		switch s[i] {
		case '[', '(':
			depth++
		case ']', ')':
			if depth == 0 {
				goto done
			}
			depth--
		case ',', '}':
			if depth == 0 {
				goto done
			}
		}
		i++
	}
done:
	end := i
	for end > pos && isSpace(s[end-1]) {
		end--
	}
	raw := s[pos:end]
	return Token{Kind: KindIdentifier, Value: raw, Raw: raw}, end
}

// isTagPath reports whether the '[' at pos opens a bracketed addressing path
// such as "[default]Tag1/SubTag" rather than an array: the character
// immediately after the matching ']' must be alphanumeric, an underscore, or
// a '/'.
func isTagPath(s string, pos int) bool {
	depth := 0
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				if i+1 >= len(s) {
					return false
				}
				next := s[i+1]
				return isIdentChar(next) || next == '/'
			}
		}
	}
	return false
}

// isCompositeStart reports whether pos begins an unquoted date phrase: a
// 3-letter abbreviation from the weekday/month lexicon followed by a space.
func isCompositeStart(s string, pos int) bool {
	end := pos
	for end < len(s) && isLetter(s[end]) {
		end++
	}
	if end-pos != 3 {
		return false
	}
	if end >= len(s) || s[end] != ' ' {
		return false
	}
	return compositeLexicon[s[pos:end]]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
