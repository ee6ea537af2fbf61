package convert

// Transform rewrites a token list into one ready for serialization. It is a
// pure, total function with no failure mode.
//
// Two rewrites are applied:
//   - every Identifier token (including opaque composite values captured as
//     identifiers) becomes a String token carrying the same value, which is
//     what turns bare words, date phrases and tag paths into quoted strings;
//   - a Comma whose next non-whitespace token is a closing '}' or ']' is
//     dropped, removing trailing separators that JSON forbids.
func Transform(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))

	for i, tok := range tokens {
		switch tok.Kind {
		case KindIdentifier:
			out = append(out, Token{Kind: KindString, Value: tok.Value, Raw: tok.Raw})

		case KindComma:
			if precedesCloser(tokens, i) {
				continue
			}
			out = append(out, tok)

		default:
			out = append(out, tok)
		}
	}

	return out
}

// precedesCloser reports whether the next non-whitespace token after index i
// is a closing structural bracket.
func precedesCloser(tokens []Token, i int) bool {
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].Kind == KindWhitespace {
			continue
		}
		return tokens[j].Kind == KindStructural && (tokens[j].Value == "}" || tokens[j].Value == "]")
	}
	return false
}
