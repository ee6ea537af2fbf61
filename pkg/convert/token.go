package convert

// Kind classifies a token produced by the tokenizer.
type Kind uint8

const (
	KindString Kind = iota
	KindNumber
	KindKeyword
	KindIdentifier
	KindStructural
	KindWhitespace
	KindColon
	KindComma
)

// String returns a human-readable name for the kind (used in diagnostics and tests).
func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindKeyword:
		return "Keyword"
	case KindIdentifier:
		return "Identifier"
	case KindStructural:
		return "Structural"
	case KindWhitespace:
		return "Whitespace"
	case KindColon:
		return "Colon"
	case KindComma:
		return "Comma"
	default:
		return "Unknown"
	}
}

// Token is the unit of the conversion pipeline.
//
// Value holds the normalized payload (unescaped string contents, numeric
// literal text, mapped keyword spelling). Raw holds the original source
// substring the token was derived from; it is kept for diagnostics and for
// verifying that the token stream covers the input without gaps.
type Token struct {
	Kind  Kind
	Value string
	Raw   string
}
