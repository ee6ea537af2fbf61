// Package convert turns repr-style debug output — single-quoted strings,
// u-prefixed strings, True/False/None keywords, unquoted bare identifiers,
// bracketed tag paths and unquoted date phrases — into strictly valid,
// canonically formatted JSON.
//
// The pipeline is a straight line: a fast-path parse for input that is
// already valid JSON, then tokenize → transform → serialize, then a final
// validation re-parse. A result is only ever reported as successful when the
// assembled output independently re-parses. Convert performs no I/O, holds
// no state between calls, and is safe for concurrent use.
package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ConversionResult is the single output type of the converter.
//
// JSON holds the canonically formatted output and is empty when Success is
// false; Error is populated only on failure.
type ConversionResult struct {
	Success bool   `json:"success"`
	JSON    string `json:"json"`
	Error   string `json:"error,omitempty"`
}

// ErrEmptyInput is reported when the input is empty or all whitespace.
var ErrEmptyInput = errors.New("input is empty")

// Textual signals associated with repr notation: a u-prefixed quote, a
// single quote not immediately preceded by a word character or another
// quote, or a word-bounded True/False/None keyword.
var (
	uPrefixPattern   = regexp.MustCompile(`u['"]`)
	loneQuotePattern = regexp.MustCompile(`(^|[^\w'"])'`)
	keywordPattern   = regexp.MustCompile(`\b(True|False|None)\b`)
)

// Convert transforms raw repr-style text into valid, pretty-printed JSON.
// All failure modes are represented in the returned value; Convert never
// panics. It is a pure function of its input and safe to call from multiple
// goroutines without coordination.
func Convert(input string) ConversionResult {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return failure(ErrEmptyInput)
	}

	// Fast path: input that is already valid JSON is just reformatted.
	// Pretty-printing here also makes Convert idempotent on its own output.
	if out, err := formatJSON(trimmed); err == nil {
		return success(out)
	}

	if !LooksLikeRepr(trimmed) {
		// No repr signals: the input may be valid JSON that failed the fast
		// path only because of how it was detected. Try once more before
		// paying for a full tokenization.
		if out, err := formatJSON(trimmed); err == nil {
			return success(out)
		}
	}

	assembled := Serialize(Transform(Tokenize(trimmed)))

	out, err := formatJSON(assembled)
	if err != nil {
		return failure(fmt.Errorf("converted text is not valid JSON: %w", err))
	}
	return success(out)
}

// LooksLikeRepr reports whether the text carries any of the notation signals
// this converter targets: a u-prefixed quote, a lone single quote, or a
// word-bounded True/False/None. Callers can use it to decide whether pasted
// text is worth offering for conversion at all.
func LooksLikeRepr(s string) bool {
	return uPrefixPattern.MatchString(s) ||
		loneQuotePattern.MatchString(s) ||
		keywordPattern.MatchString(s)
}

// formatJSON parses s as a single JSON value and re-serializes it with
// stable 2-space indentation. Numbers are decoded as json.Number so that
// numeric literals survive the round trip unchanged. Trailing non-whitespace
// content after the value is an error.
func formatJSON(s string) (string, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	if _, err := dec.Token(); err != io.EOF {
		return "", fmt.Errorf("unexpected trailing content after JSON value")
	}

	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func success(out string) ConversionResult {
	return ConversionResult{Success: true, JSON: out}
}

func failure(err error) ConversionResult {
	return ConversionResult{Success: false, Error: err.Error()}
}
