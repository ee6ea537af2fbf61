package convert

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

// parseJSON decodes s into a generic value, failing the test on error.
func parseJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v), "not valid JSON: %s", s)
	return v
}

func mustConvert(t *testing.T, input string) string {
	t.Helper()
	res := Convert(input)
	require.True(t, res.Success, "conversion failed: %s", res.Error)
	require.Empty(t, res.Error)
	return res.JSON
}

// --- repr conversion ---

func TestConvertUnicodePrefix(t *testing.T) {
	assert.Equal(t, `"hello"`, mustConvert(t, `u'hello'`))
	assert.Equal(t, `"world"`, mustConvert(t, `u"world"`))
}

func TestConvertDictWithKeywords(t *testing.T) {
	out := mustConvert(t, `{name: 'Bob', active: True, notes: None}`)
	want := map[string]any{"name": "Bob", "active": true, "notes": nil}
	assert.Equal(t, want, parseJSON(t, out))
}

func TestConvertTrailingComma(t *testing.T) {
	out := mustConvert(t, `{a: 1, b: 2,}`)
	want := map[string]any{"a": float64(1), "b": float64(2)}
	assert.Equal(t, want, parseJSON(t, out))
}

func TestConvertTagPath(t *testing.T) {
	out := mustConvert(t, `{path: [default]Tag1/SubTag}`)
	want := map[string]any{"path": "[default]Tag1/SubTag"}
	assert.Equal(t, want, parseJSON(t, out))
}

func TestConvertDateValue(t *testing.T) {
	out := mustConvert(t, `{created: Thu Jan 01 00:00:00 CST 1970, id: 4}`)
	want := map[string]any{
		"created": "Thu Jan 01 00:00:00 CST 1970",
		"id":      float64(4),
	}
	assert.Equal(t, want, parseJSON(t, out))
}

func TestConvertNestedStructures(t *testing.T) {
	input := `{tags: [{path: [default]A/B, quality: u'Good', ts: Mon Jan 05 10:00:00 UTC 2020}], count: 1, stale: False}`
	out := mustConvert(t, input)
	want := map[string]any{
		"tags": []any{map[string]any{
			"path":    "[default]A/B",
			"quality": "Good",
			"ts":      "Mon Jan 05 10:00:00 UTC 2020",
		}},
		"count": float64(1),
		"stale": false,
	}
	assert.Equal(t, want, parseJSON(t, out))
}

func TestConvertRealArrayStaysArray(t *testing.T) {
	out := mustConvert(t, `{items: [1, 2, 3]}`)
	want := map[string]any{"items": []any{float64(1), float64(2), float64(3)}}
	assert.Equal(t, want, parseJSON(t, out))
}

func TestConvertStringEscapes(t *testing.T) {
	out := mustConvert(t, `{msg: 'line1\nline2', quoted: 'say \'hi\''}`)
	want := map[string]any{"msg": "line1\nline2", "quoted": "say 'hi'"}
	assert.Equal(t, want, parseJSON(t, out))
}

// --- fast path and idempotence ---

func TestConvertValidJSONFastPath(t *testing.T) {
	out := mustConvert(t, `{"b": 2, "a": 1}`)
	want := map[string]any{"a": float64(1), "b": float64(2)}
	assert.Equal(t, want, parseJSON(t, out))
}

func TestConvertIdempotent(t *testing.T) {
	inputs := []string{
		`{"name": "Bob", "active": true}`,
		`{a: 1, b: 'two', c: None,}`,
		`[1, 2.5, -3e2, "x"]`,
		`u'hello'`,
		`{path: [default]Tag1/SubTag}`,
	}
	for _, input := range inputs {
		first := mustConvert(t, input)
		second := mustConvert(t, first)
		assert.Equal(t, first, second, "input: %s", input)
	}
}

func TestConvertRoundTripPreservesValues(t *testing.T) {
	input := `{"big": 12345678901234567890, "small": 0.1, "neg": -2e-5}`
	out := mustConvert(t, input)
	// Numeric literals must survive reformatting unchanged.
	assert.Contains(t, out, "12345678901234567890")
	assert.Contains(t, out, "0.1")
	assert.Contains(t, out, "-2e-5")
}

func TestConvertCanonicalIndentation(t *testing.T) {
	out := mustConvert(t, `{"a":1}`)
	assert.Equal(t, "{\n  \"a\": 1\n}", out)
}

func TestConvertSurroundingWhitespace(t *testing.T) {
	out := mustConvert(t, "  \n {\"a\": 1} \n ")
	assert.Equal(t, "{\n  \"a\": 1\n}", out)
}

// --- pattern detection ---

func TestLooksLikeRepr(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`u'x'`, true},
		{`u"x"`, true},
		{`{'a': 1}`, true},
		{`{a: True}`, true},
		{`{a: False}`, true},
		{`{a: None}`, true},
		{`{"a": 1}`, false},
		{`{"it's": 1}`, false},
		{`[1, 2, 3]`, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LooksLikeRepr(tt.input), "input: %s", tt.input)
	}
}

// --- failures ---

func TestConvertEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		res := Convert(input)
		assert.False(t, res.Success)
		assert.Empty(t, res.JSON)
		assert.Equal(t, ErrEmptyInput.Error(), res.Error)
	}
}

func TestConvertUnbalancedBraces(t *testing.T) {
	res := Convert(`{a: 1`)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.JSON)
}

func TestConvertGarbageInput(t *testing.T) {
	inputs := []string{
		`}}}`,
		`{: ,}`,
		`{'a'}`,
	}
	for _, input := range inputs {
		res := Convert(input)
		assert.False(t, res.Success, "input: %s", input)
		assert.NotEmpty(t, res.Error, "input: %s", input)
	}
}

func TestConvertNeverPanics(t *testing.T) {
	inputs := []string{
		"", "'", "u'", "[[[", "]]]", "{{", "}}", ",", ":",
		`{a: [default]`, "\\", "\x00\x01",
	}
	for _, input := range inputs {
		assert.NotPanics(t, func() { Convert(input) }, "input: %q", input)
	}
}

// --- concurrency ---

func TestConvertConcurrent(t *testing.T) {
	inputs := []string{
		`{name: 'Bob', active: True}`,
		`{"a": 1}`,
		`[1, 2,]`,
		`u'hello'`,
		`{bad`,
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		for _, input := range inputs {
			wg.Add(1)
			go func(in string) {
				defer wg.Done()
				res := Convert(in)
				reference := Convert(in)
				assert.Equal(t, reference, res)
			}(input)
		}
	}
	wg.Wait()
}
