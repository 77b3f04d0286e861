// Package sanitize produces the storable form of submitted template content.
// It runs two sequential passes: a structural pass that drops the reserved
// script-payload key anywhere in the value, then a textual scrub that escapes
// literal script tag markers in the serialized JSON. The passes are kept
// separate on purpose: the structural rule can only drop by key name, the
// textual rule also catches markers inside surviving string leaves.
package sanitize

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DisallowedField is the reserved object key that carries executable script
// payloads. Pairs with this key are dropped at any nesting depth.
const DisallowedField = "elementScript"

// Content sanitizes validated template content and returns its serialized
// form. It is total over validated input: an error here means the caller
// handed us bytes that never went through validation.
func Content(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	// Keep numbers verbatim instead of round-tripping through float64.
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}

	v = strip(v)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// The scrub below matches literal tag markers, so the encoder must not
	// replace angle brackets with their \u escape sequences.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}

	text := strings.TrimSuffix(buf.String(), "\n")
	return scrub(text), nil
}

// strip walks the decoded value depth-first. Arrays keep order and length,
// objects lose any pair keyed by DisallowedField, scalars pass through
// unchanged (string, json.Number, bool, nil).
func strip(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if k == DisallowedField {
				continue
			}
			out[k] = strip(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = strip(child)
		}
		return out
	default:
		return v
	}
}

// scrub HTML-escapes literal script tag markers in serialized JSON text.
func scrub(s string) string {
	s = strings.ReplaceAll(s, "<script>", "&lt;script&gt;")
	s = strings.ReplaceAll(s, "</script>", "&lt;/script&gt;")
	return s
}
