// Package sanitize scrubs untrusted request parameters before they are
// forwarded upstream. Strings lose all markup and get their whitespace
// collapsed; maps and slices are walked recursively with their structure
// (and sanitized keys) preserved; every other scalar passes through as-is.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text strips all markup from s and collapses runs of whitespace to a
// single space. Elements whose content is never safe (script, style) are
// removed together with their contents.
func Text(s string) string {
	stripped := html.UnescapeString(policy.Sanitize(s))
	return strings.Join(strings.Fields(stripped), " ")
}

// Value sanitizes v recursively. Map keys are sanitized as well as values;
// the returned value has the same shape as the input.
func Value(v any) any {
	switch val := v.(type) {
	case string:
		return Text(val)
	case map[string]any:
		return Params(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Value(item)
		}
		return out
	default:
		return v
	}
}

// Params sanitizes every key and value of a parameter mapping.
func Params(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for key, value := range params {
		out[Text(key)] = Value(value)
	}
	return out
}
