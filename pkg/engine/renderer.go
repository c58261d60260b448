// Response rendering for matched rules.

package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mocklet/mocklet/pkg/rule"
)

// Placeholder is the literal token replaced with the request payload's
// string representation during substitution.
const Placeholder = "{data}"

// Response is the rendered triple handed back to the transport layer. It
// carries no reference to the rule that produced it.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Render produces the concrete response for a matched rule. It is a pure
// function of (rule, request body): identical inputs yield byte-identical
// output, and the stored rule is never mutated.
func Render(r *rule.Rule, requestBody []byte) Response {
	body := substitute(r.ResponseTemplate, requestBody)

	return Response{
		StatusCode:  r.StatusCode,
		ContentType: r.ContentType.Header(),
		Body:        encoders[r.ContentType.Kind()](body),
	}
}

// encoders is the content-type dispatch table. Plain text and opaque
// types share the generic string encoding; only the emitted header
// differs.
var encoders = map[rule.Kind]func(any) []byte{
	rule.KindJSON:      encodeJSON,
	rule.KindPlainText: encodeString,
	rule.KindOpaque:    encodeString,
}

func encodeJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// Templates come from parsed YAML/JSON so they marshal
		// cleanly; fall back to the string form rather than fail
		// the request.
		data, _ = json.Marshal(fmt.Sprint(v))
	}
	return data
}

func encodeString(v any) []byte {
	return []byte(fmt.Sprint(v))
}

// substitute applies {data} replacement to a response template, returning
// a fresh top-level map when substitution occurs.
//
// Substitution only applies to string-keyed mappings, and only when the
// token appears somewhere in the stringified whole mapping. The gate is
// deliberately coarse: a token in any field enables replacement across
// all string-valued fields. Non-mapping templates pass through untouched
// even if they contain the token.
func substitute(template any, requestBody []byte) any {
	m, ok := template.(map[string]any)
	if !ok {
		return template
	}
	if !strings.Contains(fmt.Sprint(m), Placeholder) {
		return m
	}

	data := bodyString(requestBody)
	out := make(map[string]any, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = strings.ReplaceAll(s, Placeholder, data)
		} else {
			out[k] = v
		}
	}
	return out
}

// bodyString is the request payload's string representation used for
// substitution: the debug form of the parsed value when the body is
// valid JSON, the raw bytes otherwise. A malformed body degrades to its
// raw text instead of failing the request.
func bodyString(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return fmt.Sprint(v)
}
