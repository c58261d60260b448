// Package matching implements rule selection for incoming requests.
package matching

import (
	"strings"

	"github.com/mocklet/mocklet/pkg/rule"
)

// Match returns the first rule, in declaration order, whose path fragment
// and method both match the request. The path must already have its
// leading slash stripped by the caller. Returns nil when nothing matches;
// that is a normal outcome, not an error.
//
// A linear first-match scan is deliberate: rule sets are tens of entries,
// and declaration order is the documented tie-break.
func Match(rules []rule.Rule, method, path string) *rule.Rule {
	for i := range rules {
		if Matches(&rules[i], method, path) {
			return &rules[i]
		}
	}
	return nil
}

// Matches reports whether a single rule matches the request.
//
// The path test is substring containment of the slash-stripped fragment,
// not equality: a rule for "test" matches "test", "api/test", and
// "test/123". An empty fragment therefore matches every path.
func Matches(r *rule.Rule, method, path string) bool {
	return strings.Contains(path, r.StrippedFragment()) && MatchMethod(r.Method, method)
}

// MatchMethod compares HTTP methods case-insensitively.
func MatchMethod(ruleMethod, requestMethod string) bool {
	return strings.EqualFold(ruleMethod, requestMethod)
}
