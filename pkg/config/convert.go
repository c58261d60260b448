package config

import "github.com/mocklet/mocklet/pkg/rule"

// BuildRules converts a loaded document into the immutable rule set the
// engine serves from. Defaults (status 200, application/json) are applied
// here; the document itself is not needed afterwards.
func BuildRules(doc *Document) *rule.Set {
	rules := make([]rule.Rule, 0, len(doc.Routes))
	for _, rc := range doc.Routes {
		rules = append(rules, rule.New(rc.Path, rc.Method, rc.StatusCode, rc.ContentType, rc.Response, rc.Headers))
	}
	return rule.NewSet(rules)
}
