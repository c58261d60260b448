// Package rule provides the immutable route rule model that the matcher
// and renderer operate on. A Set is built once at startup from the loaded
// configuration and never mutated afterwards, so it can be shared across
// concurrent request handlers without locking.
package rule

import "strings"

// Defaults applied when a route omits the optional fields.
const (
	DefaultStatusCode  = 200
	DefaultContentType = "application/json"
)

// Kind discriminates the rendering policy of a declared content type.
type Kind int

const (
	// KindJSON renders the response template as JSON.
	KindJSON Kind = iota
	// KindPlainText renders the template via its generic string form
	// with a text/plain content type.
	KindPlainText
	// KindOpaque renders the template via its generic string form and
	// emits the declared content type header verbatim.
	KindOpaque
)

// ContentType resolves a declared content type string to one of the closed
// set of rendering policies. Only "application/json" and "text/plain" are
// recognized; anything else is an opaque passthrough.
type ContentType struct {
	kind     Kind
	declared string
}

// ParseContentType resolves a declared content type. The empty string
// defaults to application/json.
func ParseContentType(s string) ContentType {
	switch s {
	case "", DefaultContentType:
		return ContentType{kind: KindJSON, declared: DefaultContentType}
	case "text/plain":
		return ContentType{kind: KindPlainText, declared: "text/plain"}
	default:
		return ContentType{kind: KindOpaque, declared: s}
	}
}

// Kind returns the rendering policy for this content type.
func (c ContentType) Kind() Kind { return c.kind }

// Header returns the value to emit in the Content-Type response header.
func (c ContentType) Header() string {
	switch c.kind {
	case KindJSON:
		return "application/json"
	case KindPlainText:
		return "text/plain; charset=utf-8"
	default:
		return c.declared
	}
}

// String returns the content type as declared in configuration.
func (c ContentType) String() string { return c.declared }

// Rule is one configured mapping from a request pattern to a response
// template. Rules are immutable after construction: the renderer copies
// the template before substituting into it, never writing back.
type Rule struct {
	// PathFragment is matched by substring containment against the
	// request path, after stripping leading and trailing slashes.
	PathFragment string

	// Method is compared case-insensitively against the request method.
	Method string

	// StatusCode is the response status, defaulted to 200.
	StatusCode int

	// ContentType drives the rendering policy.
	ContentType ContentType

	// ResponseTemplate is the decoded response value: a string-keyed
	// mapping, array, string, number, boolean, or null.
	ResponseTemplate any

	// Headers are extra response headers set before Content-Type.
	Headers map[string]string
}

// New builds a Rule from raw configuration values, applying the status
// and content type defaults.
func New(fragment, method string, status int, contentType string, template any, headers map[string]string) Rule {
	if status == 0 {
		status = DefaultStatusCode
	}
	return Rule{
		PathFragment:     fragment,
		Method:           method,
		StatusCode:       status,
		ContentType:      ParseContentType(contentType),
		ResponseTemplate: template,
		Headers:          headers,
	}
}

// StrippedFragment returns the path fragment with leading and trailing
// slashes removed, the form the matcher tests against request paths.
func (r Rule) StrippedFragment() string {
	return strings.Trim(r.PathFragment, "/")
}

// Set is an ordered, immutable collection of rules. Declaration order is
// a configuration contract: the matcher returns the first rule that
// matches, so earlier rules win ties.
type Set struct {
	rules []Rule
}

// NewSet builds a Set from rules in declaration order. The input slice is
// copied so later mutation by the caller cannot leak into the set.
func NewSet(rules []Rule) *Set {
	s := &Set{rules: make([]Rule, len(rules))}
	copy(s.rules, rules)
	return s
}

// Rules returns the rules in declaration order. The returned slice is
// shared and must be treated as read-only.
func (s *Set) Rules() []Rule { return s.rules }

// Len returns the number of rules in the set.
func (s *Set) Len() int { return len(s.rules) }
