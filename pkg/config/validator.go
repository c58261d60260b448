package config

import (
	"fmt"
	"strings"
)

// Known HTTP methods for validation. Unknown methods are legal (they are
// compared verbatim) but get a warning since they are usually typos.
var knownMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {},
	"PATCH": {}, "HEAD": {}, "OPTIONS": {},
}

// ValidationError represents a single config validation finding.
type ValidationError struct {
	Path    string // Config path, e.g. "routes[2].method"
	Message string
}

func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationResult collects errors and warnings for a Document. Errors
// make the document unusable; warnings flag legal but suspicious routes.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool { return len(r.Errors) == 0 }

// Error returns the combined error message.
func (r *ValidationResult) Error() string {
	if r.IsValid() {
		return ""
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// AddError adds a validation error.
func (r *ValidationResult) AddError(path, message string) {
	r.Errors = append(r.Errors, ValidationError{Path: path, Message: message})
}

// AddWarning adds a validation warning.
func (r *ValidationResult) AddWarning(path, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Path: path, Message: message})
}

// Validate checks a loaded document and returns all findings.
func Validate(doc *Document) *ValidationResult {
	result := &ValidationResult{}

	if len(doc.Routes) == 0 {
		result.AddWarning("routes", "no routes defined; every request will get the 404 fallback")
	}

	for i, route := range doc.Routes {
		validateRoute(result, i, route)
	}

	checkShadowedRoutes(result, doc.Routes)

	return result
}

func validateRoute(result *ValidationResult, i int, route RouteConfig) {
	prefix := fmt.Sprintf("routes[%d]", i)

	if route.Method == "" {
		result.AddError(prefix+".method", "required")
	} else if _, ok := knownMethods[strings.ToUpper(route.Method)]; !ok {
		result.AddWarning(prefix+".method", fmt.Sprintf("unrecognized HTTP method %q", route.Method))
	}

	if route.StatusCode != 0 && (route.StatusCode < 100 || route.StatusCode > 599) {
		result.AddError(prefix+".status_code", fmt.Sprintf("%d is outside the valid range 100-599", route.StatusCode))
	}

	if strings.Trim(route.Path, "/") == "" {
		result.AddWarning(prefix+".path", "fragment is empty after stripping slashes and will match every path")
	}
}

// checkShadowedRoutes warns about routes that can never match: a route is
// unreachable when an earlier route with the same method has a fragment
// that is a substring of its fragment, because any path containing the
// later fragment also contains the earlier one.
func checkShadowedRoutes(result *ValidationResult, routes []RouteConfig) {
	for i, earlier := range routes {
		for j := i + 1; j < len(routes); j++ {
			later := routes[j]
			if !strings.EqualFold(earlier.Method, later.Method) {
				continue
			}
			if strings.Contains(strings.Trim(later.Path, "/"), strings.Trim(earlier.Path, "/")) {
				result.AddWarning(
					fmt.Sprintf("routes[%d]", j),
					fmt.Sprintf("unreachable: shadowed by routes[%d] (%s %s)", i, earlier.Method, earlier.Path),
				)
			}
		}
	}
}
