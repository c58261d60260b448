// Package config provides loading and validation of the mocklet route
// configuration document.
package config

// Document is the parsed top-level configuration.
type Document struct {
	// Routes are the inline route definitions, in declaration order.
	Routes []RouteConfig `yaml:"routes" json:"routes"`

	// RouteFiles are optional paths or globs (doublestar syntax) of
	// additional route files, resolved relative to the document.
	// Their routes are appended after the inline ones, files in
	// lexical order.
	RouteFiles []string `yaml:"route_files,omitempty" json:"route_files,omitempty"`
}

// RouteConfig is one route entry as authored in configuration.
type RouteConfig struct {
	// Path is the fragment matched by substring containment against
	// incoming request paths.
	Path string `yaml:"path" json:"path"`

	// Method is the HTTP method, compared case-insensitively.
	Method string `yaml:"method" json:"method"`

	// StatusCode is the response status. Optional, defaults to 200.
	StatusCode int `yaml:"status_code,omitempty" json:"status_code,omitempty"`

	// ContentType is the response content type. Optional, defaults to
	// application/json.
	ContentType string `yaml:"content_type,omitempty" json:"content_type,omitempty"`

	// Response is the response template: any YAML/JSON value.
	Response any `yaml:"response" json:"response"`

	// Headers are optional extra response headers.
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
}
