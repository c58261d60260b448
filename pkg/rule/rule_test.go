package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContentType(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		kind     Kind
		header   string
	}{
		{"default is json", "", KindJSON, "application/json"},
		{"explicit json", "application/json", KindJSON, "application/json"},
		{"plain text", "text/plain", KindPlainText, "text/plain; charset=utf-8"},
		{"xml is opaque", "application/xml", KindOpaque, "application/xml"},
		{"csv is opaque", "text/csv", KindOpaque, "text/csv"},
		// Exact comparison: a charset suffix makes the type opaque.
		{"text with charset is opaque", "text/plain; charset=utf-8", KindOpaque, "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := ParseContentType(tt.declared)
			assert.Equal(t, tt.kind, ct.Kind())
			assert.Equal(t, tt.header, ct.Header())
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	r := New("/test", "GET", 0, "", map[string]any{"ok": true}, nil)

	assert.Equal(t, DefaultStatusCode, r.StatusCode)
	assert.Equal(t, KindJSON, r.ContentType.Kind())
}

func TestNewKeepsExplicitValues(t *testing.T) {
	r := New("/gone", "DELETE", 410, "text/plain", "gone", nil)

	assert.Equal(t, 410, r.StatusCode)
	assert.Equal(t, KindPlainText, r.ContentType.Kind())
}

func TestStrippedFragment(t *testing.T) {
	tests := []struct {
		fragment string
		want     string
	}{
		{"/test", "test"},
		{"/api/users/", "api/users"},
		{"test", "test"},
		{"///test///", "test"},
		{"/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			r := New(tt.fragment, "GET", 0, "", nil, nil)
			assert.Equal(t, tt.want, r.StrippedFragment())
		})
	}
}

func TestNewSetCopiesInput(t *testing.T) {
	rules := []Rule{New("/a", "GET", 0, "", "a", nil)}
	s := NewSet(rules)

	rules[0].PathFragment = "/mutated"

	assert.Equal(t, "/a", s.Rules()[0].PathFragment)
	assert.Equal(t, 1, s.Len())
}
