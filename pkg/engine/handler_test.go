package engine

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocklet/mocklet/pkg/metrics"
	"github.com/mocklet/mocklet/pkg/rule"
)

func newTestHandler(rules ...rule.Rule) *Handler {
	return NewHandler(rule.NewSet(rules))
}

func doRequest(h *Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDispatchMatchedJSONRoute(t *testing.T) {
	h := newTestHandler(
		rule.New("/test", "GET", 200, "application/json", map[string]any{"message": "test response"}, nil),
	)

	rec := doRequest(h, "GET", "/test", "")

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message": "test response"}`, rec.Body.String())
}

func TestDispatchMatchedTextRoute(t *testing.T) {
	h := newTestHandler(
		rule.New("/text", "GET", 200, "text/plain", "plain text response", nil),
	)

	rec := doRequest(h, "GET", "/text", "")

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "plain text response", rec.Body.String())
}

func TestDispatchUnmatchedIs404Fallback(t *testing.T) {
	h := newTestHandler(
		rule.New("/test", "GET", 200, "", "ok", nil),
	)

	rec := doRequest(h, "GET", "/nonexistent", "")

	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error": "Route not found"}`, rec.Body.String())
}

func TestDispatchMethodMismatchIs404(t *testing.T) {
	h := newTestHandler(
		rule.New("/test", "GET", 200, "", "ok", nil),
	)

	rec := doRequest(h, "POST", "/test", "")

	assert.Equal(t, 404, rec.Code)
	assert.JSONEq(t, `{"error": "Route not found"}`, rec.Body.String())
}

func TestDispatchSubstitutesRequestBody(t *testing.T) {
	h := newTestHandler(
		rule.New("/echo", "POST", 200, "", map[string]any{"echo": "got {data}"}, nil),
	)

	rec := doRequest(h, "POST", "/echo", `{"x":1}`)

	assert.Equal(t, 200, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "got map[x:1]", body["echo"])
}

func TestDispatchFragmentContainment(t *testing.T) {
	h := newTestHandler(
		rule.New("/test", "GET", 200, "", "ok", nil),
	)

	for _, target := range []string{"/test", "/api/test", "/test/123"} {
		rec := doRequest(h, "GET", target, "")
		assert.Equal(t, 200, rec.Code, "target %s", target)
	}
}

func TestDispatchFirstRuleWins(t *testing.T) {
	h := newTestHandler(
		rule.New("/users", "GET", 200, "text/plain", "first", nil),
		rule.New("/users", "GET", 200, "text/plain", "second", nil),
	)

	rec := doRequest(h, "GET", "/users", "")
	assert.Equal(t, "first", rec.Body.String())
}

func TestDispatchSetsRuleHeaders(t *testing.T) {
	h := newTestHandler(
		rule.New("/test", "GET", 200, "", "ok", map[string]string{
			"X-Custom":     "yes",
			"Content-Type": "ignored/overridden",
		}),
	)

	rec := doRequest(h, "GET", "/test", "")

	assert.Equal(t, "yes", rec.Header().Get("X-Custom"))
	// Rendered content type wins over a configured Content-Type header.
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestDispatchCustomStatusCode(t *testing.T) {
	h := newTestHandler(
		rule.New("/created", "POST", 201, "", map[string]any{"id": 1}, nil),
	)

	rec := doRequest(h, "POST", "/created", "{}")
	assert.Equal(t, 201, rec.Code)
}

func TestIntrospectionHealth(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(h, "GET", "/__mocklet/health", "")

	assert.Equal(t, 200, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestIntrospectionReady(t *testing.T) {
	h := newTestHandler(
		rule.New("/a", "GET", 200, "", "a", nil),
		rule.New("/b", "GET", 200, "", "b", nil),
	)

	rec := doRequest(h, "GET", "/__mocklet/ready", "")

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)
}

func TestIntrospectionRoutes(t *testing.T) {
	h := newTestHandler(
		rule.New("/test", "GET", 201, "text/plain", "ok", nil),
	)

	rec := doRequest(h, "GET", "/__mocklet/routes", "")

	assert.Equal(t, 200, rec.Code)
	var body struct {
		Routes []routeInfo `json:"routes"`
		Count  int         `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "/test", body.Routes[0].Path)
	assert.Equal(t, "GET", body.Routes[0].Method)
	assert.Equal(t, 201, body.Routes[0].StatusCode)
	assert.Equal(t, "text/plain", body.Routes[0].ContentType)
}

func TestIntrospectionMetrics(t *testing.T) {
	h := newTestHandler(
		rule.New("/test", "GET", 200, "", "ok", nil),
	)
	set := metrics.NewSet()
	h.SetMetrics(set)

	// A miss increments the fallback counter.
	doRequest(h, "GET", "/nope", "")

	rec := doRequest(h, "GET", "/__mocklet/metrics", "")
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "mocklet_match_misses_total")
}

func TestIntrospectionMetricsDisabled(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(h, "GET", "/__mocklet/metrics", "")
	assert.Equal(t, 404, rec.Code)
}

func TestIntrospectionUnknownPath(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(h, "GET", "/__mocklet/bogus", "")
	assert.Equal(t, 404, rec.Code)
}

func TestIntrospectionRejectsNonGET(t *testing.T) {
	h := newTestHandler()

	rec := doRequest(h, "POST", "/__mocklet/routes", "")
	assert.Equal(t, 405, rec.Code)
}

func TestIntrospectionShadowsRules(t *testing.T) {
	// The reserved prefix takes priority even over a rule whose
	// fragment would otherwise match it.
	h := newTestHandler(
		rule.New("__mocklet", "GET", 200, "text/plain", "rule", nil),
	)

	rec := doRequest(h, "GET", "/__mocklet/health", "")
	assert.Contains(t, rec.Body.String(), "healthy")
}
