// Core HTTP dispatcher for the mock engine.

package engine

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mocklet/mocklet/internal/matching"
	"github.com/mocklet/mocklet/pkg/httputil"
	"github.com/mocklet/mocklet/pkg/logging"
	"github.com/mocklet/mocklet/pkg/metrics"
	"github.com/mocklet/mocklet/pkg/rule"
)

// MaxRequestBodySize caps request bodies read for substitution (10MB).
// Oversized bodies are truncated rather than rejected.
const MaxRequestBodySize = 10 << 20

// IntrospectionPrefix reserves a path namespace for the engine's own
// endpoints. Requests under it never reach the rule set.
const IntrospectionPrefix = "/__mocklet/"

// Handler dispatches incoming requests against an immutable rule set:
// match, render, write. All decision logic lives in the matcher and the
// renderer; unmatched requests get the fixed 404 fallback.
type Handler struct {
	rules   *rule.Set
	metrics *metrics.Set
	log     *slog.Logger
}

// NewHandler creates a Handler serving the given rule set.
func NewHandler(rules *rule.Set) *Handler {
	return &Handler{
		rules: rules,
		log:   logging.Nop(),
	}
}

// SetOperationalLogger sets the logger for debug/error messages.
func (h *Handler) SetOperationalLogger(log *slog.Logger) {
	if log != nil {
		h.log = log
	} else {
		h.log = logging.Nop()
	}
}

// SetMetrics attaches a metrics set for the introspection endpoint.
func (h *Handler) SetMetrics(m *metrics.Set) {
	h.metrics = m
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, IntrospectionPrefix) {
		h.serveIntrospection(w, r)
		return
	}

	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize))
	}

	path := strings.TrimPrefix(r.URL.Path, "/")
	matched := matching.Match(h.rules.Rules(), r.Method, path)
	if matched == nil {
		h.log.Debug("no rule matched", "method", r.Method, "path", r.URL.Path)
		if h.metrics != nil {
			h.metrics.MatchMissesTotal.Inc()
		}
		httputil.WriteError(w, http.StatusNotFound, "Route not found")
		return
	}

	resp := Render(matched, body)

	// Extra rule headers first, so the rendered content type wins on
	// conflict.
	for name, value := range matched.Headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		h.log.Error("failed to write response body", "error", err)
	}
}

// serveIntrospection routes requests under the reserved prefix.
func (h *Handler) serveIntrospection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	switch r.URL.Path {
	case IntrospectionPrefix + "health":
		h.handleHealth(w)
	case IntrospectionPrefix + "ready":
		h.handleReady(w)
	case IntrospectionPrefix + "routes":
		h.handleRoutes(w)
	case IntrospectionPrefix + "metrics":
		h.handleMetrics(w)
	default:
		httputil.WriteError(w, http.StatusNotFound, "unknown introspection endpoint")
	}
}

// handleHealth handles the liveness probe endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles the readiness probe endpoint. The rule set is
// loaded before the server starts, so readiness only reports its size.
func (h *Handler) handleReady(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"checks": map[string]any{
			"routes": map[string]any{"count": h.rules.Len(), "status": "ok"},
		},
	})
}

// routeInfo is the read-only route listing shape. The rule set is
// immutable for the process lifetime, so there is no mutating
// counterpart.
type routeInfo struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
}

func (h *Handler) handleRoutes(w http.ResponseWriter) {
	rules := h.rules.Rules()
	routes := make([]routeInfo, 0, len(rules))
	for _, r := range rules {
		routes = append(routes, routeInfo{
			Path:        r.PathFragment,
			Method:      r.Method,
			StatusCode:  r.StatusCode,
			ContentType: r.ContentType.String(),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"routes": routes,
		"count":  len(routes),
	})
}

func (h *Handler) handleMetrics(w http.ResponseWriter) {
	if h.metrics == nil {
		httputil.WriteError(w, http.StatusNotFound, "metrics disabled")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"samples": h.metrics.Registry.Collect(),
	})
}
