package metrics

// DefBuckets are the default latency buckets in seconds. Mock responses
// are fast, so the buckets skew low.
var DefBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Set bundles the default metrics recorded by the engine. A Set is built
// once at startup and handed to the server; there is no process-global
// registry.
type Set struct {
	Registry *Registry

	// RequestsTotal counts mock requests. Labels: method, path, status.
	RequestsTotal *Counter

	// RequestDuration tracks request latency in seconds.
	// Labels: method, path.
	RequestDuration *Histogram

	// MatchMissesTotal counts requests that fell through to the 404
	// fallback.
	MatchMissesTotal *Counter
}

// NewSet creates a registry with the default engine metrics.
func NewSet() *Set {
	r := NewRegistry()
	return &Set{
		Registry:         r,
		RequestsTotal:    r.NewCounter("mocklet_requests_total", "Total mock requests served.", "method", "path", "status"),
		RequestDuration:  r.NewHistogram("mocklet_request_duration_seconds", "Mock request latency in seconds.", DefBuckets, "method", "path"),
		MatchMissesTotal: r.NewCounter("mocklet_match_misses_total", "Requests that matched no rule."),
	}
}
