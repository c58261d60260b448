package engine

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocklet/mocklet/pkg/metrics"
	"github.com/mocklet/mocklet/pkg/rule"
)

func startTestServer(t *testing.T, rules *rule.Set, opts ...ServerOption) *Server {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Port = 0 // ephemeral
	srv := NewServer(rules, cfg, opts...)
	require.NoError(t, srv.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})
	return srv
}

func serverURL(srv *Server, path string) string {
	port := srv.Addr().(*net.TCPAddr).Port
	return fmt.Sprintf("http://127.0.0.1:%d%s", port, path)
}

func TestServerServesRules(t *testing.T) {
	rules := rule.NewSet([]rule.Rule{
		rule.New("/test", "GET", 200, "", map[string]any{"message": "test response"}, nil),
	})
	srv := startTestServer(t, rules)

	resp, err := http.Get(serverURL(srv, "/test"))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"message": "test response"}`, string(body))
}

func TestServerFallback404(t *testing.T) {
	srv := startTestServer(t, rule.NewSet(nil))

	resp, err := http.Get(serverURL(srv, "/nonexistent"))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 404, resp.StatusCode)
	assert.JSONEq(t, `{"error": "Route not found"}`, string(body))
}

func TestServerWithMetricsRecordsRequests(t *testing.T) {
	set := metrics.NewSet()
	rules := rule.NewSet([]rule.Rule{
		rule.New("/ping", "GET", 200, "text/plain", "pong", nil),
	})
	srv := startTestServer(t, rules, WithMetrics(set))

	resp, err := http.Get(serverURL(srv, "/ping"))
	require.NoError(t, err)
	resp.Body.Close()

	samples := set.RequestsTotal.Collect()
	require.Len(t, samples, 1)
	assert.Equal(t, "200", samples[0].Labels["status"])

	// The metrics endpoint exposes the samples.
	resp, err = http.Get(serverURL(srv, "/__mocklet/metrics"))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "mocklet_requests_total")
}

func TestServerDoubleStartFails(t *testing.T) {
	srv := startTestServer(t, rule.NewSet(nil))
	assert.Error(t, srv.Start())
}

func TestServerStopIdempotent(t *testing.T) {
	srv := startTestServer(t, rule.NewSet(nil))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, srv.Stop(ctx))
}

func TestServerAddrBeforeStart(t *testing.T) {
	srv := NewServer(rule.NewSet(nil), DefaultConfig())
	assert.Nil(t, srv.Addr())
}
