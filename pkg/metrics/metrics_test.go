package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterLabels(t *testing.T) {
	r := NewRegistry()
	c := r.NewCounter("requests_total", "test", "method", "status")

	c.Inc("GET", "200")
	c.Inc("GET", "200")
	c.Inc("POST", "404")

	samples := c.Collect()
	require.Len(t, samples, 2)

	byStatus := map[string]float64{}
	for _, s := range samples {
		byStatus[s.Labels["status"]] = s.Value
	}
	assert.Equal(t, float64(2), byStatus["200"])
	assert.Equal(t, float64(1), byStatus["404"])
}

func TestCounterDropsBadCalls(t *testing.T) {
	r := NewRegistry()
	c := r.NewCounter("c", "test", "method")

	c.Inc()                      // missing label
	c.Inc("GET", "extra")        // too many labels
	c.Add(-1, "GET")             // negative delta
	assert.Empty(t, c.Collect()) // nothing recorded
}

func TestHistogramObserve(t *testing.T) {
	r := NewRegistry()
	h := r.NewHistogram("duration_seconds", "test", DefBuckets, "method")

	h.Observe(0.002, "GET")
	h.Observe(0.2, "GET")

	samples := h.Collect()
	require.Len(t, samples, 2)

	byName := map[string]float64{}
	for _, s := range samples {
		byName[s.Name] = s.Value
	}
	assert.InDelta(t, 0.202, byName["duration_seconds_sum"], 1e-9)
	assert.Equal(t, float64(2), byName["duration_seconds_count"])
}

func TestRegistryCollectSorted(t *testing.T) {
	r := NewRegistry()
	b := r.NewCounter("b_total", "test")
	a := r.NewCounter("a_total", "test")
	b.Inc()
	a.Inc()

	samples := r.Collect()
	require.Len(t, samples, 2)
	assert.Equal(t, "a_total", samples[0].Name)
	assert.Equal(t, "b_total", samples[1].Name)
}

func TestNewSet(t *testing.T) {
	set := NewSet()

	set.RequestsTotal.Inc("GET", "test", "200")
	set.RequestDuration.Observe(0.01, "GET", "test")
	set.MatchMissesTotal.Inc()

	samples := set.Registry.Collect()
	assert.Len(t, samples, 4) // counter + hist sum/count + misses
}
