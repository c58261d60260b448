// Package metrics provides a small in-process metrics registry for the
// mock server: request counters and latency histograms, exposed as JSON
// samples by the engine's introspection endpoint.
package metrics

import (
	"sort"
	"strings"
	"sync"
)

// Sample is a single metric observation with its resolved labels.
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// labelsKey builds a map key from label values. The separator is a byte
// that cannot appear in HTTP methods, paths, or status codes.
func labelsKey(values []string) string {
	return strings.Join(values, "\xff")
}

// Counter is a monotonically increasing metric partitioned by labels.
type Counter struct {
	name       string
	help       string
	labelNames []string
	mu         sync.Mutex
	values     map[string]*counterValue
}

type counterValue struct {
	labels map[string]string
	value  float64
}

// Inc increments the counter by 1 for the given label values.
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add adds delta to the counter for the given label values. Calls with
// the wrong number of label values are dropped.
func (c *Counter) Add(delta float64, labelValues ...string) {
	if len(labelValues) != len(c.labelNames) || delta < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cv := c.values[labelsKey(labelValues)]
	if cv == nil {
		cv = &counterValue{labels: zipLabels(c.labelNames, labelValues)}
		c.values[labelsKey(labelValues)] = cv
	}
	cv.value += delta
}

// Collect returns all counter samples.
func (c *Counter) Collect() []Sample {
	c.mu.Lock()
	defer c.mu.Unlock()
	samples := make([]Sample, 0, len(c.values))
	for _, cv := range c.values {
		samples = append(samples, Sample{Name: c.name, Labels: cv.labels, Value: cv.value})
	}
	return samples
}

// Histogram observes values into cumulative buckets, partitioned by labels.
type Histogram struct {
	name       string
	help       string
	labelNames []string
	buckets    []float64
	mu         sync.Mutex
	values     map[string]*histogramValue
}

type histogramValue struct {
	labels map[string]string
	counts []float64
	sum    float64
	count  float64
}

// Observe records a value for the given label values.
func (h *Histogram) Observe(v float64, labelValues ...string) {
	if len(labelValues) != len(h.labelNames) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	hv := h.values[labelsKey(labelValues)]
	if hv == nil {
		hv = &histogramValue{
			labels: zipLabels(h.labelNames, labelValues),
			counts: make([]float64, len(h.buckets)),
		}
		h.values[labelsKey(labelValues)] = hv
	}
	hv.sum += v
	hv.count++
	for i, le := range h.buckets {
		if v <= le {
			hv.counts[i]++
		}
	}
}

// Collect returns sum and count samples per label combination. Bucket
// counts stay internal; the JSON exposition only needs totals.
func (h *Histogram) Collect() []Sample {
	h.mu.Lock()
	defer h.mu.Unlock()
	samples := make([]Sample, 0, 2*len(h.values))
	for _, hv := range h.values {
		samples = append(samples,
			Sample{Name: h.name + "_sum", Labels: hv.labels, Value: hv.sum},
			Sample{Name: h.name + "_count", Labels: hv.labels, Value: hv.count},
		)
	}
	return samples
}

func zipLabels(names, values []string) map[string]string {
	labels := make(map[string]string, len(names))
	for i, name := range names {
		labels[name] = values[i]
	}
	return labels
}

// collector is implemented by all metric types held in a Registry.
type collector interface {
	Collect() []Sample
}

// Registry holds a set of metrics and collects their samples together.
type Registry struct {
	mu         sync.Mutex
	collectors []collector
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewCounter creates and registers a counter.
func (r *Registry) NewCounter(name, help string, labelNames ...string) *Counter {
	c := &Counter{
		name:       name,
		help:       help,
		labelNames: labelNames,
		values:     make(map[string]*counterValue),
	}
	r.mu.Lock()
	r.collectors = append(r.collectors, c)
	r.mu.Unlock()
	return c
}

// NewHistogram creates and registers a histogram with the given bucket
// upper bounds (which must be sorted ascending).
func (r *Registry) NewHistogram(name, help string, buckets []float64, labelNames ...string) *Histogram {
	h := &Histogram{
		name:       name,
		help:       help,
		labelNames: labelNames,
		buckets:    buckets,
		values:     make(map[string]*histogramValue),
	}
	r.mu.Lock()
	r.collectors = append(r.collectors, h)
	r.mu.Unlock()
	return h
}

// Collect returns the samples of every registered metric, sorted by name
// for stable exposition output.
func (r *Registry) Collect() []Sample {
	r.mu.Lock()
	collectors := make([]collector, len(r.collectors))
	copy(collectors, r.collectors)
	r.mu.Unlock()

	var samples []Sample
	for _, c := range collectors {
		samples = append(samples, c.Collect()...)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples
}
