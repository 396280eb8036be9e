package status

import (
	"sort"
	"strings"
	"time"

	"github.com/armon/go-metrics"
	"github.com/pkg/errors"
)

// Metric keys written by the frame loop and spawners
const (
	KeyFrames       = "frames"
	KeySpawnSkipped = "spawn.skipped"
	KeySpawned      = "spawn.created"
	KeyRemoved      = "entity.removed"
	KeyStagePrefix  = "stage."
	KeyPoolPrefix   = "pool."
)

// Registry is the central metrics facade over an in-memory go-metrics sink
// Frame code writes through it; the status overlay and tests read snapshots
type Registry struct {
	service string
	sink    *metrics.InmemSink
	metrics *metrics.Metrics
}

// NewRegistry creates a registry aggregating over interval, retaining retain
func NewRegistry(service string, interval, retain time.Duration) (*Registry, error) {
	sink := metrics.NewInmemSink(interval, retain)

	cfg := metrics.DefaultConfig(service)
	cfg.EnableHostname = false
	cfg.EnableHostnameLabel = false
	cfg.EnableRuntimeMetrics = false

	m, err := metrics.New(cfg, sink)
	if err != nil {
		return nil, errors.Wrap(err, "metrics init")
	}
	return &Registry{service: service, sink: sink, metrics: m}, nil
}

// Incr adds n to a counter
func (r *Registry) Incr(key string, n float32) {
	r.metrics.IncrCounter(splitKey(key), n)
}

// Gauge sets an instantaneous value
func (r *Registry) Gauge(key string, v float32) {
	r.metrics.SetGauge(splitKey(key), v)
}

// MeasureSince records elapsed time since start as a sample in milliseconds
func (r *Registry) MeasureSince(key string, start time.Time) {
	r.metrics.MeasureSince(splitKey(key), start)
}

// GaugeValue returns the latest value of a gauge in the current interval
func (r *Registry) GaugeValue(key string) (float32, bool) {
	im := r.latest()
	if im == nil {
		return 0, false
	}
	im.RLock()
	defer im.RUnlock()
	g, ok := im.Gauges[r.fullName(key)]
	return g.Value, ok
}

// CounterSum returns the sum of a counter in the current interval
func (r *Registry) CounterSum(key string) float64 {
	im := r.latest()
	if im == nil {
		return 0
	}
	im.RLock()
	defer im.RUnlock()
	c, ok := im.Counters[r.fullName(key)]
	if !ok || c.AggregateSample == nil {
		return 0
	}
	return c.Sum
}

// SampleMean returns the mean of a timing sample in the current interval
func (r *Registry) SampleMean(key string) (float64, bool) {
	im := r.latest()
	if im == nil {
		return 0, false
	}
	im.RLock()
	defer im.RUnlock()
	s, ok := im.Samples[r.fullName(key)]
	if !ok || s.AggregateSample == nil {
		return 0, false
	}
	return s.AggregateSample.Mean(), true
}

// Gauges returns the current interval's gauges sorted by name, service prefix stripped
func (r *Registry) Gauges() []Entry {
	im := r.latest()
	if im == nil {
		return nil
	}
	im.RLock()
	defer im.RUnlock()

	out := make([]Entry, 0, len(im.Gauges))
	prefix := r.service + "."
	for name, g := range im.Gauges {
		out = append(out, Entry{Name: strings.TrimPrefix(name, prefix), Value: g.Value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Entry is one named metric value
type Entry struct {
	Name  string
	Value float32
}

func (r *Registry) latest() *metrics.IntervalMetrics {
	data := r.sink.Data()
	if len(data) == 0 {
		return nil
	}
	return data[len(data)-1]
}

func (r *Registry) fullName(key string) string {
	if r.service == "" {
		return key
	}
	return r.service + "." + key
}

func splitKey(key string) []string {
	return strings.Split(key, ".")
}
