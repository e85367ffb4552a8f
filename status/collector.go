package status

import (
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes a Registry to Prometheus
// Keys become metric names with dots replaced by underscores, prefixed by namespace
// Ints and Floats are gauges unless listed as counters; Bools are 0/1 gauges;
// Strings are info-style gauges fixed at 1 with the value in a "value" label
//
// Metrics appear as producers register them, so the collector is unchecked
type Collector struct {
	reg       *Registry
	namespace string
	counters  map[string]bool
}

// NewCollector wraps reg; counters names keys that only ever increase
func NewCollector(reg *Registry, namespace string, counters ...string) *Collector {
	c := &Collector{
		reg:       reg,
		namespace: namespace,
		counters:  make(map[string]bool, len(counters)),
	}
	for _, k := range counters {
		c.counters[k] = true
	}
	return c
}

// Describe implements prometheus.Collector; sends nothing
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.reg.Ints.Range(func(key string, v *atomic.Int64) {
		ch <- prometheus.MustNewConstMetric(c.desc(key, nil), c.valueType(key), float64(v.Load()))
	})
	c.reg.Floats.Range(func(key string, v *AtomicFloat) {
		ch <- prometheus.MustNewConstMetric(c.desc(key, nil), c.valueType(key), v.Load())
	})
	c.reg.Bools.Range(func(key string, v *atomic.Bool) {
		val := 0.0
		if v.Load() {
			val = 1
		}
		ch <- prometheus.MustNewConstMetric(c.desc(key, nil), prometheus.GaugeValue, val)
	})
	c.reg.Strings.Range(func(key string, v *AtomicString) {
		ch <- prometheus.MustNewConstMetric(c.desc(key, []string{"value"}), prometheus.GaugeValue, 1, v.Load())
	})
}

func (c *Collector) desc(key string, labels []string) *prometheus.Desc {
	name := prometheus.BuildFQName(c.namespace, "", MetricName(key))
	return prometheus.NewDesc(name, key, labels, nil)
}

func (c *Collector) valueType(key string) prometheus.ValueType {
	if c.counters[key] {
		return prometheus.CounterValue
	}
	return prometheus.GaugeValue
}

// MetricName converts a registry key to a Prometheus metric name
func MetricName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}
