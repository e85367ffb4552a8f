// Package status is a lock-free metrics registry shared by the simulation,
// its service layer and the front-end, with a Prometheus bridge
package status

import "sync/atomic"

// Registry groups metric maps by value type
// Producers cache pointers at construction and write atomics directly
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns the number of metrics across all maps
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Scope returns the key namespace of one producer: "sim", "history", "audio"
// A nil registry yields a scope over a private registry
func (r *Registry) Scope(producer string) Scope {
	if r == nil {
		r = NewRegistry()
	}
	return Scope{reg: r, prefix: producer + "."}
}

// Scope resolves producer-relative names, Scope("sim").Int("steps") is "sim.steps"
type Scope struct {
	reg    *Registry
	prefix string
}

func (s Scope) Int(name string) *atomic.Int64   { return s.reg.Ints.Get(s.prefix + name) }
func (s Scope) Float(name string) *AtomicFloat  { return s.reg.Floats.Get(s.prefix + name) }
func (s Scope) Bool(name string) *atomic.Bool   { return s.reg.Bools.Get(s.prefix + name) }
func (s Scope) Label(name string) *AtomicString { return s.reg.Strings.Get(s.prefix + name) }
