package status

import (
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"unicode/utf8"
)

func TestMetricMap_StablePointer(t *testing.T) {
	reg := NewRegistry()
	a := reg.Ints.Get("sim.steps")
	a.Add(3)

	if b := reg.Ints.Get("sim.steps"); b != a || b.Load() != 3 {
		t.Fatalf("Expected cached pointer with value 3, got %p (%d)", b, b.Load())
	}
	if !reg.Ints.Has("sim.steps") || reg.Ints.Has("sim.missing") {
		t.Error("Has reports wrong membership")
	}
}

func TestMetricMap_ConcurrentGet(t *testing.T) {
	m := NewMetricMap[AtomicFloat]()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Get("sim.time").Add(1)
			}
		}()
	}
	wg.Wait()

	if got := m.Get("sim.time").Load(); got != 16000 {
		t.Errorf("Expected 16000, got %v", got)
	}
	if m.Count() != 1 {
		t.Errorf("Expected a single metric, got %d", m.Count())
	}
}

func TestMetricMap_RangeSorted(t *testing.T) {
	reg := NewRegistry()
	for _, k := range []string{"sim.time", "history.undo", "sim.steps"} {
		reg.Ints.Get(k)
	}

	var keys []string
	reg.Ints.Range(func(key string, _ *atomic.Int64) { keys = append(keys, key) })

	if strings.Join(keys, ",") != "history.undo,sim.steps,sim.time" {
		t.Errorf("Unexpected order %v", keys)
	}
}

func TestAtomicString_Truncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Fatal("Expected empty zero value")
	}

	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"short", "integrate", "integrate"},
		{"ascii", strings.Repeat("x", MaxLabelLen+10), strings.Repeat("x", MaxLabelLen)},
		// 31 bytes then a 3-byte rune straddling the cap
		{"rune boundary", strings.Repeat("x", MaxLabelLen-1) + "→y", strings.Repeat("x", MaxLabelLen-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Store(tt.in)
			if got := s.Load(); got != tt.expected || !utf8.ValidString(got) {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

type modeName string

func (m modeName) String() string { return string(m) }

func TestScope_ResolvesProducerKeys(t *testing.T) {
	reg := NewRegistry()
	sim := reg.Scope("sim")

	sim.Int("steps").Add(2)
	sim.Float("gravitational_constant").Store(1.5)
	sim.Label("gravity_mode").StoreLabel(modeName("approximate"))
	reg.Scope("audio").Bool("enabled").Store(true)

	if sim.Int("steps") != reg.Ints.Get("sim.steps") || reg.Ints.Get("sim.steps").Load() != 2 {
		t.Error("Scoped int not shared with registry key")
	}
	if reg.Floats.Get("sim.gravitational_constant").Load() != 1.5 {
		t.Error("Scoped float not shared with registry key")
	}
	if reg.Strings.Get("sim.gravity_mode").Load() != "approximate" {
		t.Error("Mode label not stored")
	}
	if !reg.Bools.Get("audio.enabled").Load() {
		t.Error("Scoped bool not shared with registry key")
	}

	var nilReg *Registry
	nilReg.Scope("sim").Int("steps").Add(1) // private registry, must not panic
}

func TestAtomicFloat_StoreMax(t *testing.T) {
	var f AtomicFloat

	steps := []struct {
		val      float64
		expected float64
	}{
		{60, 60},
		{20, 60},
		{75.5, 75.5},
		{math.NaN(), 75.5},
	}
	for i, s := range steps {
		if got := f.StoreMax(s.val); got != s.expected || f.Load() != s.expected {
			t.Errorf("Step %d: expected %v, got %v (held %v)", i, s.expected, got, f.Load())
		}
	}
}

func TestAtomicFloat_ConcurrentStoreMax(t *testing.T) {
	var f AtomicFloat
	var wg sync.WaitGroup
	for i := 1; i <= 64; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			f.StoreMax(v)
		}(float64(i))
	}
	wg.Wait()
	if f.Load() != 64 {
		t.Errorf("Expected peak 64, got %v", f.Load())
	}
}

func TestRegistry_TotalCount(t *testing.T) {
	reg := NewRegistry()
	reg.Ints.Get("a")
	reg.Floats.Get("b")
	reg.Bools.Get("c")
	reg.Strings.Get("d")
	if reg.TotalCount() != 4 {
		t.Errorf("Expected 4 metrics, got %d", reg.TotalCount())
	}
}
