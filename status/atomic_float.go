package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 gauge stored as its IEEE-754 bits
// Zero value holds 0.0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Store(val float64) { f.bits.Store(math.Float64bits(val)) }
func (f *AtomicFloat) Load() float64     { return math.Float64frombits(f.bits.Load()) }

// Add adds delta and returns the new value
func (f *AtomicFloat) Add(delta float64) float64 {
	return f.update(func(old float64) (float64, bool) { return old + delta, true })
}

// StoreMax raises the value to val if val is larger, as for a peak closing speed
// Returns the value held afterwards; NaN never replaces a number
func (f *AtomicFloat) StoreMax(val float64) float64 {
	return f.update(func(old float64) (float64, bool) { return val, val > old })
}

// update applies fn in a CAS loop; fn reports whether to write
func (f *AtomicFloat) update(fn func(old float64) (float64, bool)) float64 {
	for {
		raw := f.bits.Load()
		old := math.Float64frombits(raw)
		next, ok := fn(old)
		if !ok {
			return old
		}
		if f.bits.CompareAndSwap(raw, math.Float64bits(next)) {
			return next
		}
	}
}
