// Package timeseries stores append-only, time-indexed value histories
//
// A Series never shrinks from the front: it is seeded on construction, grows
// with AddLast and is truncated from the back with ClearAfter when the
// timeline is rewound. Lookups binary search for the latest entry at or
// before the requested time.
package timeseries

import "fmt"

// Time is the set of supported time axes
// Integer for the logical clock, float64 for tick-local solver time
type Time interface {
	~int | ~int64 | ~float64
}

// Entry is a single timestamped value
type Entry[T Time, V any] struct {
	Time  T
	Value V
}

// Series is an ordered sequence of entries with strictly increasing time
type Series[T Time, V any] struct {
	entries []Entry[T, V]
}

// New creates a series seeded with one entry
func New[T Time, V any](time T, value V) *Series[T, V] {
	return &Series[T, V]{
		entries: []Entry[T, V]{{Time: time, Value: value}},
	}
}

// Len returns the number of entries
func (s *Series[T, V]) Len() int {
	return len(s.entries)
}

// Last returns the most recent value
func (s *Series[T, V]) Last() V {
	return s.entries[len(s.entries)-1].Value
}

// LastTime returns the time of the most recent entry
func (s *Series[T, V]) LastTime() T {
	return s.entries[len(s.entries)-1].Time
}

// FirstTime returns the time of the seed entry
func (s *Series[T, V]) FirstTime() T {
	return s.entries[0].Time
}

// AddLast appends an entry, replacing the last one when times are equal
// Panics on out of order writes: a caller broke the timeline invariant
func (s *Series[T, V]) AddLast(time T, value V) {
	last := len(s.entries) - 1
	switch lastTime := s.entries[last].Time; {
	case time == lastTime:
		s.entries[last] = Entry[T, V]{Time: time, Value: value}
	case time > lastTime:
		s.entries = append(s.entries, Entry[T, V]{Time: time, Value: value})
	default:
		panic(fmt.Sprintf("timeseries: out of order addition at %v, last entry at %v", time, lastTime))
	}
}

// ClearAfter removes every entry strictly after time
// Panics if time precedes the seed entry, which would empty the series
func (s *Series[T, V]) ClearAfter(time T) {
	i := s.indexNotAfter(time)
	clear(s.entries[i+1:])
	s.entries = s.entries[:i+1]
}

// FirstNotAfter returns the value at the greatest recorded time <= time
func (s *Series[T, V]) FirstNotAfter(time T) V {
	return s.entries[s.indexNotAfter(time)].Value
}

// EntryNotAfter returns the entry at the greatest recorded time <= time
func (s *Series[T, V]) EntryNotAfter(time T) Entry[T, V] {
	return s.entries[s.indexNotAfter(time)]
}

// Entries returns a copy of all entries in time order
func (s *Series[T, V]) Entries() []Entry[T, V] {
	out := make([]Entry[T, V], len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Series[T, V]) indexNotAfter(time T) int {
	last := len(s.entries) - 1
	// Most lookups target the present
	if s.entries[last].Time <= time {
		return last
	}
	if time < s.entries[0].Time {
		panic(fmt.Sprintf("timeseries: lookup at %v precedes first entry at %v", time, s.entries[0].Time))
	}

	low, high := 0, last
	for low <= high {
		mid := low + (high-low)/2
		if s.entries[mid].Time <= time {
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return high
}
