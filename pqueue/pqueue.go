// Package pqueue provides a binary heap ordered by an injected comparator
package pqueue

// Less reports whether a must be extracted before b
// Must return false for equal priority
type Less[T any] func(a, b T) bool

// Queue is a binary heap; the item for which Less holds against all others is at the root
type Queue[T any] struct {
	items []T
	less  Less[T]
}

// New creates an empty queue ordered by less
func New[T any](less Less[T]) *Queue[T] {
	return &Queue[T]{less: less}
}

// Len returns the number of queued items
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// IsEmpty reports whether the queue holds no items
func (q *Queue[T]) IsEmpty() bool {
	return len(q.items) == 0
}

// Add inserts t. O(log n)
func (q *Queue[T]) Add(t T) {
	q.items = append(q.items, t)
	q.up(len(q.items) - 1)
}

// Peek returns the highest priority item without removing it
// Panics on empty queue
func (q *Queue[T]) Peek() T {
	if len(q.items) == 0 {
		panic("pqueue: peek on empty queue")
	}
	return q.items[0]
}

// Extract removes and returns the highest priority item. O(log n)
// Panics on empty queue
func (q *Queue[T]) Extract() T {
	if len(q.items) == 0 {
		panic("pqueue: extract from empty queue")
	}
	top := q.items[0]
	q.removeAt(0)
	return top
}

// RemoveIf removes every item matching pred and returns the count removed
// Survivors are compacted in place and re-heapified, so pred sees each item exactly once
func (q *Queue[T]) RemoveIf(pred func(T) bool) int {
	kept := q.items[:0]
	for _, item := range q.items {
		if !pred(item) {
			kept = append(kept, item)
		}
	}
	removed := len(q.items) - len(kept)
	if removed == 0 {
		return 0
	}

	var zero T
	for i := len(kept); i < len(q.items); i++ {
		q.items[i] = zero
	}
	q.items = kept
	for i := len(q.items)/2 - 1; i >= 0; i-- {
		q.down(i)
	}
	return removed
}

// removeAt promotes the last item into slot i and restores heap order
func (q *Queue[T]) removeAt(i int) {
	last := len(q.items) - 1
	if i != last {
		q.items[i] = q.items[last]
	}
	var zero T
	q.items[last] = zero
	q.items = q.items[:last]

	if i < len(q.items) {
		// Promoted leaf may belong above the hole when i is not the root
		q.up(i)
		q.down(i)
	}
}

func (q *Queue[T]) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(q.items[i], q.items[parent]) {
			break
		}
		q.items[parent], q.items[i] = q.items[i], q.items[parent]
		i = parent
	}
}

func (q *Queue[T]) down(i int) {
	n := len(q.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		best := left
		if right := left + 1; right < n && q.less(q.items[right], q.items[left]) {
			best = right
		}
		if !q.less(q.items[best], q.items[i]) {
			break
		}
		q.items[i], q.items[best] = q.items[best], q.items[i]
		i = best
	}
}
