// Package history is a linear undo/redo log over plain records
//
// Entries hold records, not closures; a single apply function supplied by the
// owner interprets every record, so the log can be inspected and serialized.
// Appending a new entry discards the redo stack: the history never branches.
package history

// Entry pairs the records that revert an action with those that replay it
// Records are applied in slice order
type Entry[R any] struct {
	Undo []R `json:"undo"`
	Redo []R `json:"redo"`
}

// Builder assembles an Entry
type Builder[R any] struct {
	entry Entry[R]
}

// NewBuilder returns an empty builder
func NewBuilder[R any]() *Builder[R] {
	return &Builder[R]{}
}

// Undo appends a record to apply when the entry is undone
func (b *Builder[R]) Undo(r R) *Builder[R] {
	b.entry.Undo = append(b.entry.Undo, r)
	return b
}

// Redo appends a record to apply when the entry is redone
func (b *Builder[R]) Redo(r R) *Builder[R] {
	b.entry.Redo = append(b.entry.Redo, r)
	return b
}

// Build returns the assembled entry
func (b *Builder[R]) Build() Entry[R] {
	return b.entry
}

// History holds the undo and redo stacks
type History[R any] struct {
	apply func(R)
	undos []Entry[R]
	redos []Entry[R]
}

// New creates an empty history interpreting records with apply
func New[R any](apply func(R)) *History[R] {
	return &History[R]{apply: apply}
}

// Append records an already performed action and clears the redo stack
func (h *History[R]) Append(e Entry[R]) {
	clear(h.redos)
	h.redos = h.redos[:0]
	h.undos = append(h.undos, e)
}

// Undo reverts the latest entry; returns false when there is nothing to undo
func (h *History[R]) Undo() bool {
	n := len(h.undos)
	if n == 0 {
		return false
	}
	e := h.undos[n-1]
	h.undos = h.undos[:n-1]

	for _, r := range e.Undo {
		h.apply(r)
	}
	h.redos = append(h.redos, e)
	return true
}

// Redo replays the latest undone entry; returns false when there is nothing to redo
func (h *History[R]) Redo() bool {
	n := len(h.redos)
	if n == 0 {
		return false
	}
	e := h.redos[n-1]
	h.redos = h.redos[:n-1]

	for _, r := range e.Redo {
		h.apply(r)
	}
	h.undos = append(h.undos, e)
	return true
}

func (h *History[R]) CanUndo() bool { return len(h.undos) > 0 }
func (h *History[R]) CanRedo() bool { return len(h.redos) > 0 }

// Len returns the undo and redo stack depths
func (h *History[R]) Len() (undo, redo int) {
	return len(h.undos), len(h.redos)
}
