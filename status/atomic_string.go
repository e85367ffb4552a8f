package status

import (
	"fmt"
	"sync/atomic"
	"unicode/utf8"
)

// MaxLabelLen caps stored labels in bytes; mode names are far shorter
const MaxLabelLen = 32

// AtomicString holds a short label such as the active gravity mode
// Zero value holds ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the value, cut to at most MaxLabelLen bytes on a rune boundary
func (s *AtomicString) Store(val string) {
	if len(val) > MaxLabelLen {
		cut := MaxLabelLen
		for cut > 0 && !utf8.RuneStart(val[cut]) {
			cut--
		}
		val = val[:cut]
	}
	s.ptr.Store(&val)
}

// StoreLabel stores the name of a mode value
func (s *AtomicString) StoreLabel(l fmt.Stringer) {
	s.Store(l.String())
}

// Load returns the value
func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
