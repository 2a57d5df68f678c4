package explorer

import "slices"

// History is a browser-style visit stack with a movable pointer.
// The zero value is an empty history.
type History struct {
	stack   []int
	pointer int
}

// Push records a visit. Entries beyond the pointer are discarded first.
// Pushing the id already at the pointer changes nothing and returns false.
func (h *History) Push(id int) bool {
	if cur, ok := h.Current(); ok && cur == id {
		return false
	}
	keep := 0
	if len(h.stack) > 0 {
		keep = h.pointer + 1
	}
	h.stack = append(h.stack[:keep], id)
	h.pointer = len(h.stack) - 1
	return true
}

// Current returns the id at the pointer.
func (h *History) Current() (int, bool) {
	if len(h.stack) == 0 {
		return 0, false
	}
	return h.stack[h.pointer], true
}

// CanBack reports whether Back would move.
func (h *History) CanBack() bool { return h.pointer > 0 }

// CanForward reports whether Forward would move.
func (h *History) CanForward() bool { return h.pointer < len(h.stack)-1 }

// Back moves the pointer one entry towards the start.
func (h *History) Back() (int, bool) {
	if !h.CanBack() {
		return 0, false
	}
	h.pointer--
	return h.stack[h.pointer], true
}

// Forward moves the pointer one entry towards the tip.
func (h *History) Forward() (int, bool) {
	if !h.CanForward() {
		return 0, false
	}
	h.pointer++
	return h.stack[h.pointer], true
}

// Entries returns a copy of the stack.
func (h *History) Entries() []int {
	return slices.Clone(h.stack)
}

// Pointer returns the index of the current entry, -1 when empty.
func (h *History) Pointer() int {
	if len(h.stack) == 0 {
		return -1
	}
	return h.pointer
}
