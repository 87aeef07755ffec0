package tui

const defaultHistorySize = 100

// History keeps previously asked questions for up/down navigation.
type History struct {
	entries []string
	index   int // -1 when not navigating
	maxSize int
}

// NewHistory creates a history retaining at most maxSize questions.
func NewHistory(maxSize int) *History {
	if maxSize <= 0 {
		maxSize = defaultHistorySize
	}
	return &History{
		entries: make([]string, 0, maxSize),
		index:   -1,
		maxSize: maxSize,
	}
}

// Add records a question. Empty questions and repeats of the latest one are
// skipped.
func (h *History) Add(q string) {
	h.index = -1
	if q == "" || (len(h.entries) > 0 && h.entries[len(h.entries)-1] == q) {
		return
	}
	h.entries = append(h.entries, q)
	if excess := len(h.entries) - h.maxSize; excess > 0 {
		h.entries = h.entries[excess:]
	}
}

// Previous moves one question back. At the oldest entry it stays there.
func (h *History) Previous() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.index == -1:
		h.index = len(h.entries) - 1
	case h.index > 0:
		h.index--
	}
	return h.entries[h.index], true
}

// Next moves one question forward. Moving past the newest entry ends
// navigation and returns false.
func (h *History) Next() (string, bool) {
	if h.index == -1 {
		return "", false
	}
	h.index++
	if h.index >= len(h.entries) {
		h.index = -1
		return "", false
	}
	return h.entries[h.index], true
}

// Len returns the number of retained questions.
func (h *History) Len() int {
	return len(h.entries)
}
