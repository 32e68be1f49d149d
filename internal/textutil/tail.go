package textutil

import "strings"

// TailBuffer retains the most recent lines appended to it. It is used to
// surface the end of subprocess output in error messages without holding
// the full stream in memory.
type TailBuffer struct {
	capacity int
	lines    []string
}

// NewTailBuffer returns a buffer that keeps up to capacity lines.
func NewTailBuffer(capacity int) *TailBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &TailBuffer{capacity: capacity}
}

// Append adds a line, evicting the oldest one once the buffer is full.
func (b *TailBuffer) Append(line string) {
	if len(b.lines) == b.capacity {
		copy(b.lines, b.lines[1:])
		b.lines = b.lines[:len(b.lines)-1]
	}
	b.lines = append(b.lines, line)
}

// Len reports how many lines the buffer currently holds.
func (b *TailBuffer) Len() int {
	return len(b.lines)
}

// String joins the retained lines with newlines.
func (b *TailBuffer) String() string {
	return strings.Join(b.lines, "\n")
}
