package textutil

// Truncate shortens s to at most max runes, marking the cut with an
// ellipsis. Values of max below 4 cut without a marker.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 4 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
