package format

// Preview returns s cut to at most length runes, marking the cut with "...".
func Preview(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length]) + "..."
}
