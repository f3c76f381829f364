package util

import "fmt"

// Truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut. Discord rejects over-length embed fields outright,
// so senders trim rather than fail.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// Plural formats a count with the unit's plural form, e.g. "1 rule",
// "3 rules".
func Plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
