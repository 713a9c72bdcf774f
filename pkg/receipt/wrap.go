package receipt

import (
	"strings"
	"unicode"
)

// wrapText breaks s into lines no wider than width as reported by measure.
// Lines break between words; a single word wider than width is split between
// characters. Only runs of whitespace are collapsed.
func wrapText(s string, width float64, measure func(string) float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	cur := ""
	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if measure(candidate) <= width {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		for measure(w) > width {
			n := splitPoint(w, width, measure)
			lines = append(lines, w[:n])
			w = w[n:]
		}
		cur = w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// splitPoint is the byte length of the longest prefix of w that fits. It
// never cuts before a combining mark and never returns an empty prefix.
func splitPoint(w string, width float64, measure func(string) float64) int {
	end, first := 0, len(w)
	for i, r := range w {
		if i == 0 || unicode.Is(unicode.M, r) {
			continue
		}
		if first == len(w) {
			first = i
		}
		if measure(w[:i]) > width {
			break
		}
		end = i
	}
	if end == 0 {
		return first
	}
	return end
}
