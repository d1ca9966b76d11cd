package render

import (
	"strings"
	"unicode/utf8"
)

// WrapLog splits a log entry on newlines, word-wraps each line to width
// characters and keeps at most maxLines lines.
func WrapLog(text string, width, maxLines int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if utf8.RuneCountInString(line) <= width {
			lines = append(lines, line)
			continue
		}

		current := ""
		for _, word := range strings.Split(line, " ") {
			if utf8.RuneCountInString(current+word+" ") <= width {
				current += word + " "
				continue
			}
			if current != "" {
				lines = append(lines, strings.TrimSpace(current))
			}
			current = word + " "
		}
		if current != "" {
			lines = append(lines, strings.TrimSpace(current))
		}
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
