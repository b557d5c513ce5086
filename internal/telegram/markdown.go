package telegram

import (
	"strings"
	"unicode/utf8"
)

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// SplitMessage splits text into chunks of at most maxLen runes, breaking at
// line ends where possible.
func SplitMessage(text string, maxLen int) []string {
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var parts []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen == 0 {
			return
		}
		parts = append(parts, strings.TrimRight(cur.String(), "\n"))
		cur.Reset()
		curLen = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for _, piece := range hardWrap(line, maxLen) {
			n := utf8.RuneCountInString(piece)
			if curLen+n > maxLen {
				flush()
			}
			cur.WriteString(piece)
			curLen += n
		}
	}
	flush()
	return parts
}

// hardWrap cuts a single line that is longer than the budget.
func hardWrap(line string, budget int) []string {
	r := []rune(line)
	if len(r) <= budget {
		return []string{line}
	}
	var out []string
	for len(r) > budget {
		out = append(out, string(r[:budget]))
		r = r[budget:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}
