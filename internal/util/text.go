package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	numberedItem = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+(.+)$`)
)

// NormalizeText puts extracted or generated text into a stable form: NFC,
// LF line endings, no trailing spaces and at most one blank line in a row.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\u00a0", " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ParseNumberedList returns the items of a "1. foo" / "2) bar" / "- baz"
// list. Lines that are not list items are appended to the previous item.
func ParseNumberedList(s string) []string {
	var items []string
	for _, line := range strings.Split(NormalizeText(s), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := numberedItem.FindStringSubmatch(line); m != nil {
			items = append(items, strings.TrimSpace(m[1]))
			continue
		}
		if len(items) > 0 {
			items[len(items)-1] += " " + line
		}
	}
	return items
}

// ExtractJSONObject returns the outermost {...} span of s, dropping code
// fences and chatter models put around JSON answers. ok is false when no
// object is present.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
