// Package clip connects the editor's clipboard to the system clipboard and
// turns whatever text the system hands back into plain node labels.
package clip

import (
	"strconv"
	"strings"

	"mindterm/geometry"
)

// CleanText converts clipboard text to plain text: RTF and HTML markup is
// removed, control characters are dropped and line endings become "\n".
func CleanText(text string) string {
	switch {
	case text == "":
		return ""
	case isRTF(text):
		text = rtfText(text)
	case isHTML(text):
		text = geometry.PlainText(text)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r >= 32 && r != 127 {
			return r
		}
		return -1
	}, text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), `{\rtf`)
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "<") {
		return false
	}
	lower := strings.ToLower(t)
	for _, tag := range []string{"<html", "<body", "<div", "<p", "<span", "<meta"} {
		if strings.Contains(lower, tag) {
			return true
		}
	}
	return false
}

// Groups whose content is metadata, never document text.
var rtfSkipGroups = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"listtable":  true,
}

// rtfText extracts the visible text of an RTF document.
func rtfText(rtf string) string {
	var b strings.Builder
	b.Grow(len(rtf))
	for i := 0; i < len(rtf); i++ {
		switch c := rtf[i]; c {
		case '{':
			if rtfSkippable(rtf[i+1:]) {
				i = rtfGroupEnd(rtf, i)
			}
		case '}', '\r', '\n':
		case '\\':
			i = rtfControl(rtf, i, &b)
		default:
			if c >= 32 && c < 127 || c == '\t' {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

// rtfSkippable reports whether a group starting with rest is a metadata
// group: an ignorable destination (\*) or a known table.
func rtfSkippable(rest string) bool {
	if strings.HasPrefix(rest, `\*`) {
		return true
	}
	if !strings.HasPrefix(rest, `\`) {
		return false
	}
	word := rest[1:]
	end := 0
	for end < len(word) && isLetter(word[end]) {
		end++
	}
	return rtfSkipGroups[word[:end]]
}

// rtfGroupEnd returns the index of the brace closing the group opened at
// start.
func rtfGroupEnd(rtf string, start int) int {
	depth := 0
	for i := start; i < len(rtf); i++ {
		switch rtf[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(rtf) - 1
}

// rtfControl handles the control sequence starting at the backslash at i
// and returns the index of its last byte.
func rtfControl(rtf string, i int, b *strings.Builder) int {
	if i+1 >= len(rtf) {
		return i
	}
	switch next := rtf[i+1]; {
	case next == '\'':
		if i+3 < len(rtf) {
			if v, err := strconv.ParseUint(rtf[i+2:i+4], 16, 8); err == nil {
				b.WriteRune(rune(v))
				return i + 3
			}
		}
		return i + 1
	case next == '\\' || next == '{' || next == '}':
		b.WriteByte(next)
		return i + 1
	case next == '~':
		b.WriteByte(' ')
		return i + 1
	case next == '_':
		b.WriteByte('-')
		return i + 1
	case next == '\n' || next == '\r':
		b.WriteByte('\n')
		return i + 1
	case isLetter(next):
		j := i + 1
		for j < len(rtf) && isLetter(rtf[j]) {
			j++
		}
		word := rtf[i+1 : j]
		if j < len(rtf) && (rtf[j] == '-' || isDigit(rtf[j])) {
			j++
			for j < len(rtf) && isDigit(rtf[j]) {
				j++
			}
		}
		switch word {
		case "par", "line":
			b.WriteByte('\n')
		case "tab":
			b.WriteByte('\t')
		}
		if j < len(rtf) && rtf[j] == ' ' {
			return j
		}
		return j - 1
	default:
		return i + 1
	}
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
