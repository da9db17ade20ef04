package geometry

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainText reduces a label to the text a reader would see. Labels may carry
// HTML: known tags are dropped, <br> and block closers become line breaks
// and every entity is decoded. Anything the HTML tokenizer reads as text,
// such as "a < b", is kept as typed, and so are tags with no HTML meaning.
func PlainText(content string) string {
	if !strings.ContainsAny(content, "<&") {
		return strings.TrimRight(content, "\n")
	}

	var b strings.Builder
	b.Grow(len(content))
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimRight(strings.ReplaceAll(b.String(), "\u00a0", " "), "\n")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			raw := string(z.Raw())
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == 0:
				b.WriteString(raw)
			case a == atom.Br && tt != html.EndTagToken:
				b.WriteByte('\n')
			case tt == html.EndTagToken && breaksLine(a):
				b.WriteByte('\n')
			}
		}
	}
}

func breaksLine(a atom.Atom) bool {
	switch a {
	case atom.Div, atom.P, atom.Li:
		return true
	}
	return false
}

// Lines splits a label into display lines. An empty label is one empty line.
func Lines(content string) []string {
	text := PlainText(content)
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
