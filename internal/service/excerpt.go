package service

import (
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Excerpt returns the visible text of an HTML fragment, whitespace
// collapsed, cut to at most max runes with a trailing ellipsis.
func Excerpt(fragment string, max int) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	skip := 0
loop:
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return ""
			}
			break loop
		case html.StartTagToken:
			if name, _ := z.TagName(); isRaw(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if name, _ := z.TagName(); isRaw(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}

	text := strings.Join(strings.FieldsFunc(b.String(), unicode.IsSpace), " ")
	runes := []rune(text)
	if max <= 0 || len(runes) <= max {
		return text
	}
	cut := strings.TrimRightFunc(string(runes[:max]), unicode.IsSpace)
	return cut + "…"
}

func isRaw(name []byte) bool {
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
