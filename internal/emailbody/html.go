package emailbody

import (
	"strings"

	"golang.org/x/net/html"
)

// htmlToText keeps the visible text of an HTML document, one space between
// runs, dropping script and style contents.
func htmlToText(src string) string {
	z := html.NewTokenizer(strings.NewReader(src))

	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); isHidden(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isHidden(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func isHidden(tag []byte) bool {
	switch string(tag) {
	case "script", "style", "head", "title":
		return true
	}
	return false
}
