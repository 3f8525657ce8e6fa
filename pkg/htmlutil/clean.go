// Package htmlutil turns catalog strings that may carry markup into plain
// display text.
package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
)

// CleanText drops any HTML tags, decodes entities and collapses whitespace to
// single spaces. Tags count as word breaks.
func CleanText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF, or input the tokenizer gave up on.
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}
