// Package htmltext turns HTML fragments into plain text.
package htmltext

import (
	"strings"

	nethtml "golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "th": true, "blockquote": true, "section": true,
}

// Strip removes markup, drops script/style bodies, decodes entities and
// collapses whitespace. Block-level tags separate words.
func Strip(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}

	var b strings.Builder
	skipDepth := 0
	z := nethtml.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			return collapse(b.String())
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && tt == nethtml.StartTagToken {
				skipDepth++
				continue
			}
			if blockElements[tag] {
				b.WriteByte(' ')
			}
		case nethtml.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skipDepth > 0 {
				skipDepth--
				continue
			}
			if blockElements[tag] {
				b.WriteByte(' ')
			}
		case nethtml.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// WordCount counts the words of the plain-text rendition of fragment.
func WordCount(fragment string) int {
	return len(strings.Fields(Strip(fragment)))
}

// Truncate cuts s to at most max runes on a word boundary, adding an ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
