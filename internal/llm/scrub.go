package llm

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ScrubHTML strips markup a model occasionally wraps around its answer so
// only readable text is stored. Plain text (including markdown) passes
// through untouched.
func ScrubHTML(s string) string {
	if !strings.Contains(s, "<") || !strings.Contains(s, ">") {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style, iframe").Each(func(i int, sel *goquery.Selection) {
		sel.Remove()
	})

	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return s
	}
	return text
}
