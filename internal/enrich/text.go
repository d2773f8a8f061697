package enrich

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t\f\r\x{00a0}]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

// PlainText converts a posting body to readable plain text. Board APIs often
// return the HTML entity-escaped, so escaped markup is decoded before parsing.
func PlainText(body string) string {
	if body == "" {
		return ""
	}
	if !strings.Contains(body, "<") && strings.Contains(body, "&lt;") {
		body = html.UnescapeString(body)
	}
	if !strings.Contains(body, "<") {
		return normalizeWhitespace(html.UnescapeString(body))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return normalizeWhitespace(body)
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("\n• ")
	doc.Find("p, div, h1, h2, h3, h4, h5, h6, ul, ol, li, tr").AppendHtml("\n")

	return normalizeWhitespace(doc.Text())
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
