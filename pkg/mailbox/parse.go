package mailbox

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var codePattern = regexp.MustCompile(`^\d{6}$`)

// CodeFromHTML scans an HTML body for a paragraph whose text is exactly a
// six-digit code. The platform's verification emails carry the code as the
// sole content of a <p> element.
func CodeFromHTML(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var code string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if codePattern.MatchString(text) {
			code = text
			return false
		}
		return true
	})
	return code
}

// CodeFromText applies the same paragraph matching to a plain-text body by
// wrapping it the way the HTML variant arrives.
func CodeFromText(body string) string {
	return CodeFromHTML("<p>" + html.EscapeString(strings.TrimSpace(body)) + "</p>")
}
