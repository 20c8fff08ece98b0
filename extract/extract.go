// Package extract pulls train status fields out of provider HTML. Every
// field is read through an ordered selector cascade so that layout drift on
// one provider degrades a single field instead of the whole record.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rule is one step in a field's cascade, tried in order. MinLen rejects
// matches whose cleaned text is shorter than the threshold, which keeps
// empty decorative elements from shadowing later rules.
type Rule struct {
	Selector string
	MinLen   int
}

var (
	whitespaceRE  = regexp.MustCompile(`\s+`)
	digitsRE      = regexp.MustCompile(`\d+`)
	stationCodeRE = regexp.MustCompile(`\b[A-Z]{4}\b`)
)

// CleanText collapses whitespace runs into single spaces and trims the ends.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// FirstText returns the cleaned text of the first rule that matches an
// element with usable text. Missing elements are expected, never an error;
// the second return reports whether any rule matched.
func FirstText(doc *goquery.Document, rules []Rule) (string, bool) {
	for _, r := range rules {
		sel := doc.Find(r.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := CleanText(sel.Text())
		if text == "" || len(text) < r.MinLen {
			continue
		}
		return text, true
	}
	return "", false
}

// DelayMinutes reads the first run of digits in the delay text, so
// "Running 12 min late" yields 12. Text without digits yields 0. Units and
// sign are not interpreted.
func DelayMinutes(text string) int {
	m := digitsRE.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// StationCodes finds the origin and terminus codes for the route. Tier one
// reads the elements the provider tags explicitly and keeps the first and
// last of at least two. When tagging is absent, tier two scans the page's
// visible text for four-letter uppercase tokens. The scan can catch
// non-station words ("HTML", tabular headings); the tagged tier always wins
// and callers fall back to placeholders when neither tier finds two codes.
func StationCodes(doc *goquery.Document, selector string) (source, destination string, ok bool) {
	var codes []string
	if selector != "" {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if text := CleanText(s.Text()); text != "" {
				codes = append(codes, text)
			}
		})
	}
	if len(codes) >= 2 {
		return codes[0], codes[len(codes)-1], true
	}
	tokens := stationCodeRE.FindAllString(visibleText(doc), -1)
	if len(tokens) >= 2 {
		return tokens[0], tokens[len(tokens)-1], true
	}
	return "", "", false
}

// visibleText returns the document text with script, style and noscript
// subtrees removed, working on a clone so the document stays intact for
// other extractors.
func visibleText(doc *goquery.Document) string {
	clone := doc.Selection.Clone()
	clone.Find("script, style, noscript").Remove()
	return clone.Text()
}
