// Package sources defines the status providers and the adapter that turns
// one provider page into a train status record. The providers differ only
// in their profiles; a single adapter implementation serves all of them.
package sources

import (
	"net/url"
	"strings"

	"railstatus/extract"
)

// Profile describes one provider: where to fetch and how to read the page.
type Profile struct {
	Key         string
	DisplayName string
	// URLTemplate carries a {trainNo} placeholder and, for date-indexed
	// providers, a {date} placeholder. Values are query-escaped on
	// substitution.
	URLTemplate string
	ProbeURL    string
	// DateIndexed providers answer for a specific journey start date and
	// get the full date ladder. The others always show the current run
	// and receive today's date for record metadata only.
	DateIndexed bool
	Headers     map[string]string

	NameRules     []extract.Rule
	StatusRules   []extract.Rule
	LocationRules []extract.Rule
	DelayRules    []extract.Rule
	// StationCodeSelector tags the provider's route elements. The
	// four-letter token scan in extract is the fallback when fewer than
	// two are present.
	StationCodeSelector string
}

// BuildURL substitutes the train number and date into the URL template.
func (p Profile) BuildURL(trainNo, date string) string {
	r := strings.NewReplacer(
		"{trainNo}", url.QueryEscape(trainNo),
		"{date}", url.QueryEscape(date),
	)
	return r.Replace(p.URLTemplate)
}

// baseHeaders mirrors a desktop browser's request profile. The providers
// answer bare library clients with empty or blocked pages.
func baseHeaders() map[string]string {
	return map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Accept-Encoding":           "gzip, deflate",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}
}
