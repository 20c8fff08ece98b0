package engine

import "time"

// dateLayout is the providers' query date format, day first.
const dateLayout = "02-01-2006"

// DatePolicy produces the candidate journey start dates for date-indexed
// providers. Long-distance runs are often en route on their second or third
// calendar day, so the ladder walks backwards from today. Dates are always
// computed in the railway's own timezone; the host clock's zone is
// irrelevant to where the train is.
type DatePolicy struct {
	Location *time.Location
	Days     int
	Now      func() time.Time
}

// Candidates returns the dates to try, most recent first, formatted
// dd-mm-yyyy.
func (p *DatePolicy) Candidates() []string {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	days := p.Days
	if days <= 0 {
		days = 3
	}
	local := now().In(p.Location)
	out := make([]string, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, local.AddDate(0, 0, -i).Format(dateLayout))
	}
	return out
}
