// Package dates rewrites relative date phrases in a question into absolute
// YYYYMMDD dates the SQL generator can use directly.
package dates

import (
	"fmt"
	"regexp"
	"time"
)

// Layout is the date format written into rewritten questions.
const Layout = "20060102"

type rule struct {
	phrase  string
	pattern *regexp.Regexp
	replace func(today time.Time) string
}

func newRule(phrase string, replace func(today time.Time) string) rule {
	return rule{
		phrase:  phrase,
		pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`),
		replace: replace,
	}
}

// rules are tried in order; only the first matching phrase is rewritten.
var rules = func() []rule {
	rs := []rule{
		newRule("today", func(today time.Time) string {
			return onDate(today)
		}),
		newRule("yesterday", func(today time.Time) string {
			return onDate(today.AddDate(0, 0, -1))
		}),
		newRule("last month", func(today time.Time) string {
			firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
			lastOfPrev := firstOfMonth.AddDate(0, 0, -1)
			firstOfPrev := time.Date(lastOfPrev.Year(), lastOfPrev.Month(), 1, 0, 0, 0, 0, today.Location())
			return between(firstOfPrev, lastOfPrev)
		}),
		newRule("last week", func(today time.Time) string {
			start := today.AddDate(0, 0, -(daysSinceMonday(today) + 7))
			return between(start, start.AddDate(0, 0, 6))
		}),
	}
	for _, wd := range []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	} {
		rs = append(rs, newRule("last "+wd.String(), func(today time.Time) string {
			return onDate(previous(today, wd))
		}))
	}
	return rs
}()

// Normalize rewrites the first relative date phrase found in question, in
// every place it occurs, and reports whether anything changed. Matching is
// case-insensitive on whole words; the rest of the text is kept as typed.
// Only one phrase type is rewritten per call.
func Normalize(question string, today time.Time) (string, bool) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	for _, r := range rules {
		if r.pattern.MatchString(question) {
			return r.pattern.ReplaceAllLiteralString(question, r.replace(today)), true
		}
	}
	return question, false
}

func onDate(d time.Time) string {
	return "on the date " + d.Format(Layout)
}

func between(start, end time.Time) string {
	return fmt.Sprintf("between the dates %s and %s", start.Format(Layout), end.Format(Layout))
}

// daysSinceMonday counts Monday as 0 and Sunday as 6.
func daysSinceMonday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// previous returns the most recent day before today falling on wd, so the
// result is between one and seven days ago.
func previous(today time.Time, wd time.Weekday) time.Time {
	for daysAgo := 1; ; daysAgo++ {
		d := today.AddDate(0, 0, -daysAgo)
		if d.Weekday() == wd {
			return d
		}
	}
}
