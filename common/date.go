package common

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

// Parse a date string and return the time in the UTC time zone.  The base time is folded to UTC if
// it is not already utc.
//
// The accepted formats are a fixed allow-list:
//
//	YYYY-MM-DD
//	YYYYMMDD
//	Nd (days ago)
//	Nw (weeks ago)
//
// endOfDay takes an explicit date to the last second of the last hour of the day, making a -to
// bound inclusive; comparisons against the result must use <= rather than <.  Relative times Nd
// and Nw ignore endOfDay since the base time is "now" and no record can be later than that.
//
// NOTE: we're opting in to the Go semantics here: the nonexistent yyyy-09-31 is silently
// reinterpreted as yyyy-10-01.

func ParseRelativeDateUtc(now time.Time, s string, endOfDay bool) (time.Time, error) {
	now = now.UTC()
	if probe := daysRe.FindSubmatch([]byte(s)); probe != nil {
		days, _ := strconv.ParseUint(string(probe[1]), 10, 32)
		return now.AddDate(0, 0, -int(days)), nil
	}

	if probe := weeksRe.FindSubmatch([]byte(s)); probe != nil {
		weeks, _ := strconv.ParseUint(string(probe[1]), 10, 32)
		return now.AddDate(0, 0, -int(weeks)*7), nil
	}

	probe := dateRe.FindSubmatch([]byte(s))
	if probe == nil {
		probe = compactDateRe.FindSubmatch([]byte(s))
	}
	if probe != nil {
		yyyy, _ := strconv.ParseUint(string(probe[1]), 10, 32)
		mm, _ := strconv.ParseUint(string(probe[2]), 10, 32)
		dd, _ := strconv.ParseUint(string(probe[3]), 10, 32)
		var h, m, s int
		if endOfDay {
			h, m, s = 23, 59, 59
		}
		return time.Date(int(yyyy), time.Month(mm), int(dd), h, m, s, 0, time.UTC), nil
	}

	return now, errors.New("Bad time specification")
}

var dateRe = regexp.MustCompile(`^(\d\d\d\d)-(\d\d)-(\d\d)$`)
var compactDateRe = regexp.MustCompile(`^(\d\d\d\d)(\d\d)(\d\d)$`)
var daysRe = regexp.MustCompile(`^(\d+)d$`)
var weeksRe = regexp.MustCompile(`^(\d+)w$`)
