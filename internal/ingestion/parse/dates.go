package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ddmmyy matches DD-MM-YY and DD-MM-YYYY.
var ddmmyy = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{2}|\d{4})$`)

// fallbackLayouts are tried when the strict pattern does not match.
var fallbackLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
}

// ParseDate parses a policy issue date cell. The strict DD-MM-YY(YY) form
// is tried first, with two-digit years read as 2000+yy; free-form layouts
// are tried next. An empty or unparseable value returns ok=false rather
// than an error, leaving the decision to the row validator.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if m := ddmmyy.FindStringSubmatch(value); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		if month >= 1 && month <= 12 && day >= 1 {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			// time.Date normalizes overflow (e.g. 31-02); reject those.
			if t.Day() == day && int(t.Month()) == month {
				return t, true
			}
		}
		return time.Time{}, false
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
