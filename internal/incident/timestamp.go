package incident

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// nativeLayouts are the generic date/time forms tried first, most specific
// first. Layouts without a zone are read in the caller's location.
var nativeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 Z07:00",
	"2006-01-02 15:04 -0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06 3:04 PM",
	"1/2/06 15:04:05",
	"1/2/06 15:04",
	"1/2/06",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.ANSIC,
	time.UnixDate,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006",
	"2 January 2006",
}

var (
	// D/M/Y with optional time, separators / - or .
	dayFirst = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)
	// Patterns searched anywhere in the text.
	embeddedISO = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2}) (\d{2}):(\d{2}):(\d{2})`)
	embeddedEU  = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)
	embeddedUS  = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)
	// Trailing zone name after a long-form date, e.g. "(Central European Time)".
	zoneComment = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

// ParseTimestamp parses a detection timestamp. Generic layouts win, then a
// day-first D/M/Y form, then DD.MM.YYYY or MM/DD/YYYY found anywhere in the
// text. Only real calendar dates are accepted. A nil loc means UTC.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if t, ok := parseNative(s, loc); ok {
		return t, true
	}
	if m := dayFirst.FindStringSubmatch(s); m != nil {
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		return civil(loc, year, m[2], m[1], m[4], m[5], m[6])
	}
	if m := embeddedISO.FindStringSubmatch(s); m != nil {
		if t, ok := civil(loc, m[1], m[2], m[3], m[4], m[5], m[6]); ok {
			return t, true
		}
	}
	if m := embeddedEU.FindStringSubmatch(s); m != nil {
		if t, ok := civil(loc, m[3], m[2], m[1], "", "", ""); ok {
			return t, true
		}
	}
	if m := embeddedUS.FindStringSubmatch(s); m != nil {
		if t, ok := civil(loc, m[3], m[1], m[2], "", "", ""); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseNative(s string, loc *time.Location) (time.Time, bool) {
	candidates := []string{s}
	if trimmed := zoneComment.ReplaceAllString(s, ""); trimmed != s {
		candidates = append(candidates, trimmed)
	}
	for _, c := range candidates {
		for _, layout := range nativeLayouts {
			if t, err := time.ParseInLocation(layout, c, loc); err == nil {
				return t.In(loc), true
			}
		}
	}
	return time.Time{}, false
}

// civil builds a time from numeric parts, rejecting out-of-range values
// instead of normalizing them.
func civil(loc *time.Location, year, month, day, hour, minute, second string) (time.Time, bool) {
	y, errY := strconv.Atoi(year)
	mo, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, false
	}
	h, mi, sec := atoiOrZero(hour), atoiOrZero(minute), atoiOrZero(second)
	if mo < 1 || mo > 12 || d < 1 || h > 23 || mi > 59 || sec > 59 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(mo), d, h, mi, sec, 0, loc)
	if t.Year() != y || int(t.Month()) != mo || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// DateKey formats t as a calendar date in its own location.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
