package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date patterns in priority order. Day-first conventions for the two
// non-ISO shapes: this is a UK-oriented system, "03-04-2024" is 3 April.
// The patterns are deliberately unanchored so a date embedded in free text
// still matches, mirroring the form parser these values come from.
var datePatterns = []struct {
	re       *regexp.Regexp
	dayFirst bool
}{
	{regexp.MustCompile(`(\d{1,2})-(\d{1,2})-(\d{4})`), true},  // DD-MM-YYYY
	{regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`), false}, // YYYY-MM-DD
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`), true},  // DD/MM/YYYY
}

// Generic layouts tried when none of the explicit patterns match, roughly
// what a browser's default date parsing would have accepted.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate converts heterogeneous textual dates into a canonical value.
// It is total: empty, garbage, and partially numeric input all yield nil,
// never an error. The first matching pattern wins.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		var day, month, year int
		if p.dayFirst {
			day, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[2])
			year, _ = strconv.Atoi(m[3])
		} else {
			year, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[2])
			day, _ = strconv.Atoi(m[3])
		}
		// time.Date normalizes out-of-range components (month 13 rolls
		// into the next year), matching the tolerant original behavior.
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
