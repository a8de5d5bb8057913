package match

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the layout used when dates are written back out.
const DateLayout = "2006-01-02"

// Layouts tried by ParseDate, in order. The "1" and "2" elements accept one
// or two digits. Day-first parsing only uses "." separators so that
// "01/02/2006" stays unambiguous (month first).
var dateLayouts = []string{
	"20060102",
	"2006-1-2",
	"1/2/2006",
	"2006/1/2",
	"2.1.2006",
	time.RFC3339,
	"2006-1-2 15:04:05",
	"Jan 2 2006",
	"2 Jan 2006",
}

// Tennis-abstract style ids start with the match date: "20251221-M-...".
var idDatePrefix = regexp.MustCompile(`^(\d{8})(?:\D|$)`)

// ParseDate attempts to parse a date cell into a time.Time.
// Returns time.Time{} (zero value) if the text is empty or parsing fails.
// Supports formats: "20251221", "2025-12-21", "12/21/2025", "21.12.2025",
// RFC3339 and "Dec 21 2025".
func ParseDate(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}
	}

	// Spreadsheet exports often write integer-looking dates as floats.
	text = strings.TrimSuffix(text, ".0")

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}

	// Could not parse, return zero time
	return time.Time{}
}

// DateFromID extracts the leading YYYYMMDD date of a match id, or returns
// the zero time when the id does not start with one.
func DateFromID(id string) time.Time {
	m := idDatePrefix.FindStringSubmatch(strings.TrimSpace(id))
	if m == nil {
		return time.Time{}
	}
	return ParseDate(m[1])
}

// FormatDate renders t with DateLayout, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
