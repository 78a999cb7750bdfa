package reconcile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// durationSentinel sorts unparseable durations last under "fastest".
const durationSentinel = 9999

var (
	clock24Re   = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	clock12Re   = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	durationHRe = regexp.MustCompile(`(\d+)\s*[hH]`)
	durationMRe = regexp.MustCompile(`(\d+)\s*[mM]`)
)

// FormatClock converts a 24-hour "H:MM"/"HH:MM" value to "h:mm AM/PM".
// Input that does not look like a 24-hour clock is assumed to be already
// human-formatted and passes through trimmed and upper-cased. Empty input
// renders as "--:--".
func FormatClock(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "--:--"
	}

	m := clock24Re.FindStringSubmatch(s)
	if m == nil {
		return strings.ToUpper(s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return strings.ToUpper(s)
	}

	meridiem := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		hour -= 12
		meridiem = "PM"
	}

	return fmt.Sprintf("%d:%02d %s", hour, minute, meridiem)
}

// ParseDurationMinutes sums an optional "<N>h" and optional "<N>m"
// component ("2h 35m", "45m") into total minutes. Text with neither
// component returns a large sentinel so it sorts last under "fastest".
func ParseDurationMinutes(text string) int {
	total := 0
	found := false

	if m := durationHRe.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		total += hours * 60
		found = true
	}
	if m := durationMRe.FindStringSubmatch(text); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		total += minutes
		found = true
	}

	if !found {
		return durationSentinel
	}
	return total
}

// MinutesSinceMidnight parses a "h:mm AM/PM" value for chronological
// sorting. Malformed input returns 0 rather than failing.
func MinutesSinceMidnight(formatted string) int {
	m := clock12Re.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(formatted)))
	if m == nil {
		return 0
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour == 12 {
		hour = 0
	}
	if m[3] == "PM" {
		hour += 12
	}

	return hour*60 + minute
}
