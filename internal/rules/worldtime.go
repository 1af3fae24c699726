package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// The world clock is two narrator-written strings: a date "YYYY-MM-DD" and
// a time "HH:MM", plus a monotonic day counter. The narrator writes them
// freely, so every parse here is tolerant and every failure is a clean
// not-ok instead of an error.

var (
	dateRe  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})$`)
)

// ParseDate parses a world date. Single-digit months and days are accepted.
func ParseDate(s string) (year, month, day int, ok bool) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, false
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	day, _ = strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// DateNumber collapses a date into a single sortable integer
// (year*10000 + month*100 + day). Used to compare dates without caring
// about calendar arithmetic.
func DateNumber(s string) (int, bool) {
	y, m, d, ok := ParseDate(s)
	if !ok {
		return 0, false
	}
	return y*10000 + m*100 + d, true
}

// ClockMinutes parses a "HH:MM" time into minutes since midnight.
func ClockMinutes(s string) (int, bool) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 23 || mm > 59 {
		return 0, false
	}
	return hh*60 + mm, true
}

// ElapsedHours computes whole hours between two date+time pairs. Returns
// not-ok when either side fails to parse or the difference is not
// positive; callers fall back to the day counter in that case.
func ElapsedHours(oldDate, oldTime, newDate, newTime string) (int, bool) {
	oldT, ok := toTime(oldDate, oldTime)
	if !ok {
		return 0, false
	}
	newT, ok := toTime(newDate, newTime)
	if !ok {
		return 0, false
	}
	hours := int(newT.Sub(oldT).Hours())
	if hours <= 0 {
		return 0, false
	}
	return hours, true
}

// AddDays shifts a world date by n calendar days.
func AddDays(date string, n int) (string, bool) {
	y, m, d, ok := ParseDate(date)
	if !ok {
		return "", false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day()), true
}

func toTime(date, clock string) (time.Time, bool) {
	y, m, d, ok := ParseDate(date)
	if !ok {
		return time.Time{}, false
	}
	minutes, ok := ClockMinutes(clock)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, minutes/60, minutes%60, 0, 0, time.UTC), true
}
