package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Format hints reported with ErrInvalidIsoFormat.
const (
	DateHint     = "YYYY-MM-DD"
	TimeHint     = "HH:MM:SS[.fraction][Z|+HH:MM]"
	DateTimeHint = "YYYY-MM-DDTHH:MM:SS[.fraction][Z|+HH:MM]"
)

var (
	datePattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
	timePattern = regexp.MustCompile(`^([0-9]{2}:[0-9]{2}:[0-9]{2})(\.[0-9]+)?(Z|[+-]([0-9]{2}):([0-9]{2}))?$`)
)

// IsDate reports whether s is a calendar-valid YYYY-MM-DD date.
func IsDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}

	_, err := time.Parse(time.DateOnly, s)

	return err == nil
}

// IsTime reports whether s is a zero-padded HH:MM:SS time with an optional
// fraction and zone.
func IsTime(s string) bool {
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}

	if _, err := time.Parse(time.TimeOnly, m[1]); err != nil {
		return false
	}

	if m[4] == "" {
		return true
	}

	hours, _ := strconv.Atoi(m[4])
	minutes, _ := strconv.Atoi(m[5])

	return hours < 24 && minutes < 60
}

// IsDateTime reports whether s is a date and a time joined by 'T'.
func IsDateTime(s string) bool {
	date, clock, found := strings.Cut(s, "T")
	return found && IsDate(date) && IsTime(clock)
}
