package date

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTaskDuration is assumed when a task's duration string cannot be read
const DefaultTaskDuration = 30 * time.Minute

var durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(min|hour|h)`)

// ParseClock reads a "HH:MM" clock string
func ParseClock(clock string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("clock %q is not in HH:MM form", clock)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock %q is out of range", clock)
	}

	return hour, minute, nil
}

// IsValidClock reports whether a string is a usable "HH:MM" clock
func IsValidClock(clock string) bool {
	_, _, err := ParseClock(clock)
	return err == nil
}

// ClockMinutes converts "HH:MM" into minutes since midnight for sorting.
// Unreadable clocks sort last.
func ClockMinutes(clock string) int {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return 24 * 60
	}

	return hour*60 + minute
}

// ParseTaskDuration reads free-form duration strings like "30min", "1 hour"
// or "2h" and falls back to DefaultTaskDuration for everything else
func ParseTaskDuration(raw string) time.Duration {
	match := durationPattern.FindStringSubmatch(raw)
	if match == nil {
		return DefaultTaskDuration
	}

	amount, err := strconv.Atoi(match[1])
	if err != nil || amount <= 0 {
		return DefaultTaskDuration
	}

	if strings.HasPrefix(strings.ToLower(match[2]), "min") {
		return time.Duration(amount) * time.Minute
	}

	return time.Duration(amount) * time.Hour
}

// EventWindow builds the calendar timespan for a task scheduled on a given
// day. The day also serves as the clock fallback when the task carries no
// usable "HH:MM" time.
func EventWindow(day time.Time, clock string, duration string, location *time.Location) Timespan {
	day = day.In(location)

	hour, minute := day.Hour(), day.Minute()
	if h, m, err := ParseClock(clock); err == nil {
		hour, minute = h, m
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, location)

	return Timespan{Start: start, End: start.Add(ParseTaskDuration(duration))}
}
