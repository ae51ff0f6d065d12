package application

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// weekdayIndex maps configured weekday names to time.Weekday.
var weekdayIndex = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DefaultSince returns the review-window start to use when the repository has
// never been marked reviewed: the most recent occurrence of the configured
// weekday and wall-clock time strictly in the past. When today is the target
// weekday the previous week's occurrence is used, so the window is never
// empty-by-construction on review day.
func DefaultSince(weekday, at string, now time.Time) (time.Time, error) {
	target, ok := weekdayIndex[strings.ToLower(weekday)]
	if !ok {
		target = time.Tuesday
	}

	hour, minute, err := parseClock(at)
	if err != nil {
		return time.Time{}, err
	}

	daysBack := (int(now.Weekday()) - int(target) + 7) % 7
	if daysBack == 0 {
		daysBack = 7
	}

	day := now.AddDate(0, 0, -daysBack)
	since := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
	if since.After(now) {
		since = since.AddDate(0, 0, -7)
	}
	return since, nil
}

// parseClock parses an "HH:MM" wall-clock string.
func parseClock(value string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("clock value %q must be HH:MM", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("clock value %q has invalid hour", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock value %q has invalid minute", value)
	}
	return hour, minute, nil
}
