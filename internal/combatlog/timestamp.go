package combatlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp reads "M/D HH:MM:SS.mmm". The classic format carries no
// year, so the year of now is used; a log spanning New Year therefore lands
// in the wrong year. Newer clients write "M/D/YYYY HH:MM:SS.ffff[+-TZ]" and
// the explicit year is used when present.
func ParseTimestamp(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	datePart, clockPart, ok := strings.Cut(value, " ")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, value)
	}

	dateFields := strings.Split(datePart, "/")
	if len(dateFields) != 2 && len(dateFields) != 3 {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrBadTimestamp, datePart)
	}
	month, err := boundedInt(dateFields[0], 1, 12)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month: %v", ErrBadTimestamp, err)
	}
	day, err := boundedInt(dateFields[1], 1, 31)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day: %v", ErrBadTimestamp, err)
	}
	year := now.Year()
	if len(dateFields) == 3 {
		if year, err = boundedInt(dateFields[2], 1, 9999); err != nil {
			return time.Time{}, fmt.Errorf("%w: year: %v", ErrBadTimestamp, err)
		}
	}

	// Drop a trailing timezone offset such as "-5" or "+1".
	if idx := strings.IndexAny(clockPart, "+-"); idx > 0 {
		clockPart = clockPart[:idx]
	}
	hms, frac, _ := strings.Cut(clockPart, ".")
	clock := strings.Split(hms, ":")
	if len(clock) != 3 {
		return time.Time{}, fmt.Errorf("%w: clock %q", ErrBadTimestamp, clockPart)
	}
	hour, err := boundedInt(clock[0], 0, 23)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: hour: %v", ErrBadTimestamp, err)
	}
	minute, err := boundedInt(clock[1], 0, 59)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: minute: %v", ErrBadTimestamp, err)
	}
	second, err := boundedInt(clock[2], 0, 60)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: second: %v", ErrBadTimestamp, err)
	}
	nanos, err := fractionNanos(frac)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fraction: %v", ErrBadTimestamp, err)
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, nanos, now.Location()), nil
}

func boundedInt(value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d out of range [%d, %d]", n, lo, hi)
	}
	return n, nil
}

func fractionNanos(frac string) (int, error) {
	if frac == "" {
		return 0, nil
	}
	if len(frac) > 9 {
		frac = frac[:9]
	}
	n, err := strconv.Atoi(frac + strings.Repeat("0", 9-len(frac)))
	if err != nil {
		return 0, err
	}
	return n, nil
}
