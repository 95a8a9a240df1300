package date

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Clock provides the current time for relative expressions.
// This interface allows injecting a fixed time for testing.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock implements Clock with a fixed time for testing.
type FixedClock struct {
	FixedTime time.Time
}

func (c FixedClock) Now() time.Time {
	return c.FixedTime
}

var (
	digitsRe = regexp.MustCompile(`^\d+$`)
	offsetRe = regexp.MustCompile(`^([+-])(\d+)(ms|s|m|h|d)$`)
)

// ParseTimestamp turns a time expression into Unix milliseconds.
//
// Accepted forms, tried in order:
//   - "now"
//   - an unsigned integer, taken as milliseconds since the epoch
//   - "+N<unit>" / "-N<unit>" relative to now, unit one of ms, s, m, h, d
//   - RFC 3339 with optional fractional seconds
//   - YYYY-MM-DD, YYYY/MM/DD, YYYY.MM.DD (midnight UTC)
//
// The result is not range-checked; the generator rejects values outside
// the 48-bit timestamp range.
func ParseTimestamp(input string, clock Clock) (int64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("invalid time: empty input")
	}

	// Step 1: "now"
	if strings.EqualFold(input, "now") {
		return clock.Now().UnixMilli(), nil
	}

	// Step 2: raw milliseconds
	if digitsRe.MatchString(input) {
		ms, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time: %q is out of range", input)
		}
		return ms, nil
	}

	// Step 3: offsets from now
	if ms, err := parseOffset(input, clock.Now()); err == nil {
		return ms, nil
	}

	// Step 4: RFC 3339
	if t, err := time.Parse(time.RFC3339Nano, input); err == nil {
		return t.UnixMilli(), nil
	}

	// Step 5: calendar dates
	if t, err := parseISODate(input); err == nil {
		return t.UnixMilli(), nil
	}

	return 0, fmt.Errorf("invalid time: unable to parse %q (expected now, milliseconds, +N<unit>, RFC 3339 or YYYY-MM-DD)", input)
}

// parseOffset handles "+N<unit>" and "-N<unit>".
func parseOffset(input string, now time.Time) (int64, error) {
	m := offsetRe.FindStringSubmatch(strings.ToLower(input))
	if m == nil {
		return 0, fmt.Errorf("not an offset")
	}

	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, err
	}

	var unit time.Duration
	switch m[3] {
	case "ms":
		unit = time.Millisecond
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	d := time.Duration(n) * unit
	if m[1] == "-" {
		d = -d
	}
	return now.Add(d).UnixMilli(), nil
}

// parseISODate tries YYYY-MM-DD, YYYY/MM/DD and YYYY.MM.DD.
func parseISODate(input string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006/01/02", "2006.01.02"} {
		if t, err := time.Parse(layout, input); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO date")
}

// FormatMillis renders Unix milliseconds as RFC 3339 UTC with millisecond
// precision, e.g. 2023-11-19T07:30:18.457Z.
// This is the single source of truth for timestamp display.
func FormatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
