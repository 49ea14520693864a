package util

import (
	"math"
	"strconv"
	"time"
)

// layouts accepted by ParseTime, tried in order. The zone-less variants match
// Python's datetime.isoformat() output and are interpreted as UTC.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	// HTTP dates, as written by Flask's jsonify
	time.RFC1123,
	time.RFC1123Z,
}

// ParseTime tries RFC3339 variants, zone-less ISO timestamps, HTTP dates and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return UnixAuto(float64(ts)), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// ParseTimeValue accepts a decoded JSON value: a timestamp string or a unix number.
func ParseTimeValue(v any) (time.Time, bool) {
	switch x := v.(type) {
	case string:
		return ParseTime(x)
	case float64:
		if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return time.Time{}, false
		}
		return UnixAuto(x), true
	default:
		return time.Time{}, false
	}
}

// UnixAuto converts a unix timestamp in seconds or milliseconds.
func UnixAuto(v float64) time.Time {
	// anything past year 5138 in seconds is taken as milliseconds
	if v > 1e11 {
		return time.UnixMilli(int64(v)).UTC()
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// ClockLabel formats t for chart axes and the dashboard clock.
func ClockLabel(t time.Time) string {
	return t.Format("15:04:05")
}
