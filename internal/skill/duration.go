package skill

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseDuration parses a cooldown-style duration into milliseconds.
//
//	5        -> 5000   (bare numbers are seconds, fractions allowed)
//	"500ms"  -> 500    (integer milliseconds)
//	"10s"    -> 10000
//	"2m"     -> 120000
//	"1.5h"   -> 5400000
//
// Empty or unparsable input yields def. Values outside the int64 range
// saturate at math.MinInt64 or math.MaxInt64.
func ParseDuration(raw any, def int64) int64 {
	switch v := raw.(type) {
	case nil:
		return def
	case int:
		return secondsToMillis(int64(v))
	case int64:
		return secondsToMillis(v)
	case uint64:
		if v > math.MaxInt64/1000 {
			return math.MaxInt64
		}
		return int64(v) * 1000
	case float64:
		return roundMillis(v, 1000, def)
	}

	s, ok := raw.(string)
	if !ok {
		return def
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def
	}

	switch {
	case strings.HasSuffix(s, "ms"):
		ms, err := strconv.ParseInt(strings.TrimSpace(strings.TrimSuffix(s, "ms")), 10, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return def
		}
		return ms
	case strings.HasSuffix(s, "s"):
		return parseScaled(strings.TrimSuffix(s, "s"), 1000, def)
	case strings.HasSuffix(s, "m"):
		return parseScaled(strings.TrimSuffix(s, "m"), 60_000, def)
	case strings.HasSuffix(s, "h"):
		return parseScaled(strings.TrimSuffix(s, "h"), 3_600_000, def)
	default:
		return parseScaled(s, 1000, def)
	}
}

func parseScaled(num string, unit float64, def int64) int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return def
	}
	return roundMillis(f, unit, def)
}

// roundMillis rounds half up, the same way cooldown values were always rounded.
func roundMillis(v, unit float64, def int64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	ms := math.Floor(v*unit + 0.5)
	switch {
	case ms >= math.MaxInt64:
		return math.MaxInt64
	case ms <= math.MinInt64:
		return math.MinInt64
	}
	return int64(ms)
}

func secondsToMillis(v int64) int64 {
	switch {
	case v > math.MaxInt64/1000:
		return math.MaxInt64
	case v < math.MinInt64/1000:
		return math.MinInt64
	}
	return v * 1000
}
