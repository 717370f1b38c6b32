package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseFreq parses a resample period written the way the upstream configs
// write it: an optional integer count followed by a unit. Accepted units:
// s/sec, min/t, h, d. Parsing is case-insensitive, so "1H" and "1h" are the
// same period.
func ParseFreq(s string) (time.Duration, error) {
	raw := strings.TrimSpace(strings.ToLower(s))
	if raw == "" {
		return 0, fmt.Errorf("%w: empty freq", ErrInvalidConfig)
	}

	i := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	count := 1
	if i > 0 {
		n, err := strconv.Atoi(raw[:i])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("%w: bad freq count in %q", ErrInvalidConfig, s)
		}
		count = n
	}

	var unit time.Duration
	switch raw[i:] {
	case "s", "sec":
		unit = time.Second
	case "min", "t":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	default:
		return 0, fmt.Errorf("%w: unknown freq unit in %q", ErrInvalidConfig, s)
	}

	return time.Duration(count) * unit, nil
}

// PeriodsPerDay returns the number of freq buckets in one calendar day,
// using round division for periods that do not divide the day evenly.
func PeriodsPerDay(freq time.Duration) (int, error) {
	if freq <= 0 {
		return 0, fmt.Errorf("%w: freq must be positive", ErrInvalidConfig)
	}
	n := int(math.Round(float64(24*time.Hour) / float64(freq)))
	if n < 1 {
		return 0, fmt.Errorf("%w: freq %s exceeds one day", ErrInvalidConfig, freq)
	}
	return n, nil
}
