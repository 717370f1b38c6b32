// Package holiday provides the public-holiday capability used by the
// feature builder. The provider is selected once at construction time; an
// unknown country yields the Noop provider, so a missing holiday source
// degrades the flag to 0 instead of failing the run.
package holiday

import (
	"strings"
	"time"
)

// Provider answers whether a date is a public holiday.
type Provider interface {
	IsHoliday(t time.Time) bool
}

// Noop is the defined fallback: no date is ever a holiday.
type Noop struct{}

// IsHoliday always reports false.
func (Noop) IsHoliday(time.Time) bool { return false }

// ForCountry returns the provider for an ISO country code. The second
// return value reports whether holiday data exists for the code; callers
// get Noop otherwise.
func ForCountry(code string) (Provider, bool) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "CO":
		return Colombia(), true
	default:
		return Noop{}, false
	}
}
