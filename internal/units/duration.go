package units

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hammamikhairi/bulkferm/internal/domain"
)

// FormatTime renders fractional hours as "8 hours 30 minutes". Minutes are
// rounded to the nearest whole minute and carried into the hour when they
// round up to 60. Zero and negative durations render as "0 minutes".
// This differs on purpose from a plain floor-and-round split of the hours,
// which would print -1.5 as "30 minutes" and 8.999 as "8 hours 60 minutes".
func FormatTime(hours float64) string {
	if hours <= 0 || math.IsNaN(hours) {
		return "0 minutes"
	}

	h := math.Floor(hours)
	m := math.Round((hours - h) * 60)
	if m == 60 {
		h++
		m = 0
	}

	var parts []string
	if h > 0 {
		parts = append(parts, plural(int64(h), "hour"))
	}
	if m > 0 {
		parts = append(parts, plural(int64(m), "minute"))
	}
	if len(parts) == 0 {
		return "0 minutes"
	}
	return strings.Join(parts, " ")
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// CompletionTime returns start plus the given fractional hours.
func CompletionTime(start time.Time, hours float64) time.Time {
	return start.Add(domain.HoursToDuration(hours))
}

// FormatTimeOfDay renders a clock time such as "2:30 PM".
func FormatTimeOfDay(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatDate renders a date such as "Monday, Jan 1".
func FormatDate(t time.Time) string {
	return t.Format("Monday, Jan 2")
}

// FormatTimeForInput renders a 24-hour "HH:MM" value.
func FormatTimeForInput(t time.Time) string {
	return t.Format("15:04")
}

// ParseTimeOfDay reads an "HH:MM" (24-hour) or "3:04PM" value and places it
// on the same day as ref, in ref's location, with seconds cleared.
func ParseTimeOfDay(s string, ref time.Time) (time.Time, error) {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, layout := range []string{"15:04", "3:04PM"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, mo, d := ref.Date()
			return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, ref.Location()), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", s, domain.ErrInvalidTimeOfDay)
}
