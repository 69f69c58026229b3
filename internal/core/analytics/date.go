package analytics

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// GetDateRange returns the window for a named period relative to now.
// "all" returns nil, meaning no filter.
func GetDateRange(period string, now time.Time) *DateRange {
	var start, end time.Time

	switch strings.ToLower(strings.TrimSpace(period)) {
	case "all":
		return nil

	case "today":
		start, end = startOfDay(now), endOfDay(now)

	case "yesterday":
		yesterday := now.AddDate(0, 0, -1)
		start, end = startOfDay(yesterday), endOfDay(yesterday)

	case "this_week":
		// weeks start on Monday
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = startOfDay(now.AddDate(0, 0, -weekday+1))
		end = now

	case "last_week":
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = startOfDay(now.AddDate(0, 0, -weekday-6))
		end = endOfDay(now.AddDate(0, 0, -weekday))

	case "this_month", "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now

	case "last_month":
		start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond)

	case "this_year", "year":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		end = now

	case "last_30_days":
		start = startOfDay(now.AddDate(0, 0, -30))
		end = now

	case "last_90_days":
		start = startOfDay(now.AddDate(0, 0, -90))
		end = now

	default:
		start, end = startOfDay(now), endOfDay(now)
	}

	return &DateRange{Start: start, End: end}
}

// ParseDateRange builds an inclusive range from two YYYY-MM-DD dates
func ParseDateRange(start, end string) (*DateRange, error) {
	s, err := time.Parse(dayLayout, strings.TrimSpace(start))
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(dayLayout, strings.TrimSpace(end))
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if e.Before(s) {
		return nil, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return &DateRange{Start: s, End: endOfDay(e)}, nil
}

// ParseDay parses an invoice date, accepting a trailing time part
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, 'T'); i >= 0 {
		value = value[:i]
	}
	return time.Parse(dayLayout, value)
}
