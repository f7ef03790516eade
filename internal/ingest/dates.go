package ingest

import (
	"strconv"
	"strings"
	"time"
)

// DateBounds is the plausible trading-calendar range. Anything parsed
// outside it is treated as corrupt and discarded.
type DateBounds struct {
	MinYear int
	MaxYear int
}

// DefaultDateBounds covers roughly two decades around the present.
func DefaultDateBounds() DateBounds {
	return DateBounds{MinYear: 2010, MaxYear: 2035}
}

// excelEpoch is day zero of the 1900 date system used by spreadsheet
// serials. The offset accounts for the fictitious 1900 leap day.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
}

// NormalizeDate reduces an arbitrary source value to a date-only UTC
// timestamp. It returns false for anything unparsable, for the
// year-1900 spreadsheet sentinel, and for dates outside the bounds;
// it never guesses a fallback.
func NormalizeDate(v any, b DateBounds) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return checkBounds(truncateToDay(val), b)
	case float64:
		return serialDate(val, b)
	case float32:
		return serialDate(float64(val), b)
	case int64:
		return serialDate(float64(val), b)
	case int:
		return serialDate(float64(val), b)
	case []byte:
		return parseDateString(string(val), b)
	case string:
		return parseDateString(val, b)
	default:
		return time.Time{}, false
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func checkBounds(t time.Time, b DateBounds) (time.Time, bool) {
	if t.Year() < b.MinYear || t.Year() > b.MaxYear {
		return time.Time{}, false
	}
	return t, true
}

// serialDate converts a spreadsheet date serial (days since the 1900
// epoch) into a date. Serials at or below zero never denote trades.
func serialDate(serial float64, b DateBounds) (time.Time, bool) {
	if serial <= 0 {
		return time.Time{}, false
	}
	return checkBounds(excelEpoch.AddDate(0, 0, int(serial)), b)
}

func parseDateString(raw string, b DateBounds) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	// Values anchored in 1900 are spreadsheet epoch-parsing artifacts,
	// not trade dates.
	if strings.Contains(s, "1900-") {
		return time.Time{}, false
	}

	// Strip timezone and time-of-day decorations. A third dash past the
	// date separators means a "-HH:MM" style offset.
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	if strings.Count(s, "-") > 2 {
		parts := strings.SplitN(s, "-", 4)
		s = strings.Join(parts[:3], "-")
	}
	s = strings.TrimSuffix(s, "Z")
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// A bare number is a date serial that survived as text.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return serialDate(f, b)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return checkBounds(truncateToDay(t), b)
		}
	}
	return time.Time{}, false
}
