package analytics

import (
	"time"

	"tradeledger/internal/domain"
)

// Window names a relative reporting period. Relative windows are
// resolved against the "now" passed to FilterByWindow, so callers (and
// tests) control the clock instead of the filter reading it ambiently.
type Window string

const (
	WindowAllTime          Window = "all_time"
	WindowYearToDate       Window = "ytd"
	WindowMonthToDate      Window = "mtd"
	WindowCalendarYear     Window = "calendar_year"
	WindowLastCalendarYear Window = "last_calendar_year"
	WindowLast12Months     Window = "last_12_months"
	WindowLast6Months      Window = "last_6_months"
	WindowLast3Months      Window = "last_3_months"
	WindowLast30Days       Window = "last_30_days"
	WindowLastWeek         Window = "last_week"
)

// FilterByWindow returns a new slice holding the trades whose exit date
// falls inside the window. An unknown window behaves as all-time rather
// than failing; the selector values are enumerated by the caller. The
// source slice is never mutated.
func FilterByWindow(trades []*domain.Trade, w Window, now time.Time) []*domain.Trade {
	var start time.Time
	switch w {
	case WindowAllTime:
		return copyTrades(trades)
	case WindowYearToDate, WindowCalendarYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case WindowLastCalendarYear:
		start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC)
		return FilterByRange(trades, start, end)
	case WindowMonthToDate:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case WindowLast12Months:
		start = day(now).AddDate(0, 0, -365)
	case WindowLast6Months:
		start = day(now).AddDate(0, 0, -180)
	case WindowLast3Months:
		start = day(now).AddDate(0, 0, -90)
	case WindowLast30Days:
		start = day(now).AddDate(0, 0, -30)
	case WindowLastWeek:
		start = day(now).AddDate(0, 0, -7)
	default:
		return copyTrades(trades)
	}

	out := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if !t.ExitDate.Before(start) {
			out = append(out, t)
		}
	}
	return out
}

// FilterByRange keeps trades with exit date in [start, end], both ends
// inclusive. Bounds are compared at date precision, matching the
// ledger's date-only exit timestamps.
func FilterByRange(trades []*domain.Trade, start, end time.Time) []*domain.Trade {
	start, end = day(start), day(end)
	out := make([]*domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.ExitDate.Before(start) || t.ExitDate.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func copyTrades(trades []*domain.Trade) []*domain.Trade {
	out := make([]*domain.Trade, len(trades))
	copy(out, trades)
	return out
}
