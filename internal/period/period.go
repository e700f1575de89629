// Package period resolves the two week-numbering schemes the system
// uses side by side and computes time-window boundaries for the
// statistics scopes.
//
// Session grouping and most "week" filters use Sunday-anchored weeks
// (WeekStart). Human-facing week labels use ISO-8601 numbering
// (Monday-anchored, nearest-Thursday year rule). The two must not be
// conflated: near year boundaries the ISO week of a Sunday-anchored
// week differs from what a naive computation yields.
package period

import (
	"fmt"
	"time"
)

// Scope selects a statistics time window.
type Scope string

const (
	ScopeDay   Scope = "day"
	ScopeWeek  Scope = "week"
	ScopeMonth Scope = "month"
	ScopeYear  Scope = "year"
	ScopeAll   Scope = "all"
)

// ValidScopes is the closed set accepted on input.
var ValidScopes = map[Scope]bool{
	ScopeDay:   true,
	ScopeWeek:  true,
	ScopeMonth: true,
	ScopeYear:  true,
	ScopeAll:   true,
}

// ParseScope normalizes a raw scope string. The empty string and the
// spelled-out "all-time" both resolve to the all-time scope.
func ParseScope(raw string) (Scope, bool) {
	switch raw {
	case "", "all-time":
		return ScopeAll, true
	}
	s := Scope(raw)
	return s, ValidScopes[s]
}

// Params narrows a scope to a concrete window. Zero values mean "the
// one containing now". WeekOffset shifts the week scope backward or
// forward in whole weeks (e.g. -1 is last week).
type Params struct {
	Year       int
	Month      int
	WeekOffset int
}

// farPast is the sentinel start used by the all-time scope when no
// record exists. Only used for filtering, never displayed.
var farPast = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Midnight truncates t to 00:00 in its own location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Sunday <= t at midnight.
func WeekStart(t time.Time) time.Time {
	d := Midnight(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// ISOWeek returns the ISO-8601 week number of t.
func ISOWeek(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// ISOYearWeek returns the ISO-8601 year and week number of t.
func ISOYearWeek(t time.Time) (int, int) {
	return t.ISOWeek()
}

// Bounds resolves a scope into a half-open [start, end) window.
// earliest is the date of the oldest relevant record, used only by the
// all-time scope; pass the zero time when no record exists.
func Bounds(scope Scope, p Params, now time.Time, earliest time.Time) (time.Time, time.Time, error) {
	switch scope {
	case ScopeDay:
		start := Midnight(now)
		return start, start.AddDate(0, 0, 1), nil
	case ScopeWeek:
		start := WeekStart(now).AddDate(0, 0, 7*p.WeekOffset)
		return start, start.AddDate(0, 0, 7), nil
	case ScopeMonth:
		year, month := now.Year(), now.Month()
		if p.Year != 0 {
			year = p.Year
		}
		if p.Month != 0 {
			month = time.Month(p.Month)
		}
		start := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), nil
	case ScopeYear:
		year := now.Year()
		if p.Year != 0 {
			year = p.Year
		}
		start := time.Date(year, 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0), nil
	case ScopeAll:
		start := farPast
		if !earliest.IsZero() {
			start = Midnight(earliest)
		}
		return start, Midnight(now).AddDate(0, 0, 1), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown scope %q", scope)
	}
}

// PreviousBounds returns the window immediately preceding the current
// one, for trend comparison. For the week and all-time scopes no
// distinct previous window is defined and the current window is
// returned unchanged, which makes trends degenerate (always stable) for
// those scopes.
func PreviousBounds(scope Scope, p Params, now time.Time, earliest time.Time) (time.Time, time.Time, error) {
	start, end, err := Bounds(scope, p, now, earliest)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	switch scope {
	case ScopeDay:
		return start.AddDate(0, 0, -1), start, nil
	case ScopeMonth:
		return start.AddDate(0, -1, 0), start, nil
	case ScopeYear:
		return start.AddDate(-1, 0, 0), start, nil
	default:
		return start, end, nil
	}
}

// WeeksIn counts the Sunday-anchored weeks touched by [start, end).
func WeeksIn(start, end time.Time) int {
	if !start.Before(end) {
		return 0
	}
	n := 0
	for t := WeekStart(start); t.Before(end); t = t.AddDate(0, 0, 7) {
		n++
	}
	return n
}
