// Package planner holds the projection and consistency engine: view window
// resolution, monthly-task projection, the update guard, overdue derivation
// and efficiency aggregation. Everything here is a pure function over its
// inputs; persistence and transport live elsewhere.
package planner

import (
	"errors"
	"fmt"
	"time"
)

// View is the client-selected lens used to compute a display window.
type View string

const (
	ViewDaily   View = "DAILY"
	ViewWeekly  View = "WEEKLY"
	ViewMonthly View = "MONTHLY"
)

// Timeframe is the analytics window granularity. Unlike a View, weekly and
// monthly timeframes are partial spans ending at the reference date.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
)

var (
	ErrInvalidViewKind      = errors.New("unknown view kind")
	ErrInvalidTimeframeKind = errors.New("unknown timeframe kind")
)

// ParseView validates a raw view value.
func ParseView(raw string) (View, error) {
	switch v := View(raw); v {
	case ViewDaily, ViewWeekly, ViewMonthly:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidViewKind, raw)
}

// ParseTimeframe validates a raw timeframe value.
func ParseTimeframe(raw string) (Timeframe, error) {
	switch t := Timeframe(raw); t {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeframeKind, raw)
}

// Window is an inclusive date range used for overlap queries.
type Window struct {
	Start time.Time
	End   time.Time
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns t's calendar day at 23:59:59.999.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999*int(time.Millisecond), t.Location())
}

// startOfWeek returns the most recent Sunday on or before t, at midnight.
// Weeks are fixed Sunday-to-Saturday regardless of locale.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

// ResolveViewWindow converts a view and an anchor date into the inclusive
// window the planner queries tasks against.
func ResolveViewWindow(view View, anchor time.Time) (Window, error) {
	switch view {
	case ViewDaily:
		return Window{Start: startOfDay(anchor), End: endOfDay(anchor)}, nil
	case ViewWeekly:
		start := startOfWeek(anchor)
		return Window{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}, nil
	case ViewMonthly:
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		// Day 0 of the next month normalizes to this month's last day.
		last := time.Date(anchor.Year(), anchor.Month()+1, 0, 0, 0, 0, 0, anchor.Location())
		return Window{Start: start, End: endOfDay(last)}, nil
	}
	return Window{}, fmt.Errorf("%w: %q", ErrInvalidViewKind, view)
}

// ResolveTimeframeWindow converts an analytics timeframe and a reference
// date into its window. Weekly and monthly timeframes run from the start of
// the current week/month up to the reference day's end, not the full span.
func ResolveTimeframeWindow(timeframe Timeframe, reference time.Time) (Window, error) {
	end := endOfDay(reference)
	switch timeframe {
	case TimeframeDaily:
		return Window{Start: startOfDay(reference), End: end}, nil
	case TimeframeWeekly:
		return Window{Start: startOfWeek(reference), End: end}, nil
	case TimeframeMonthly:
		start := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location())
		return Window{Start: start, End: end}, nil
	}
	return Window{}, fmt.Errorf("%w: %q", ErrInvalidTimeframeKind, timeframe)
}
