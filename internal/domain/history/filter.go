// Package history narrows a bill list to a date window evaluated in the
// shop's local time zone.
package history

import (
	"strings"
	"time"

	"github.com/sangkips/pos-billing-api/internal/domain/entity"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
)

// Range names a history window.
type Range string

const (
	RangeAll    Range = "all"
	RangeToday  Range = "today"
	RangeWeek   Range = "week"
	RangeMonth  Range = "month"
	RangeCustom Range = "custom"
)

// DateLayout is the calendar-date format accepted for custom bounds.
const DateLayout = "2006-01-02"

// Selection is a requested filter. Start and End are calendar dates and are
// only read for RangeCustom.
type Selection struct {
	Range Range
	Start *time.Time
	End   *time.Time
}

// Window is a half-open interval [From, To). A nil bound is open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && !t.Before(*w.To) {
		return false
	}
	return true
}

// ParseRange maps a query value onto a Range. Empty means all.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeAll, nil
	case RangeAll, RangeToday, RangeWeek, RangeMonth, RangeCustom:
		return r, nil
	default:
		return "", apperror.NewFieldError("range", "Range must be one of all, today, week, month, custom")
	}
}

// ParseSelection builds a Selection from raw query values. Dates are read
// as calendar days in loc.
func ParseSelection(rangeValue, start, end string, loc *time.Location) (Selection, error) {
	r, err := ParseRange(rangeValue)
	if err != nil {
		return Selection{}, err
	}
	sel := Selection{Range: r}
	if r != RangeCustom {
		return sel, nil
	}

	var fieldErrors []apperror.FieldError
	if start = strings.TrimSpace(start); start != "" {
		d, err := time.ParseInLocation(DateLayout, start, loc)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "start", Message: "Start must be a date in YYYY-MM-DD format"})
		} else {
			sel.Start = &d
		}
	}
	if end = strings.TrimSpace(end); end != "" {
		d, err := time.ParseInLocation(DateLayout, end, loc)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "end", Message: "End must be a date in YYYY-MM-DD format"})
		} else {
			sel.End = &d
		}
	}
	if len(fieldErrors) > 0 {
		return Selection{}, apperror.NewValidationError(fieldErrors)
	}
	return sel, nil
}

// Complete reports whether the selection can be applied. A custom range
// needs both bounds.
func (s Selection) Complete() bool {
	if s.Range != RangeCustom {
		return true
	}
	return s.Start != nil && s.End != nil
}

// WindowFor computes the interval selected by sel at instant now in loc.
// Weeks start on Sunday. A custom end date is inclusive of its whole day.
func WindowFor(sel Selection, now time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	today := startOfDay(now, loc)

	switch sel.Range {
	case RangeToday:
		to := today.AddDate(0, 0, 1)
		return Window{From: &today, To: &to}
	case RangeWeek:
		from := today.AddDate(0, 0, -int(today.Weekday()))
		return Window{From: &from}
	case RangeMonth:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return Window{From: &from}
	case RangeCustom:
		if !sel.Complete() {
			return Window{}
		}
		from := startOfDay(sel.Start.In(loc), loc)
		to := startOfDay(sel.End.In(loc), loc).AddDate(0, 0, 1)
		return Window{From: &from, To: &to}
	default:
		return Window{}
	}
}

// Apply returns the bills inside the selected window, preserving order.
func Apply(bills []entity.Bill, sel Selection, now time.Time, loc *time.Location) []entity.Bill {
	w := WindowFor(sel, now, loc)
	if w.From == nil && w.To == nil {
		out := make([]entity.Bill, len(bills))
		copy(out, bills)
		return out
	}

	out := make([]entity.Bill, 0, len(bills))
	for _, b := range bills {
		if w.Contains(b.CreatedAt) {
			out = append(out, b)
		}
	}
	return out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
