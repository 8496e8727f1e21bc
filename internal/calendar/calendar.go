// Package calendar resolves the logical day habits are tracked against.
package calendar

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	labelLayout = "02 Jan"
)

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("calendar: parse date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Equal reports whether d and other name the same day.
func (d Date) Equal(other Date) bool {
	return d == other
}

// AddDays returns d shifted by n days, normalizing month and year overflow.
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// String renders the date as YYYY-MM-DD, the form used for log keys.
func (d Date) String() string {
	return d.midnight().Format(dateLayout)
}

// Label renders a short day label such as "01 Mar".
func (d Date) Label() string {
	return d.midnight().Format(labelLayout)
}

func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// LogicalDay returns the tracking day for now. When hasReset is set and now is
// earlier than resetAtHour, the day still belongs to the previous date.
// A reset hour of 0 behaves like no reset hour.
func LogicalDay(now time.Time, resetAtHour int, hasReset bool) Date {
	today := DateOf(now)
	if hasReset && now.Hour() < resetAtHour {
		return today.AddDays(-1)
	}
	return today
}
