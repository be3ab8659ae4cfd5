// Package holiday provides public-holiday lookups by country and year.
package holiday

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnsupportedCountry is returned for country codes without holiday data.
var ErrUnsupportedCountry = errors.New("unsupported country")

// Date is a calendar date without time or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Holidays maps a date to the holiday name observed on it.
type Holidays map[Date]string

// Contains reports whether t's calendar date is a holiday.
func (h Holidays) Contains(t time.Time) bool {
	_, ok := h[DateOf(t)]
	return ok
}

// Add records name on d, joining names when two holidays share a date.
func (h Holidays) Add(d Date, name string) {
	if existing, ok := h[d]; ok && existing != name {
		h[d] = existing + ", " + name
		return
	}
	h[d] = name
}

// Merge copies every holiday of other into h.
func (h Holidays) Merge(other Holidays) {
	for d, name := range other {
		h.Add(d, name)
	}
}

// Named is a holiday name paired with its date.
type Named struct {
	Name string
	Date Date
}

// Sorted returns the holidays ordered by date.
func (h Holidays) Sorted() []Named {
	out := make([]Named, 0, len(h))
	for d, name := range h {
		out = append(out, Named{Name: name, Date: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Calendar looks up the public holidays of a country for one year.
type Calendar interface {
	Lookup(country string, year int) (Holidays, error)
}

// CalendarFunc adapts a plain function to Calendar.
type CalendarFunc func(country string, year int) (Holidays, error)

func (f CalendarFunc) Lookup(country string, year int) (Holidays, error) {
	return f(country, year)
}

// None is a Calendar without any holidays.
type None struct{}

func (None) Lookup(string, int) (Holidays, error) { return Holidays{}, nil }

// Merged combines several calendars. The first error aborts the lookup.
type Merged []Calendar

func (m Merged) Lookup(country string, year int) (Holidays, error) {
	out := Holidays{}
	for _, c := range m {
		h, err := c.Lookup(country, year)
		if err != nil {
			return nil, err
		}
		out.Merge(h)
	}
	return out, nil
}
