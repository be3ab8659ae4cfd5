// Package billing derives invoice dates, billable windows and remaining
// working days for a monthly invoicing cycle.
package billing

import (
	"strings"
	"time"

	"github.com/Tiliavir/toggl-tally/internal/holiday"
	"github.com/Tiliavir/toggl-tally/internal/model"
	"github.com/Tiliavir/toggl-tally/internal/timecalc"
)

// maxRoll bounds every forward/backward roll to one year of candidates.
const maxRoll = 366

// DefaultWorkingDays is the Monday to Friday work-week.
var DefaultWorkingDays = []string{"MO", "TU", "WE", "TH", "FR"}

var dayCodes = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// ParseWorkingDays converts two-letter day codes (MO..SU, case-insensitive)
// into weekdays, preserving order and dropping repeats.
func ParseWorkingDays(codes []string) ([]time.Weekday, error) {
	if len(codes) == 0 {
		return nil, model.NewConfigError("working_days", "working days should be non-empty")
	}
	seen := map[time.Weekday]bool{}
	days := make([]time.Weekday, 0, len(codes))
	for _, code := range codes {
		wd, ok := dayCodes[strings.ToUpper(strings.TrimSpace(code))]
		if !ok {
			return nil, model.NewConfigError("working_days",
				"unrecognized day %q, working days should use the codes MO, TU, WE, TH, FR, SA, SU", code)
		}
		if seen[wd] {
			continue
		}
		seen[wd] = true
		days = append(days, wd)
	}
	return days, nil
}

// Options configures a Calendar.
type Options struct {
	// InvoiceDay is the nominal day of month invoices go out (1-31).
	InvoiceDay int
	// Country selects the public holidays.
	Country string
	// Timezone is an IANA zone name; empty keeps the clock's location.
	Timezone string
	// WorkingDays holds day codes; nil means DefaultWorkingDays.
	WorkingDays           []string
	ExcludePublicHolidays bool
	SkipToday             bool
}

// Calendar computes the boundaries of the current billing cycle. All values
// are derived from the instant captured at construction.
type Calendar struct {
	invoiceDay      int
	country         string
	now             time.Time
	workingDays     []time.Weekday
	isWorkingDay    [7]bool
	excludeHolidays bool
	skipToday       bool
	holidays        holiday.Holidays
}

// New validates opts, reads the clock once and loads holidays for the
// previous, current and next year so windows crossing New Year are covered.
// Holiday provider errors are returned unmodified.
func New(opts Options, clk timecalc.Clock, hc holiday.Calendar) (*Calendar, error) {
	if opts.InvoiceDay < 1 || opts.InvoiceDay > 31 {
		return nil, model.NewConfigError("invoice_day", "must be between 1 and 31, got %d", opts.InvoiceDay)
	}
	codes := opts.WorkingDays
	if codes == nil {
		codes = DefaultWorkingDays
	}
	days, err := ParseWorkingDays(codes)
	if err != nil {
		return nil, err
	}

	now := clk()
	if opts.Timezone != "" {
		loc, err := timecalc.LoadLocation(opts.Timezone)
		if err != nil {
			return nil, model.NewConfigError("timezone", "%v", err)
		}
		now = now.In(loc)
	}

	if hc == nil {
		hc = holiday.None{}
	}
	holidays := holiday.Holidays{}
	for year := now.Year() - 1; year <= now.Year()+1; year++ {
		h, err := hc.Lookup(opts.Country, year)
		if err != nil {
			return nil, err
		}
		holidays.Merge(h)
	}

	c := &Calendar{
		invoiceDay:      opts.InvoiceDay,
		country:         opts.Country,
		now:             now,
		workingDays:     days,
		excludeHolidays: opts.ExcludePublicHolidays,
		skipToday:       opts.SkipToday,
		holidays:        holidays,
	}
	for _, wd := range days {
		c.isWorkingDay[wd] = true
	}
	return c, nil
}

// Now returns the instant the calendar was built for.
func (c *Calendar) Now() time.Time { return c.now }

// Today returns midnight of Now.
func (c *Calendar) Today() time.Time { return timecalc.StartOfDay(c.now) }

// InvoiceDay returns the nominal invoice day of month.
func (c *Calendar) InvoiceDay() int { return c.invoiceDay }

// Country returns the holiday country code.
func (c *Calendar) Country() string { return c.country }

// WorkingDays returns the configured work-week in configuration order.
func (c *Calendar) WorkingDays() []time.Weekday {
	return append([]time.Weekday(nil), c.workingDays...)
}

// IsHoliday reports whether t's date is a loaded public holiday.
func (c *Calendar) IsHoliday(t time.Time) bool {
	return c.holidays.Contains(t)
}

// IsBusinessDay reports whether t is Monday to Friday and, when holidays are
// excluded, not a public holiday. Invoice dates land on business days.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	if timecalc.IsWeekend(t) {
		return false
	}
	return !(c.excludeHolidays && c.IsHoliday(t))
}

// IsWorkingDay reports whether t is in the work-week and, when holidays are
// excluded, not a public holiday.
func (c *Calendar) IsWorkingDay(t time.Time) bool {
	if !c.isWorkingDay[t.Weekday()] {
		return false
	}
	return !(c.excludeHolidays && c.IsHoliday(t))
}

// rollBackward returns the latest date on or before d satisfying ok.
func rollBackward(d time.Time, ok func(time.Time) bool) time.Time {
	for i := 0; i < maxRoll && !ok(d); i++ {
		d = timecalc.AddDays(d, -1)
	}
	return d
}

// rollForward returns the earliest date on or after d satisfying ok.
func rollForward(d time.Time, ok func(time.Time) bool) time.Time {
	for i := 0; i < maxRoll && !ok(d); i++ {
		d = timecalc.AddDays(d, 1)
	}
	return d
}

// InvoiceDate returns the invoice date for month/year: the nominal invoice
// day clamped to the month's last day, then rolled back to the nearest
// business day. Out-of-range months are normalized (month 0 is December of
// the previous year).
func (c *Calendar) InvoiceDate(month time.Month, year int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, c.now.Location())
	day := min(c.invoiceDay, timecalc.DaysInMonth(first.Year(), first.Month()))
	nominal := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, first.Location())
	return rollBackward(nominal, c.IsBusinessDay)
}

// CurrentMonthInvoiceDate is the invoice date of Now's month.
func (c *Calendar) CurrentMonthInvoiceDate() time.Time {
	return c.InvoiceDate(c.now.Month(), c.now.Year())
}

// LastInvoiceDate is the most recent invoice date on or before Now.
func (c *Calendar) LastInvoiceDate() time.Time {
	current := c.CurrentMonthInvoiceDate()
	if c.now.Before(current) {
		return c.InvoiceDate(c.now.Month()-1, c.now.Year())
	}
	return current
}

// NextInvoiceDate is the first invoice date after Now.
func (c *Calendar) NextInvoiceDate() time.Time {
	current := c.CurrentMonthInvoiceDate()
	if c.now.Before(current) {
		return current
	}
	return c.InvoiceDate(c.now.Month()+1, c.now.Year())
}

// FirstBillableDate is the first day counted toward the current invoice. An
// invoice date rolled back off the nominal day has already been billed, so
// the window starts the day after it.
func (c *Calendar) FirstBillableDate() time.Time {
	last := c.LastInvoiceDate()
	if last.Day() < c.invoiceDay {
		return timecalc.AddDays(last, 1)
	}
	return last
}

// LastBillableDate is the last working day counted toward the next invoice.
// A next invoice date rolled back off the nominal day is itself billable.
func (c *Calendar) LastBillableDate() time.Time {
	next := c.NextInvoiceDate()
	if next.Day() < c.invoiceDay {
		return next
	}
	return rollBackward(timecalc.AddDays(next, -1), c.IsWorkingDay)
}

// NextWorkingDay is today (tomorrow with SkipToday) rolled forward to the
// nearest working day.
func (c *Calendar) NextWorkingDay() time.Time {
	d := c.Today()
	if c.skipToday {
		d = timecalc.AddDays(d, 1)
	}
	return rollForward(d, c.IsWorkingDay)
}

// RemainingWorkingDates lists the working days in [NextWorkingDay, LastBillableDate].
func (c *Calendar) RemainingWorkingDates() []time.Time {
	var dates []time.Time
	end := c.LastBillableDate()
	for d := c.NextWorkingDay(); !d.After(end); d = timecalc.AddDays(d, 1) {
		if c.IsWorkingDay(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

// RemainingWorkingDays counts RemainingWorkingDates. It is zero, never
// negative, once NextWorkingDay has passed LastBillableDate.
func (c *Calendar) RemainingWorkingDays() int {
	return len(c.RemainingWorkingDates())
}

// RemainingPublicHolidays lists the holidays dated within
// [NextWorkingDay, LastBillableDate], ordered by date.
func (c *Calendar) RemainingPublicHolidays() []holiday.Named {
	from := holiday.DateOf(c.NextWorkingDay())
	to := holiday.DateOf(c.LastBillableDate())
	var out []holiday.Named
	for _, h := range c.holidays.Sorted() {
		if h.Date.Before(from) || to.Before(h.Date) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// Period is a snapshot of every derived value of a Calendar.
type Period struct {
	Now                     time.Time
	LastInvoiceDate         time.Time
	NextInvoiceDate         time.Time
	FirstBillableDate       time.Time
	LastBillableDate        time.Time
	NextWorkingDay          time.Time
	RemainingWorkingDays    int
	RemainingPublicHolidays []holiday.Named
}

// Period computes all derived values at once.
func (c *Calendar) Period() Period {
	return Period{
		Now:                     c.now,
		LastInvoiceDate:         c.LastInvoiceDate(),
		NextInvoiceDate:         c.NextInvoiceDate(),
		FirstBillableDate:       c.FirstBillableDate(),
		LastBillableDate:        c.LastBillableDate(),
		NextWorkingDay:          c.NextWorkingDay(),
		RemainingWorkingDays:    c.RemainingWorkingDays(),
		RemainingPublicHolidays: c.RemainingPublicHolidays(),
	}
}
