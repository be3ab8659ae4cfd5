package billing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/toggl-tally/internal/billing"
	"github.com/Tiliavir/toggl-tally/internal/holiday"
	"github.com/Tiliavir/toggl-tally/internal/model"
	"github.com/Tiliavir/toggl-tally/internal/timecalc"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixedHolidays serves the same holiday list for every country.
func fixedHolidays(dates map[time.Time]string) holiday.Calendar {
	return holiday.CalendarFunc(func(_ string, year int) (holiday.Holidays, error) {
		h := holiday.Holidays{}
		for d, name := range dates {
			if d.Year() == year {
				h.Add(holiday.DateOf(d), name)
			}
		}
		return h, nil
	})
}

func newCalendar(t *testing.T, now time.Time, opts billing.Options, hc holiday.Calendar) *billing.Calendar {
	t.Helper()
	if opts.InvoiceDay == 0 {
		opts.InvoiceDay = 1
	}
	c, err := billing.New(opts, timecalc.FixedClock(now), hc)
	require.NoError(t, err)
	return c
}

func TestNextWorkingDay(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		skipToday bool
		want      time.Time
	}{
		{"friday", day(2023, 2, 17), false, day(2023, 2, 17)},
		{"friday skip today", day(2023, 2, 17), true, day(2023, 2, 20)},
		{"monday", day(2023, 2, 20), false, day(2023, 2, 20)},
		{"monday skip today", day(2023, 2, 20), true, day(2023, 2, 21)},
		{"saturday afternoon", time.Date(2023, 2, 18, 15, 30, 0, 0, time.UTC), false, day(2023, 2, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCalendar(t, tt.now, billing.Options{SkipToday: tt.skipToday}, nil)
			assert.Equal(t, tt.want, c.NextWorkingDay())
		})
	}
}

func TestNextWorkingDaySkipsHoliday(t *testing.T) {
	hc := fixedHolidays(map[time.Time]string{day(2023, 3, 21): "Human Rights Day"})
	c := newCalendar(t, day(2023, 3, 21), billing.Options{ExcludePublicHolidays: true}, hc)
	assert.Equal(t, day(2023, 3, 22), c.NextWorkingDay())

	c = newCalendar(t, day(2023, 3, 21), billing.Options{ExcludePublicHolidays: false}, hc)
	assert.Equal(t, day(2023, 3, 21), c.NextWorkingDay())
}

func TestInvoiceDates(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		invoiceDay int
		wantLast   time.Time
		wantNext   time.Time
	}{
		{"current month", day(2023, 2, 17), 15, day(2023, 2, 15), day(2023, 3, 15)},
		{"last month", day(2023, 2, 17), 29, day(2023, 1, 27), day(2023, 2, 28)},
		{"on invoice day", time.Date(2023, 2, 15, 9, 0, 0, 0, time.UTC), 15, day(2023, 2, 15), day(2023, 3, 15)},
		{"january looks back to december", day(2023, 1, 10), 15, day(2022, 12, 15), day(2023, 1, 13)},
		{"december looks ahead to january", day(2023, 12, 20), 15, day(2023, 12, 15), day(2024, 1, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCalendar(t, tt.now, billing.Options{InvoiceDay: tt.invoiceDay}, nil)
			assert.Equal(t, tt.wantLast, c.LastInvoiceDate())
			assert.Equal(t, tt.wantNext, c.NextInvoiceDate())
		})
	}
}

func TestInvoiceDateClampsShortMonth(t *testing.T) {
	c := newCalendar(t, day(2023, 2, 1), billing.Options{InvoiceDay: 31}, nil)

	// 2023-02-28 is a Tuesday.
	assert.Equal(t, day(2023, 2, 28), c.InvoiceDate(time.February, 2023))
	// 2026-02-28 is a Saturday.
	assert.Equal(t, day(2026, 2, 27), c.InvoiceDate(time.February, 2026))
	// Leap year.
	assert.Equal(t, day(2024, 2, 29), c.InvoiceDate(time.February, 2024))
	// 30-day month.
	assert.Equal(t, day(2023, 6, 30), c.InvoiceDate(time.June, 2023))
}

func TestInvoiceDateRollsPastConsecutiveHolidays(t *testing.T) {
	hc := fixedHolidays(map[time.Time]string{
		day(2023, 12, 25): "Christmas Day",
		day(2023, 12, 22): "Office closed",
	})
	c := newCalendar(t, day(2023, 12, 1), billing.Options{InvoiceDay: 25, ExcludePublicHolidays: true}, hc)
	// Mon 25 holiday, Sun 24, Sat 23, Fri 22 holiday.
	assert.Equal(t, day(2023, 12, 21), c.InvoiceDate(time.December, 2023))

	c = newCalendar(t, day(2023, 12, 1), billing.Options{InvoiceDay: 25, ExcludePublicHolidays: false}, hc)
	assert.Equal(t, day(2023, 12, 25), c.InvoiceDate(time.December, 2023))
}

func TestFirstBillableDate(t *testing.T) {
	// Nominal day 29 rolled back to Fri 27 Jan: the invoice day itself was billed.
	c := newCalendar(t, day(2023, 2, 17), billing.Options{InvoiceDay: 29}, nil)
	assert.Equal(t, day(2023, 1, 28), c.FirstBillableDate())

	// Nominal day hit exactly: it belongs to the new window.
	c = newCalendar(t, day(2023, 2, 17), billing.Options{InvoiceDay: 15}, nil)
	assert.Equal(t, day(2023, 2, 15), c.FirstBillableDate())
}

func TestLastBillableDate(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		invoiceDay int
		want       time.Time
	}{
		{"exclusive", day(2023, 3, 1), 31, day(2023, 3, 30)},
		{"inclusive", day(2023, 3, 1), 26, day(2023, 3, 24)},
		{"rolls back over weekend", day(2023, 3, 1), 20, day(2023, 3, 17)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCalendar(t, tt.now, billing.Options{InvoiceDay: tt.invoiceDay}, nil)
			assert.Equal(t, tt.want, c.LastBillableDate())
		})
	}
}

func TestLastBillableDateUsesWorkingDays(t *testing.T) {
	// Next invoice Wed 15 Mar; the day before is Tue 14 which is not worked.
	c := newCalendar(t, day(2023, 3, 1), billing.Options{
		InvoiceDay:  15,
		WorkingDays: []string{"MO", "WE"},
	}, nil)
	assert.Equal(t, day(2023, 3, 13), c.LastBillableDate())
}

func TestRemainingWorkingDays(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		invoiceDay int
		skipToday  bool
		want       int
	}{
		{"case 1", day(2023, 3, 1), 31, false, 22},
		{"case 1 skip today", day(2023, 3, 1), 31, true, 21},
		{"case 2", day(2023, 3, 1), 26, false, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCalendar(t, tt.now, billing.Options{InvoiceDay: tt.invoiceDay, SkipToday: tt.skipToday}, nil)
			assert.Equal(t, tt.want, c.RemainingWorkingDays())
		})
	}
}

func TestRemainingWorkingDaysNeverNegative(t *testing.T) {
	// Next invoice Wed 15 Mar, last billable Tue 14 Mar.
	c := newCalendar(t, time.Date(2023, 3, 14, 18, 0, 0, 0, time.UTC), billing.Options{InvoiceDay: 15, SkipToday: true}, nil)
	require.True(t, c.NextWorkingDay().After(c.LastBillableDate()))
	assert.Equal(t, 0, c.RemainingWorkingDays())
	assert.Empty(t, c.RemainingWorkingDates())

	c = newCalendar(t, time.Date(2023, 3, 14, 18, 0, 0, 0, time.UTC), billing.Options{InvoiceDay: 15}, nil)
	assert.Equal(t, 1, c.RemainingWorkingDays())
}

func TestRemainingWorkingDaysCustomWeek(t *testing.T) {
	// Mondays and Wednesdays from Wed 1 Mar to Wed 29 Mar 2023.
	c := newCalendar(t, day(2023, 3, 1), billing.Options{
		InvoiceDay:  31,
		WorkingDays: []string{"mo", "we"},
	}, nil)
	assert.Equal(t, day(2023, 3, 29), c.LastBillableDate())
	assert.Equal(t, 9, c.RemainingWorkingDays())
}

func TestRemainingWorkingDaysAndHolidays(t *testing.T) {
	hc := fixedHolidays(map[time.Time]string{
		day(2023, 3, 21): "Human Rights Day",
		day(2023, 2, 14): "Before window",
		day(2023, 4, 7):  "After window",
		day(2023, 3, 25): "Saturday holiday",
	})

	c := newCalendar(t, day(2023, 3, 1), billing.Options{InvoiceDay: 31, ExcludePublicHolidays: true}, hc)
	assert.Equal(t, 21, c.RemainingWorkingDays())
	assert.Equal(t, []holiday.Named{
		{Name: "Human Rights Day", Date: holiday.Date{Year: 2023, Month: time.March, Day: 21}},
		{Name: "Saturday holiday", Date: holiday.Date{Year: 2023, Month: time.March, Day: 25}},
	}, c.RemainingPublicHolidays())

	c = newCalendar(t, day(2023, 3, 1), billing.Options{InvoiceDay: 31, ExcludePublicHolidays: false}, hc)
	assert.Equal(t, 22, c.RemainingWorkingDays())
	assert.Len(t, c.RemainingPublicHolidays(), 2)
}

func TestHolidaysLoadedAcrossYearBoundary(t *testing.T) {
	var years []int
	hc := holiday.CalendarFunc(func(country string, year int) (holiday.Holidays, error) {
		assert.Equal(t, "ZA", country)
		years = append(years, year)
		if year == 2024 {
			return holiday.Holidays{{Year: 2024, Month: time.January, Day: 1}: "New Year's Day"}, nil
		}
		return holiday.Holidays{}, nil
	})
	c := newCalendar(t, day(2023, 12, 20), billing.Options{InvoiceDay: 2, Country: "ZA", ExcludePublicHolidays: true}, hc)
	assert.Equal(t, []int{2022, 2023, 2024}, years)
	// Tue 2 Jan 2024 is the next invoice; Mon 1 Jan is a holiday.
	assert.Equal(t, day(2024, 1, 2), c.NextInvoiceDate())
	assert.Equal(t, day(2023, 12, 29), c.LastBillableDate())
}

func TestTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Pacific/Auckland")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Friday 17 Feb 2023 12:00 UTC is already Saturday 18 Feb in Auckland.
	now := time.Date(2023, 2, 17, 12, 0, 0, 0, time.UTC)
	c := newCalendar(t, now, billing.Options{Timezone: "Pacific/Auckland"}, nil)
	got := c.NextWorkingDay()
	assert.True(t, got.Equal(time.Date(2023, 2, 20, 0, 0, 0, 0, loc)), "got %s", got)
	assert.Equal(t, "Pacific/Auckland", got.Location().String())
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		opts  billing.Options
		field string
	}{
		{"empty working days", billing.Options{InvoiceDay: 1, WorkingDays: []string{}}, "working_days"},
		{"unknown day code", billing.Options{InvoiceDay: 1, WorkingDays: []string{"MO", "XX"}}, "working_days"},
		{"invoice day zero", billing.Options{InvoiceDay: 0}, "invoice_day"},
		{"invoice day too large", billing.Options{InvoiceDay: 32}, "invoice_day"},
		{"unknown timezone", billing.Options{InvoiceDay: 1, Timezone: "Mars/Olympus"}, "timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := billing.New(tt.opts, timecalc.FixedClock(day(2023, 3, 1)), nil)
			require.Error(t, err)
			var cfgErr *model.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.ErrorIs(t, err, model.ErrConfig)
		})
	}
}

func TestNewPropagatesHolidayError(t *testing.T) {
	boom := errors.New("holiday service down")
	hc := holiday.CalendarFunc(func(string, int) (holiday.Holidays, error) { return nil, boom })
	_, err := billing.New(billing.Options{InvoiceDay: 1}, timecalc.FixedClock(day(2023, 3, 1)), hc)
	assert.Equal(t, boom, err)
}

func TestParseWorkingDays(t *testing.T) {
	days, err := billing.ParseWorkingDays([]string{"fr", " MO", "FR", "su"})
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Friday, time.Monday, time.Sunday}, days)
}

func TestInvoiceDateIsAlwaysBusinessDay(t *testing.T) {
	holidays := map[time.Time]string{}
	for y := 2019; y <= 2031; y++ {
		for m := time.January; m <= time.December; m++ {
			holidays[day(y, m, 1)] = "first"
			holidays[day(y, m, 28)] = "twenty-eighth"
		}
	}
	hc := fixedHolidays(holidays)
	for _, exclude := range []bool{true, false} {
		for invoiceDay := 1; invoiceDay <= 31; invoiceDay++ {
			for y := 2020; y <= 2030; y++ {
				c := newCalendar(t, day(y, 6, 1), billing.Options{InvoiceDay: invoiceDay, ExcludePublicHolidays: exclude}, hc)
				for m := time.January; m <= time.December; m++ {
					got := c.InvoiceDate(m, y)
					nominal := day(y, m, min(invoiceDay, timecalc.DaysInMonth(y, m)))
					require.False(t, timecalc.IsWeekend(got), "day %d %s %d -> %s", invoiceDay, m, y, got)
					require.False(t, got.After(nominal), "day %d %s %d -> %s", invoiceDay, m, y, got)
					if exclude {
						require.False(t, c.IsHoliday(got), "day %d %s %d -> %s", invoiceDay, m, y, got)
					}
				}
			}
		}
	}
}

func TestPeriodProperties(t *testing.T) {
	start := day(2023, 1, 1)
	for i := 0; i < 366; i += 3 {
		now := timecalc.AddDays(start, i).Add(13 * time.Hour)
		for _, invoiceDay := range []int{1, 15, 26, 29, 31} {
			c := newCalendar(t, now, billing.Options{InvoiceDay: invoiceDay, SkipToday: i%2 == 0}, nil)
			p := c.Period()

			assert.GreaterOrEqual(t, p.RemainingWorkingDays, 0)
			assert.False(t, p.FirstBillableDate.After(timecalc.AddDays(p.LastInvoiceDate, 1)))
			assert.False(t, p.LastInvoiceDate.After(now))
			assert.True(t, p.NextInvoiceDate.After(now))
			if p.NextInvoiceDate.Day() >= invoiceDay {
				assert.True(t, p.LastBillableDate.Before(p.NextInvoiceDate), "now %s day %d", now, invoiceDay)
			} else {
				assert.Equal(t, p.NextInvoiceDate, p.LastBillableDate)
			}
		}
	}
}
