package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/toggl-tally/internal/billing"
	"github.com/Tiliavir/toggl-tally/internal/filter"
	"github.com/Tiliavir/toggl-tally/internal/holiday"
	"github.com/Tiliavir/toggl-tally/internal/report"
	"github.com/Tiliavir/toggl-tally/internal/tally"
)

func summary(days int) *tally.Summary {
	return &tally.Summary{
		Period: billing.Period{
			NextInvoiceDate:      time.Date(2023, time.March, 24, 0, 0, 0, 0, time.UTC),
			LastBillableDate:     time.Date(2023, time.March, 24, 0, 0, 0, 0, time.UTC),
			RemainingWorkingDays: days,
			RemainingPublicHolidays: []holiday.Named{
				{Name: "Human Rights Day", Date: holiday.Date{Year: 2023, Month: time.March, Day: 21}},
			},
		},
		HoursPerMonth: 100,
		Filters: filter.Resolved{
			Clients: filter.NewSet(filter.KindClient, filter.Entity{ID: 55, Name: "Supercorp", Kind: filter.KindClient}),
		},
		Worked:      decimal.NewFromInt(14400),
		Target:      decimal.NewFromInt(360000),
		Outstanding: decimal.NewFromInt(345600),
		PerDay:      decimal.NewFromInt(43200),
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	report.New(&buf).Summary(summary(8), false)
	out := buf.String()

	assert.Contains(t, out, "8 days to go before next invoice on Fri 24 Mar.")
	assert.Contains(t, out, "Work 12:00:00 per day to hit your target of 100 hours on last billable workday Fri 24 Mar.")
	assert.Contains(t, out, "04:00:00 hours worked since last invoice.")
	assert.Contains(t, out, "Progress for month")
	assert.Contains(t, out, "4%")
	assert.NotContains(t, out, "Filters")
	assert.NotContains(t, out, "Public holidays")
}

func TestSummaryVerbose(t *testing.T) {
	var buf bytes.Buffer
	report.New(&buf).Summary(summary(8), true)
	out := buf.String()

	assert.Contains(t, out, "Filters")
	assert.Contains(t, out, "Client")
	assert.Contains(t, out, "Supercorp")
	assert.Contains(t, out, "Public holidays")
	assert.Contains(t, out, "Human Rights Day")
	assert.Contains(t, out, "Tue 21 Mar")
}

func TestSummaryNoWorkingDaysLeft(t *testing.T) {
	s := summary(0)
	s.PerDay = decimal.Zero

	var buf bytes.Buffer
	report.New(&buf).Summary(s, false)
	out := buf.String()

	assert.Contains(t, out, "0 days to go before next invoice")
	assert.Contains(t, out, "You have no working days left.")
	assert.NotContains(t, out, "per day")
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		progress   decimal.Decimal
		wantFilled int
		wantPct    string
	}{
		{decimal.Zero, 0, "0%"},
		{decimal.NewFromFloat(0.5), 20, "50%"},
		{decimal.NewFromInt(1), 40, "100%"},
		{decimal.NewFromInt(3), 40, "100%"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		report.New(&buf).ProgressBar(tt.progress)
		out := buf.String()
		assert.Equal(t, tt.wantFilled, strings.Count(out, "━"), "progress %s", tt.progress)
		assert.Equal(t, 40-tt.wantFilled, strings.Count(out, "─"), "progress %s", tt.progress)
		assert.True(t, strings.HasSuffix(strings.TrimSpace(out), tt.wantPct), "got %q", out)
	}
}

func TestTablesSkipWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := report.New(&buf)
	r.FiltersTable(filter.Resolved{})
	r.HolidaysTable(nil)
	assert.Empty(t, buf.String())
}
